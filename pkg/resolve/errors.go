package resolve

import "errors"

var (
	// ErrInsufficientData is terminal for one query: both sources were
	// exhausted and the sole surviving record has no usable biometric or
	// career fields to identify the person by.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoData means neither source produced a record for the query.
	ErrNoData = errors.New("no data from any source")
)
