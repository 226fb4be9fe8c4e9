package sources

import "errors"

var (
	// ErrAdapterUnavailable signals a network or parsing failure for one
	// source. Non-fatal: the pipeline continues with whatever else resolved.
	ErrAdapterUnavailable = errors.New("source unavailable")

	// ErrNoCandidate signals a search that returned zero links. Non-fatal.
	ErrNoCandidate = errors.New("no candidate found")

	// ErrValidation signals a fetched document that failed to map onto a
	// minimally valid player record. Treated exactly like
	// ErrAdapterUnavailable by the pipeline.
	ErrValidation = errors.New("profile failed validation")
)
