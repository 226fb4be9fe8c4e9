package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pitchside/clover/pkg/models"
)

// WithTimeout bounds every call on the wrapped adapter. A deadline hit is
// reported as ErrAdapterUnavailable so a hung source stalls only its own
// cascade step instead of the whole resolution.
func WithTimeout(next Adapter, timeout time.Duration) Adapter {
	if timeout <= 0 {
		return next
	}
	return &timeoutAdapter{next: next, timeout: timeout}
}

type timeoutAdapter struct {
	next    Adapter
	timeout time.Duration
}

func (a *timeoutAdapter) Name() string {
	return a.next.Name()
}

func (a *timeoutAdapter) Search(ctx context.Context, name string) ([]CandidateLink, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	links, err := a.next.Search(ctx, name)
	if err != nil {
		return nil, a.mapErr(err)
	}
	return links, nil
}

func (a *timeoutAdapter) FetchProfile(ctx context.Context, url string) (*models.PlayerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	rec, err := a.next.FetchProfile(ctx, url)
	if err != nil {
		return nil, a.mapErr(err)
	}
	return rec, nil
}

func (a *timeoutAdapter) mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s: %w", a.next.Name(), a.timeout, ErrAdapterUnavailable)
	}
	return err
}
