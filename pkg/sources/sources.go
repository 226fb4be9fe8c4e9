// Package sources defines the contract between the resolution pipeline and
// the per-site profile adapters. Adapters own fetching and parsing; the
// pipeline only sees canonical player records or failure signals.
package sources

import (
	"context"

	"github.com/pitchside/clover/pkg/models"
)

// CandidateLink points at one profile page discovered by a source search.
type CandidateLink struct {
	SourceID string `json:"source_id"`
	URL      string `json:"url"`
}

// Adapter is one external provider of player profile documents.
//
// Search is best-effort: an empty result is valid and not an error.
// FetchProfile returns ErrAdapterUnavailable (or ErrValidation) wrapped with
// detail when the document cannot be retrieved or mapped onto a minimally
// valid record; it never panics past this boundary.
type Adapter interface {
	Name() string
	Search(ctx context.Context, name string) ([]CandidateLink, error)
	FetchProfile(ctx context.Context, url string) (*models.PlayerRecord, error)
}
