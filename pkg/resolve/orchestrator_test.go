package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/sources"
)

// stubAdapter is a scriptable sources.Adapter. search and fetch are keyed on
// the query/url so tests can describe each source as a lookup table.
type stubAdapter struct {
	name    string
	links   map[string][]sources.CandidateLink
	records map[string]*models.PlayerRecord

	mu       sync.Mutex
	searches []string

	searchErr error
	fetchErr  error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Search(_ context.Context, name string) ([]sources.CandidateLink, error) {
	s.mu.Lock()
	s.searches = append(s.searches, name)
	s.mu.Unlock()

	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.links[name], nil
}

func (s *stubAdapter) FetchProfile(_ context.Context, url string) (*models.PlayerRecord, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	rec, ok := s.records[url]
	if !ok {
		return nil, sources.ErrNoCandidate
	}
	// Copy so merge results never alias the stub's fixtures.
	out := *rec
	return &out, nil
}

func (s *stubAdapter) searchQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.searches...)
}

func link(source, url string) []sources.CandidateLink {
	return []sources.CandidateLink{{SourceID: source, URL: url}}
}

func ectologgerForTest() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func newTestOrchestrator(primary, secondary *stubAdapter) *Orchestrator {
	return NewOrchestrator(ectologgerForTest(), primary, secondary, time.Second)
}

func TestOrchestrator_NoDataFromAnySource(t *testing.T) {
	primary := &stubAdapter{name: "primary"}
	secondary := &stubAdapter{name: "secondary"}
	orch := newTestOrchestrator(primary, secondary)

	_, err := orch.Resolve(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestOrchestrator_SecondaryAloneIsAccepted(t *testing.T) {
	secondaryRec := &models.PlayerRecord{Name: "Kylian Mbappé", Elo: 2100}

	primary := &stubAdapter{name: "primary"}
	secondary := &stubAdapter{
		name:    "secondary",
		links:   map[string][]sources.CandidateLink{"Kylian Mbappé": link("secondary", "s/1")},
		records: map[string]*models.PlayerRecord{"s/1": secondaryRec},
	}
	orch := newTestOrchestrator(primary, secondary)

	rec, err := orch.Resolve(context.Background(), "Kylian Mbappé")
	require.NoError(t, err)
	assert.Equal(t, secondaryRec, rec)
}

func TestOrchestrator_PrimarySearchFailureFallsBackToSecondary(t *testing.T) {
	secondaryRec := &models.PlayerRecord{Name: "Kylian Mbappé", Elo: 2100}

	primary := &stubAdapter{name: "primary", searchErr: errors.New("503")}
	secondary := &stubAdapter{
		name:    "secondary",
		links:   map[string][]sources.CandidateLink{"Kylian Mbappé": link("secondary", "s/1")},
		records: map[string]*models.PlayerRecord{"s/1": secondaryRec},
	}
	orch := newTestOrchestrator(primary, secondary)

	rec, err := orch.Resolve(context.Background(), "Kylian Mbappé")
	require.NoError(t, err)
	assert.Equal(t, secondaryRec, rec)
}

func TestOrchestrator_InitialLookupMatchMerges(t *testing.T) {
	primaryRec := &models.PlayerRecord{
		Name:          "Kylian Mbappé",
		FullName:      "Kylian Mbappé Lottin",
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
	}
	secondaryRec := &models.PlayerRecord{
		FullName:      "Kylian Mbappe Lottin",
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
		Elo:           2100,
		Status:        "Active",
	}

	primary := &stubAdapter{
		name:    "primary",
		links:   map[string][]sources.CandidateLink{"Kylian Mbappé": link("primary", "p/1")},
		records: map[string]*models.PlayerRecord{"p/1": primaryRec},
	}
	secondary := &stubAdapter{
		name:    "secondary",
		links:   map[string][]sources.CandidateLink{"Kylian Mbappé": link("secondary", "s/1")},
		records: map[string]*models.PlayerRecord{"s/1": secondaryRec},
	}
	orch := newTestOrchestrator(primary, secondary)

	rec, err := orch.Resolve(context.Background(), "Kylian Mbappé")
	require.NoError(t, err)

	// The merged record keeps the primary's identity and gains the
	// secondary's authoritative fields.
	assert.Equal(t, "Kylian Mbappé", rec.Name)
	assert.Equal(t, "Active", rec.Status)
}

func TestOrchestrator_FallbackCascade(t *testing.T) {
	primaryRec := &models.PlayerRecord{
		Name:          "K. Mbappé",
		Title:         "Kylian%20Mbapp%C3%A9",
		FullName:      "Kylian Mbappé Lottin",
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
	}
	secondaryRec := &models.PlayerRecord{
		FullName:      "Kylian Mbappe Lottin",
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
		Status:        "Active",
	}

	primary := &stubAdapter{
		name:    "primary",
		links:   map[string][]sources.CandidateLink{"K. Mbappé": link("primary", "p/1")},
		records: map[string]*models.PlayerRecord{"p/1": primaryRec},
	}
	// The secondary finds nothing for the original query; only the decoded
	// title query hits.
	secondary := &stubAdapter{
		name:    "secondary",
		links:   map[string][]sources.CandidateLink{"Kylian Mbappé": link("secondary", "s/1")},
		records: map[string]*models.PlayerRecord{"s/1": secondaryRec},
	}
	orch := newTestOrchestrator(primary, secondary)

	rec, err := orch.Resolve(context.Background(), "K. Mbappé")
	require.NoError(t, err)
	assert.Equal(t, "K. Mbappé", rec.Name)
	assert.Equal(t, "Active", rec.Status)

	// The initial lookup used the caller's query; the first fallback used
	// the percent-decoded title and matched, short-circuiting the rest.
	assert.Equal(t, []string{"K. Mbappé", "Kylian Mbappé"}, secondary.searchQueries())
}

func TestOrchestrator_CompositeFallbackQuery(t *testing.T) {
	primaryRec := &models.PlayerRecord{
		Name:          "Bobby Firmino",
		Age:           32,
		Country:       "Brazil",
		Position:      "CF",
		PreferredFoot: "right",
		Height:        181,
	}
	secondaryRec := &models.PlayerRecord{
		Name:          "Roberto Firmino",
		Age:           32,
		Country:       "Brazil",
		Position:      "CF, AM",
		PreferredFoot: "right",
		Height:        181,
	}

	primary := &stubAdapter{
		name:    "primary",
		links:   map[string][]sources.CandidateLink{"Bobby": link("primary", "p/1")},
		records: map[string]*models.PlayerRecord{"p/1": primaryRec},
	}
	secondary := &stubAdapter{
		name:    "secondary",
		links:   map[string][]sources.CandidateLink{"CF Brazil 32": link("secondary", "s/1")},
		records: map[string]*models.PlayerRecord{"s/1": secondaryRec},
	}
	orch := newTestOrchestrator(primary, secondary)

	rec, err := orch.Resolve(context.Background(), "Bobby")
	require.NoError(t, err)
	assert.Equal(t, "Bobby Firmino", rec.Name)

	// No title or full name on the primary record, so the cascade went
	// initial query, name, composite.
	assert.Equal(t, []string{"Bobby", "Bobby Firmino", "CF Brazil 32"}, secondary.searchQueries())
}

func TestOrchestrator_SparseUnmatchedPrimaryIsRejected(t *testing.T) {
	// Identity only, no biometrics: not enough to stand alone.
	primaryRec := &models.PlayerRecord{Name: "John Smith"}

	primary := &stubAdapter{
		name:    "primary",
		links:   map[string][]sources.CandidateLink{"John Smith": link("primary", "p/1")},
		records: map[string]*models.PlayerRecord{"p/1": primaryRec},
	}
	secondary := &stubAdapter{name: "secondary"}
	orch := newTestOrchestrator(primary, secondary)

	_, err := orch.Resolve(context.Background(), "John Smith")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestOrchestrator_RichUnmatchedPrimaryIsAccepted(t *testing.T) {
	primaryRec := &models.PlayerRecord{
		Name:        "John Smith",
		Age:         28,
		Height:      183,
		CurrentClub: "Sunderland",
	}

	primary := &stubAdapter{
		name:    "primary",
		links:   map[string][]sources.CandidateLink{"John Smith": link("primary", "p/1")},
		records: map[string]*models.PlayerRecord{"p/1": primaryRec},
	}
	secondary := &stubAdapter{name: "secondary"}
	orch := newTestOrchestrator(primary, secondary)

	rec, err := orch.Resolve(context.Background(), "John Smith")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", rec.Name)
	assert.Equal(t, "Sunderland", rec.CurrentClub)
}
