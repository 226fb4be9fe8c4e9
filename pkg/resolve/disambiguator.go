package resolve

import (
	"context"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/tracing"
)

// maxCandidateLinks bounds the fan-out for ambiguous name queries.
const maxCandidateLinks = 3

// Disambiguator resolves an ambiguous name into every plausible person
// instead of collapsing to one best guess. It fans the primary source's top
// links out to independent orchestrator runs.
type Disambiguator struct {
	logger ectologger.Logger
	orch   *Orchestrator
}

// NewDisambiguator creates a disambiguator over an orchestrator.
func NewDisambiguator(logger ectologger.Logger, orch *Orchestrator) *Disambiguator {
	return &Disambiguator{
		logger: logger,
		orch:   orch,
	}
}

// Resolve returns a record per plausible person for the query. The supplied
// name seeds the cross-source lookup of every run, so candidates are judged
// against the name the caller asked about rather than each link's own
// title. An empty result is valid; adapter failures are non-fatal.
func (d *Disambiguator) Resolve(ctx context.Context, name string) ([]*models.PlayerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Disambiguator.Resolve")
	defer span.End()

	log := d.logger.WithContext(ctx).WithFields(map[string]any{"query": name})

	links, err := d.orch.primary.Search(ctx, name)
	if err != nil {
		log.WithError(err).WithFields(map[string]any{"source": d.orch.primary.Name()}).Warn("Primary search failed")
		return []*models.PlayerRecord{}, nil
	}
	if len(links) > maxCandidateLinks {
		links = links[:maxCandidateLinks]
	}
	if len(links) == 0 {
		return []*models.PlayerRecord{}, nil
	}

	results := make([]*models.PlayerRecord, len(links))
	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := d.orch.ResolveLink(ctx, link, name)
			if err != nil {
				log.WithError(err).WithFields(map[string]any{"url": link.URL}).Debug("Candidate resolution failed")
				return
			}
			results[i] = rec
		}()
	}
	wg.Wait()

	out := make([]*models.PlayerRecord, 0, len(results))
	for _, rec := range results {
		if rec == nil || !rec.HasIdentity() {
			continue
		}
		out = append(out, rec)
	}

	log.WithFields(map[string]any{"candidates": len(links), "resolved": len(out)}).Debug("Disambiguation complete")
	return out, nil
}
