// Package resolve implements the cross-source resolution pipeline: the
// cascading orchestrator, the fan-out disambiguator for ambiguous names and
// the service boundary the API and consumers call.
package resolve

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/pitchside/clover/pkg/matching"
	"github.com/pitchside/clover/pkg/merging"
	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/sources"
	"github.com/pitchside/clover/pkg/tracing"
)

// State names one step of the resolution state machine. States are carried
// in log fields so a failed resolution can be traced to the step it died in.
type State string

const (
	StateStart                State = "start"
	StateSourceAResolved      State = "source_a_resolved"
	StateCrossResolution      State = "cross_resolution_attempt"
	StateMatched              State = "matched"
	StateSingleSourceAccepted State = "single_source_accepted"
	StateFailed               State = "failed"
)

// fallbackQuery builds one escalation step's cross-source search query from
// the primary record. Builders returning "" are skipped.
type fallbackQuery struct {
	name  string
	build func(rec *models.PlayerRecord) string
}

// fallbackQueries is the escalation order of the cascade. Each step is tried
// at most once and the first successful match short-circuits the rest.
var fallbackQueries = []fallbackQuery{
	{"title", func(r *models.PlayerRecord) string { return decodeTitle(r.Title) }},
	{"name", func(r *models.PlayerRecord) string { return r.Name }},
	{"full_name", func(r *models.PlayerRecord) string { return r.FullName }},
	{"composite", compositeQuery},
}

// decodeTitle undoes percent-encoding some sources leave in display titles.
func decodeTitle(title string) string {
	decoded, err := url.QueryUnescape(title)
	if err != nil {
		return title
	}
	return decoded
}

// compositeQuery is the last-resort query: title, position, country and age
// mashed together for sources whose search tolerates extra terms.
func compositeQuery(r *models.PlayerRecord) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{decodeTitle(r.Title), r.Position, r.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if r.Age != 0 {
		parts = append(parts, strconv.Itoa(r.Age))
	}
	return strings.Join(parts, " ")
}

// Orchestrator resolves one best-effort canonical player record per query by
// walking the fallback cascade across the two sources.
type Orchestrator struct {
	logger    ectologger.Logger
	primary   sources.Adapter
	secondary sources.Adapter
}

// NewOrchestrator wires the two adapters behind per-call timeouts. A timeout
// of zero disables the bound (not recommended; a hung source then stalls its
// resolution).
func NewOrchestrator(logger ectologger.Logger, primary, secondary sources.Adapter, callTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		primary:   sources.WithTimeout(primary, callTimeout),
		secondary: sources.WithTimeout(secondary, callTimeout),
	}
}

// Resolve discovers the primary source's best link for name and resolves it
// against the secondary source.
func (o *Orchestrator) Resolve(ctx context.Context, name string) (*models.PlayerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Orchestrator.Resolve")
	defer span.End()

	var link sources.CandidateLink
	links, err := o.primary.Search(ctx, name)
	if err != nil {
		o.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"source": o.primary.Name(),
			"query":  name,
		}).Debug("Primary search failed, continuing with secondary only")
	} else if len(links) > 0 {
		link = links[0]
	}

	return o.ResolveLink(ctx, link, name)
}

// ResolveLink resolves a known primary-source candidate link. The initial
// primary fetch and the secondary name lookup run concurrently; every
// fallback step afterwards is sequential because each depends on the
// previous step's outcome.
func (o *Orchestrator) ResolveLink(ctx context.Context, link sources.CandidateLink, name string) (*models.PlayerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Orchestrator.ResolveLink")
	defer span.End()

	log := o.logger.WithContext(ctx).WithFields(map[string]any{
		"query": name,
		"state": StateStart,
	})

	var (
		primaryRec   *models.PlayerRecord
		secondaryRec *models.PlayerRecord
		wg           sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if link.URL == "" {
			return
		}
		rec, err := o.primary.FetchProfile(ctx, link.URL)
		if err != nil {
			log.WithError(err).WithFields(map[string]any{"source": o.primary.Name()}).Debug("Primary fetch failed")
			return
		}
		primaryRec = rec
	}()
	go func() {
		defer wg.Done()
		secondaryRec = o.lookupSecondary(ctx, name)
	}()
	wg.Wait()

	if primaryRec == nil && secondaryRec == nil {
		log.WithFields(map[string]any{"state": StateFailed}).Debug("No record from any source")
		return nil, fmt.Errorf("resolving %q: %w", name, ErrNoData)
	}

	// Fallback queries all derive from the primary record, so without one
	// the secondary record is the best we can do.
	if primaryRec == nil {
		log.WithFields(map[string]any{"state": StateSingleSourceAccepted, "source": o.secondary.Name()}).Debug("Accepted secondary record alone")
		return secondaryRec, nil
	}

	log = log.WithFields(map[string]any{"state": StateSourceAResolved})

	if secondaryRec != nil {
		if dec := matching.Resolution(primaryRec, secondaryRec); dec.Match {
			log.WithFields(map[string]any{"state": StateMatched, "rule": dec.Rule}).Debug("Matched on initial lookup")
			return merging.Candidates(primaryRec, secondaryRec), nil
		}
	}

	if merged := o.crossResolve(ctx, log, primaryRec); merged != nil {
		return merged, nil
	}

	if !primaryRec.HasBiometrics() {
		log.WithFields(map[string]any{"state": StateFailed}).Debug("Primary record too sparse to accept alone")
		return nil, fmt.Errorf("resolving %q: %w", name, ErrInsufficientData)
	}

	log.WithFields(map[string]any{"state": StateSingleSourceAccepted, "source": o.primary.Name()}).Debug("Accepted primary record alone")
	return primaryRec, nil
}

// crossResolve walks the escalation table until a secondary candidate
// matches the primary record. Returns nil when the cascade is exhausted.
func (o *Orchestrator) crossResolve(ctx context.Context, log ectologger.Logger, primaryRec *models.PlayerRecord) *models.PlayerRecord {
	ctx, span := tracing.StartSpan(ctx, "resolve.Orchestrator.crossResolve")
	defer span.End()

	for attempt, fq := range fallbackQueries {
		query := fq.build(primaryRec)
		if query == "" {
			continue
		}

		alog := log.WithFields(map[string]any{
			"state":   StateCrossResolution,
			"attempt": attempt + 1,
			"builder": fq.name,
		})

		candidate := o.lookupSecondary(ctx, query)
		if candidate == nil {
			alog.Debug("Fallback query produced no candidate")
			continue
		}

		dec := matching.Resolution(primaryRec, candidate)
		if !dec.Match {
			alog.Debug("Fallback candidate did not match")
			continue
		}

		alog.WithFields(map[string]any{"state": StateMatched, "rule": dec.Rule}).Debug("Matched on fallback query")
		return merging.Candidates(primaryRec, candidate)
	}

	return nil
}

// lookupSecondary searches the secondary source and fetches its first link.
// Every failure is swallowed into "no record from this source" so the
// cascade keeps going.
func (o *Orchestrator) lookupSecondary(ctx context.Context, query string) *models.PlayerRecord {
	log := o.logger.WithContext(ctx).WithFields(map[string]any{
		"source": o.secondary.Name(),
		"query":  query,
	})

	links, err := o.secondary.Search(ctx, query)
	if err != nil {
		log.WithError(err).Debug("Secondary search failed")
		return nil
	}
	if len(links) == 0 {
		return nil
	}

	rec, err := o.secondary.FetchProfile(ctx, links[0].URL)
	if err != nil {
		log.WithError(err).Debug("Secondary fetch failed")
		return nil
	}
	return rec
}
