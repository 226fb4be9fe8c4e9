package resolve

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/pitchside/clover/pkg/events"
	"github.com/pitchside/clover/pkg/matching"
	"github.com/pitchside/clover/pkg/merging"
	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/tracing"
)

// Service is the boundary the API layer and consumers call. It owns nothing
// durable: records come from the adapters and go to the caller.
type Service struct {
	logger        ectologger.Logger
	orchestrator  *Orchestrator
	disambiguator *Disambiguator
	emitter       *events.Emitter
}

// NewService creates the resolution service. emitter may be nil when
// eventing is disabled.
func NewService(logger ectologger.Logger, orch *Orchestrator, disamb *Disambiguator, emitter *events.Emitter) *Service {
	return &Service{
		logger:        logger,
		orchestrator:  orch,
		disambiguator: disamb,
		emitter:       emitter,
	}
}

// ResolveOne produces one best-effort canonical record for a name query.
// Returns ErrNoData or ErrInsufficientData when the cascade exhausts.
func (s *Service) ResolveOne(ctx context.Context, name string) (*models.PlayerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Service.ResolveOne")
	defer span.End()

	rec, err := s.orchestrator.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.emitter != nil {
		s.emitter.EmitPlayerResolved(ctx, rec)
	}
	return rec, nil
}

// ResolveMany returns every plausible person for an ambiguous name. The
// result may be empty; that is not an error.
func (s *Service) ResolveMany(ctx context.Context, name string) ([]*models.PlayerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Service.ResolveMany")
	defer span.End()

	return s.disambiguator.Resolve(ctx, name)
}

// Reconcile re-resolves name and, when a fresh candidate is recognized as
// the persisted player, merges it on top of the persisted record. When no
// candidate matches, the persisted record comes back unchanged with
// matched=false.
func (s *Service) Reconcile(ctx context.Context, playerID string, persisted *models.PlayerRecord, name string) (*models.PlayerRecord, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Service.Reconcile")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"player_id": playerID,
		"query":     name,
	})

	candidates, err := s.disambiguator.Resolve(ctx, name)
	if err != nil {
		return nil, false, err
	}

	for _, candidate := range candidates {
		dec := matching.Reconciliation(persisted, candidate)
		if !dec.Match {
			continue
		}

		log.WithFields(map[string]any{"rule": dec.Rule}).Debug("Reconciliation candidate matched")
		merged := merging.Reconcile(persisted, candidate)

		if s.emitter != nil {
			s.emitter.EmitPlayerReconciled(ctx, playerID, persisted, merged)
		}
		return merged, true, nil
	}

	log.Debug("No reconciliation candidate matched; keeping persisted record")
	return persisted, false, nil
}
