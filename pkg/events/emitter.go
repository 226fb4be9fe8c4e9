// Package events emits player lifecycle events for downstream alerting.
// Change detection happens here, around the pipeline, never inside the merge
// engines themselves.
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/pitchside/clover/pkg/kafka"
	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/tracing"
)

// Event types carried on the player topic.
const (
	EventTypePlayerResolved   = "player.resolved"
	EventTypePlayerReconciled = "player.reconciled"
	EventTypeEloChanged       = "player.elo_changed"
	EventTypeValueChanged     = "player.value_changed"
	EventTypeClubChanged      = "player.club_changed"
)

// Emitter publishes player events through the Kafka producer.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitPlayerResolved emits one event for a freshly resolved canonical record.
func (e *Emitter) EmitPlayerResolved(ctx context.Context, rec *models.PlayerRecord) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPlayerResolved")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to encode resolved player")
		return
	}

	e.publish(ctx, &kafka.PlayerEvent{
		EventType: EventTypePlayerResolved,
		Name:      rec.Name,
		Data:      data,
	})
}

// EmitPlayerReconciled emits a reconciled event plus one change event per
// notable field delta between the persisted record and its refresh.
func (e *Emitter) EmitPlayerReconciled(ctx context.Context, playerID string, before, after *models.PlayerRecord) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPlayerReconciled")
	defer span.End()

	data, err := json.Marshal(after)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to encode reconciled player")
		return
	}

	e.publish(ctx, &kafka.PlayerEvent{
		EventType: EventTypePlayerReconciled,
		PlayerID:  playerID,
		Name:      after.Name,
		Data:      data,
	})

	for _, change := range DetectChanges(before, after) {
		e.publish(ctx, &kafka.PlayerEvent{
			EventType: change.EventType,
			PlayerID:  playerID,
			Name:      after.Name,
			Detail:    change.Detail,
		})
	}
}

func (e *Emitter) publish(ctx context.Context, event *kafka.PlayerEvent) {
	if err := e.producer.PublishPlayerEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": event.EventType,
		}).Error("Failed to emit player event")
	}
}

// Change is one notable field delta spotted during reconciliation.
type Change struct {
	EventType string
	Detail    map[string]any
}

// DetectChanges compares a persisted record with its reconciled refresh.
// Deltas into the unknown value are not changes; a source going dark on a
// field says nothing about the player.
func DetectChanges(before, after *models.PlayerRecord) []Change {
	var changes []Change

	if models.Known(after.Elo) && before.Elo != after.Elo {
		changes = append(changes, Change{
			EventType: EventTypeEloChanged,
			Detail: map[string]any{
				"previous": before.Elo,
				"current":  after.Elo,
				"delta":    after.Elo - before.Elo,
			},
		})
	}

	if models.Known(after.Value) && before.Value != after.Value {
		changes = append(changes, Change{
			EventType: EventTypeValueChanged,
			Detail: map[string]any{
				"previous": before.Value,
				"current":  after.Value,
				"currency": after.Currency,
			},
		})
	}

	if models.Known(after.CurrentClub) && before.CurrentClub != after.CurrentClub {
		changes = append(changes, Change{
			EventType: EventTypeClubChanged,
			Detail: map[string]any{
				"previous": before.CurrentClub,
				"current":  after.CurrentClub,
			},
		})
	}

	return changes
}
