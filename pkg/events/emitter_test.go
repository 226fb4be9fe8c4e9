package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/clover/pkg/models"
)

func TestDetectChanges(t *testing.T) {
	t.Run("elo delta", func(t *testing.T) {
		before := &models.PlayerRecord{Elo: 2100}
		after := &models.PlayerRecord{Elo: 2150}

		changes := DetectChanges(before, after)
		require.Len(t, changes, 1)
		assert.Equal(t, EventTypeEloChanged, changes[0].EventType)
		assert.Equal(t, 2100, changes[0].Detail["previous"])
		assert.Equal(t, 2150, changes[0].Detail["current"])
		assert.Equal(t, 50, changes[0].Detail["delta"])
	})

	t.Run("value change carries currency", func(t *testing.T) {
		before := &models.PlayerRecord{Value: "150m", Currency: "EUR"}
		after := &models.PlayerRecord{Value: "180m", Currency: "EUR"}

		changes := DetectChanges(before, after)
		require.Len(t, changes, 1)
		assert.Equal(t, EventTypeValueChanged, changes[0].EventType)
		assert.Equal(t, "EUR", changes[0].Detail["currency"])
	})

	t.Run("club change", func(t *testing.T) {
		before := &models.PlayerRecord{CurrentClub: "PSG"}
		after := &models.PlayerRecord{CurrentClub: "Real Madrid"}

		changes := DetectChanges(before, after)
		require.Len(t, changes, 1)
		assert.Equal(t, EventTypeClubChanged, changes[0].EventType)
		assert.Equal(t, "PSG", changes[0].Detail["previous"])
		assert.Equal(t, "Real Madrid", changes[0].Detail["current"])
	})

	t.Run("changes into unknown are ignored", func(t *testing.T) {
		before := &models.PlayerRecord{Elo: 2100, Value: "150m", CurrentClub: "PSG"}
		after := &models.PlayerRecord{}

		assert.Empty(t, DetectChanges(before, after))
	})

	t.Run("no deltas no changes", func(t *testing.T) {
		rec := &models.PlayerRecord{Elo: 2100, Value: "150m", CurrentClub: "PSG"}
		assert.Empty(t, DetectChanges(rec, rec))
	})

	t.Run("multiple deltas in one refresh", func(t *testing.T) {
		before := &models.PlayerRecord{Elo: 2100, CurrentClub: "PSG"}
		after := &models.PlayerRecord{Elo: 2150, CurrentClub: "Real Madrid"}

		changes := DetectChanges(before, after)
		require.Len(t, changes, 2)
		assert.Equal(t, EventTypeEloChanged, changes[0].EventType)
		assert.Equal(t, EventTypeClubChanged, changes[1].EventType)
	})
}
