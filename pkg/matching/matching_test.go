package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/clover/pkg/models"
)

func TestEvaluate_ShortCircuitsOnFirstHit(t *testing.T) {
	rules := []Rule{
		{Name: "first", Test: func(a, b *models.PlayerRecord) bool { return true }},
		{Name: "second", Test: func(a, b *models.PlayerRecord) bool {
			t.Fatal("rule evaluated after an earlier rule already matched")
			return false
		}},
	}

	dec := evaluate(rules, &models.PlayerRecord{}, &models.PlayerRecord{})
	assert.True(t, dec.Match)
	assert.Equal(t, "first", dec.Rule)
}

func TestEvaluate_PreservesOrder(t *testing.T) {
	var calls []string
	rules := []Rule{
		{Name: "a", Test: func(_, _ *models.PlayerRecord) bool { calls = append(calls, "a"); return false }},
		{Name: "b", Test: func(_, _ *models.PlayerRecord) bool { calls = append(calls, "b"); return false }},
		{Name: "c", Test: func(_, _ *models.PlayerRecord) bool { calls = append(calls, "c"); return true }},
	}

	dec := evaluate(rules, &models.PlayerRecord{}, &models.PlayerRecord{})
	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, "c", dec.Rule)
}

func TestEvaluate_NoRuleFires(t *testing.T) {
	rules := []Rule{
		{Name: "never", Test: func(_, _ *models.PlayerRecord) bool { return false }},
	}

	dec := evaluate(rules, &models.PlayerRecord{}, &models.PlayerRecord{})
	assert.False(t, dec.Match)
	assert.Empty(t, dec.Rule)
}

func TestEq(t *testing.T) {
	assert.True(t, eq("right", "right"))
	assert.True(t, eq(178, 178))
	assert.False(t, eq("right", "left"))
	// Two unknowns are never equal.
	assert.False(t, eq("", ""))
	assert.False(t, eq(0, 0))
}
