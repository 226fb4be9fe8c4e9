// Package matching implements the identity rule cascades that decide whether
// two player records describe the same real-world person.
//
// Each matcher is an ordered table of named predicates evaluated in sequence;
// the first predicate that fires decides the outcome and no further rules are
// checked. Some rules are intentionally directional (they test position
// containment in one direction only) — the order and direction of every rule
// is load-bearing and must not be "fixed".
package matching

import (
	"strings"

	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/normalizers"
)

// Decision is the outcome of a matcher invocation. Rule names which predicate
// fired, which is useful when debugging why two profiles were linked.
type Decision struct {
	Match bool   `json:"match"`
	Rule  string `json:"rule,omitempty"`
}

// Rule is one predicate in a cascade.
type Rule struct {
	Name string
	Test func(a, b *models.PlayerRecord) bool
}

// evaluate runs a cascade in order with short-circuit on the first hit.
func evaluate(rules []Rule, a, b *models.PlayerRecord) Decision {
	for _, r := range rules {
		if r.Test(a, b) {
			return Decision{Match: true, Rule: r.Name}
		}
	}
	return Decision{}
}

// eq reports whether two values are known and equal. Zero values are
// "unknown" and never match anything, including each other.
func eq[T comparable](x, y T) bool {
	return models.Known(x) && x == y
}

// sameFullName compares full names after diacritic/punctuation stripping.
func sameFullName(a, b *models.PlayerRecord) bool {
	return eq(normalizers.ForCompare(a.FullName), normalizers.ForCompare(b.FullName))
}

// positionContains reports whether outer's position contains inner's as a
// substring, both lowercased. Directional on purpose.
func positionContains(outer, inner *models.PlayerRecord) bool {
	if outer.Position == "" || inner.Position == "" {
		return false
	}
	return strings.Contains(strings.ToLower(outer.Position), strings.ToLower(inner.Position))
}
