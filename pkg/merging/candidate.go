// Package merging combines two matched player records into one canonical
// record. Both merge functions are pure: inputs are never mutated and every
// call returns a fresh record owned by the caller.
package merging

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pitchside/clover/pkg/models"
)

// Candidates merges two same-person records discovered during resolution.
// base is the primary source's record and wins field-by-field unless a rule
// below prefers other's value. Re-merging an already-incorporated other is a
// no-op.
func Candidates(base, other *models.PlayerRecord) *models.PlayerRecord {
	out := *base
	out.PlayerAttributes = slices.Clone(base.PlayerAttributes)
	out.Titles = slices.Clone(base.Titles)
	out.Transfers = slices.Clone(base.Transfers)

	if out.Name == "" {
		out.Name = other.Name
	}
	if out.Title == "" {
		out.Title = other.Title
	}
	if out.Number == 0 {
		out.Number = other.Number
	}
	if out.Weight == 0 {
		out.Weight = other.Weight
	}
	if out.Height == 0 {
		out.Height = other.Height
	}
	if out.PreferredFoot == "" {
		out.PreferredFoot = other.PreferredFoot
	}

	// Longer club text is assumed the more complete rendering of the same
	// club name.
	if out.CurrentClub == "" || len(other.CurrentClub) > len(out.CurrentClub) {
		out.CurrentClub = other.CurrentClub
	}

	if strings.Contains(out.Image, models.NoPhotoMarker) {
		out.Image = other.Image
	}

	if out.Position == "" || len(out.Position) < len(other.Position) {
		out.Position = other.Position
	}

	if out.Born == "" {
		out.Born = other.Born
	}
	if out.BirthCountry == "" {
		out.BirthCountry = other.BirthCountry
	}

	if len(out.Transfers) == 0 {
		out.Transfers = slices.Clone(other.Transfers)
	}

	// Prefer other's titles when its list is longer or its aggregate count
	// is higher; sources disagree on how they roll up repeated honours.
	if len(other.Titles) > len(out.Titles) || honourTotal(other.Titles) > honourTotal(out.Titles) {
		out.Titles = slices.Clone(other.Titles)
	}

	// The secondary source is authoritative for fields the primary never
	// carries.
	out.OtherNationality = other.OtherNationality
	out.Website = other.Website
	out.Status = other.Status
	out.Awards = slices.Clone(other.Awards)

	return &out
}

// honourTotal sums the numeric count column of an honours list. Non-numeric
// counts contribute zero.
func honourTotal(hs []models.Honour) int {
	total := 0
	for _, h := range hs {
		n, err := strconv.Atoi(strings.TrimSpace(h.Number))
		if err != nil {
			continue
		}
		total += n
	}
	return total
}
