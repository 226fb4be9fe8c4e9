package matching

import (
	"strings"

	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/normalizers"
)

// reconciliationRules compare a freshly retrieved candidate against an
// existing persisted record. Persisted records may carry curated names that
// a raw scrape lacks, so the name checks here are looser than the resolution
// cascade's.
var reconciliationRules = []Rule{
	{
		Name: "born_full_name",
		Test: func(persisted, candidate *models.PlayerRecord) bool {
			return sameBorn(persisted, candidate) &&
				eq(normalizers.SearchSlug(persisted.DisplayName()),
					normalizers.SearchSlug(candidate.DisplayName()))
		},
	},
	{
		Name: "country_born_name",
		Test: func(persisted, candidate *models.PlayerRecord) bool {
			if !eq(persisted.Country, candidate.Country) || !sameBorn(persisted, candidate) {
				return false
			}
			if eq(normalizers.SearchSlug(persisted.Name), normalizers.SearchSlug(candidate.Name)) {
				return true
			}
			if eq(normalizers.SearchSlug(persisted.Title), normalizers.SearchSlug(candidate.Title)) {
				return true
			}
			return splitNameMatch(persisted.Name, candidate.Name)
		},
	},
}

// Reconciliation decides whether a freshly resolved candidate is the player
// the persisted record describes.
func Reconciliation(persisted, candidate *models.PlayerRecord) Decision {
	if persisted == nil || candidate == nil {
		return Decision{}
	}
	if persisted.Name == "" || candidate.Name == "" {
		return Decision{}
	}
	return evaluate(reconciliationRules, persisted, candidate)
}

// sameBorn compares birth dates after canonicalization. Unparseable dates
// never match.
func sameBorn(a, b *models.PlayerRecord) bool {
	return eq(normalizers.Date(a.Born), normalizers.Date(b.Born))
}

// splitNameMatch compares the first and last whitespace-delimited tokens of
// two names. The persisted first name may be a prefix of the candidate's
// ("Dani" vs "Daniel"); last names must match exactly.
func splitNameMatch(persisted, candidate string) bool {
	pParts := strings.Fields(normalizers.SearchSlugWords(persisted))
	cParts := strings.Fields(normalizers.SearchSlugWords(candidate))
	if len(pParts) == 0 || len(cParts) == 0 {
		return false
	}

	pFirst, pLast := pParts[0], pParts[len(pParts)-1]
	cFirst, cLast := cParts[0], cParts[len(cParts)-1]

	return strings.HasPrefix(cFirst, pFirst) && pLast == cLast
}
