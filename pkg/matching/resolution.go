package matching

import "github.com/pitchside/clover/pkg/models"

// resolutionRules links two freshly retrieved candidates from different
// sources. Rules 2 and 5 test position containment of a inside b only; the
// asymmetry is inherited behavior, not an oversight.
var resolutionRules = []Rule{
	{
		Name: "full_name_biometrics",
		Test: func(a, b *models.PlayerRecord) bool {
			return sameFullName(a, b) &&
				eq(a.Age, b.Age) &&
				eq(a.Number, b.Number) &&
				eq(a.PreferredFoot, b.PreferredFoot) &&
				eq(a.Height, b.Height)
		},
	},
	{
		Name: "full_name_position",
		Test: func(a, b *models.PlayerRecord) bool {
			return sameFullName(a, b) &&
				eq(a.PreferredFoot, b.PreferredFoot) &&
				eq(a.Height, b.Height) &&
				eq(a.Country, b.Country) &&
				positionContains(b, a)
		},
	},
	{
		Name: "biometrics_only",
		Test: func(a, b *models.PlayerRecord) bool {
			return eq(a.Country, b.Country) &&
				eq(a.Age, b.Age) &&
				eq(a.Number, b.Number) &&
				eq(a.PreferredFoot, b.PreferredFoot) &&
				eq(a.Height, b.Height)
		},
	},
	{
		Name: "country_age_position",
		Test: func(a, b *models.PlayerRecord) bool {
			return eq(a.Age, b.Age) &&
				eq(a.Country, b.Country) &&
				(positionContains(a, b) ||
					positionContains(b, a) ||
					(eq(a.PreferredFoot, b.PreferredFoot) && eq(a.Height, b.Height)))
		},
	},
	{
		Name: "full_name_age_or_shirt",
		Test: func(a, b *models.PlayerRecord) bool {
			if sameFullName(a, b) && eq(a.Age, b.Age) {
				return true
			}
			return eq(a.Country, b.Country) &&
				eq(a.Number, b.Number) &&
				eq(a.Age, b.Age) &&
				eq(a.PreferredFoot, b.PreferredFoot) &&
				positionContains(b, a)
		},
	},
}

// Resolution decides whether two candidates retrieved from different sources
// are the same player.
func Resolution(a, b *models.PlayerRecord) Decision {
	if a == nil || b == nil {
		return Decision{}
	}
	return evaluate(resolutionRules, a, b)
}
