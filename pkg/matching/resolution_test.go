package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/clover/pkg/models"
)

func TestResolution_FullNameBiometrics(t *testing.T) {
	a := &models.PlayerRecord{
		FullName:      "Kylian Mbappé Lottin",
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
	}
	b := &models.PlayerRecord{
		FullName:      "Kylian Mbappe Lottin", // no accent; must still match
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
	}

	dec := Resolution(a, b)
	assert.True(t, dec.Match)
	assert.Equal(t, "full_name_biometrics", dec.Rule)
}

func TestResolution_UnknownsNeverMatch(t *testing.T) {
	t.Run("two empty records", func(t *testing.T) {
		dec := Resolution(&models.PlayerRecord{}, &models.PlayerRecord{})
		assert.False(t, dec.Match)
	})

	t.Run("shared zero fields are not evidence", func(t *testing.T) {
		// Both records have unknown age, number, foot and height. Equal
		// zeroes must not satisfy any biometric rule.
		a := &models.PlayerRecord{FullName: "John Smith", Country: "England"}
		b := &models.PlayerRecord{FullName: "John Smith", Country: "England"}
		dec := Resolution(a, b)
		assert.False(t, dec.Match)
	})

	t.Run("nil records", func(t *testing.T) {
		assert.False(t, Resolution(nil, &models.PlayerRecord{}).Match)
		assert.False(t, Resolution(&models.PlayerRecord{}, nil).Match)
	})
}

func TestResolution_BiometricsOnly(t *testing.T) {
	// Names disagree entirely; country plus full biometrics still link them.
	a := &models.PlayerRecord{
		Name:          "K. Mbappé",
		Country:       "France",
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
	}
	b := &models.PlayerRecord{
		Name:          "Kylian Mbappé Lottin",
		Country:       "France",
		Age:           25,
		Number:        7,
		PreferredFoot: "right",
		Height:        178,
	}

	dec := Resolution(a, b)
	assert.True(t, dec.Match)
	assert.Equal(t, "biometrics_only", dec.Rule)
}

func TestResolution_PositionContainmentIsDirectional(t *testing.T) {
	a := &models.PlayerRecord{
		FullName:      "Antoine Griezmann",
		Country:       "France",
		PreferredFoot: "left",
		Height:        176,
		Position:      "ST",
	}
	b := &models.PlayerRecord{
		FullName:      "Antoine Griezmann",
		Country:       "France",
		PreferredFoot: "left",
		Height:        176,
		Position:      "ST, CF",
	}

	forward := Resolution(a, b)
	assert.True(t, forward.Match)
	assert.Equal(t, "full_name_position", forward.Rule)

	// Reversed, b's longer position text is not contained in a's, and no
	// other rule has enough known fields to fire.
	reverse := Resolution(b, a)
	assert.False(t, reverse.Match)
}

func TestResolution_CountryAgePosition(t *testing.T) {
	t.Run("containment in either direction", func(t *testing.T) {
		a := &models.PlayerRecord{Country: "Brazil", Age: 23, Position: "AM, RW"}
		b := &models.PlayerRecord{Country: "Brazil", Age: 23, Position: "RW"}

		assert.Equal(t, "country_age_position", Resolution(a, b).Rule)
		assert.Equal(t, "country_age_position", Resolution(b, a).Rule)
	})

	t.Run("foot and height substitute for position", func(t *testing.T) {
		a := &models.PlayerRecord{Country: "Brazil", Age: 23, PreferredFoot: "left", Height: 175}
		b := &models.PlayerRecord{Country: "Brazil", Age: 23, PreferredFoot: "left", Height: 175}

		dec := Resolution(a, b)
		assert.True(t, dec.Match)
		assert.Equal(t, "country_age_position", dec.Rule)
	})

	t.Run("country and age alone are not enough", func(t *testing.T) {
		a := &models.PlayerRecord{Country: "Brazil", Age: 23}
		b := &models.PlayerRecord{Country: "Brazil", Age: 23}
		assert.False(t, Resolution(a, b).Match)
	})
}

func TestResolution_FullNameAge(t *testing.T) {
	a := &models.PlayerRecord{FullName: "Vinícius José de Oliveira Júnior", Age: 24}
	b := &models.PlayerRecord{FullName: "Vinicius Jose de Oliveira Junior", Age: 24}

	dec := Resolution(a, b)
	assert.True(t, dec.Match)
	assert.Equal(t, "full_name_age_or_shirt", dec.Rule)
}

func TestResolution_FirstMatchingRuleWins(t *testing.T) {
	// Satisfies both full_name_biometrics and biometrics_only; the earlier
	// rule must be the one reported.
	a := &models.PlayerRecord{
		FullName:      "Harry Kane",
		Country:       "England",
		Age:           31,
		Number:        9,
		PreferredFoot: "right",
		Height:        188,
	}
	b := &models.PlayerRecord{
		FullName:      "Harry Kane",
		Country:       "England",
		Age:           31,
		Number:        9,
		PreferredFoot: "right",
		Height:        188,
	}

	dec := Resolution(a, b)
	assert.True(t, dec.Match)
	assert.Equal(t, "full_name_biometrics", dec.Rule)
}
