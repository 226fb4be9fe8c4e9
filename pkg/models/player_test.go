package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnown(t *testing.T) {
	assert.False(t, Known(0))
	assert.False(t, Known(""))
	assert.True(t, Known(178))
	assert.True(t, Known("right"))
}

func TestPlayerRecord_HasIdentity(t *testing.T) {
	assert.False(t, (&PlayerRecord{}).HasIdentity())
	assert.True(t, (&PlayerRecord{Name: "Kylian Mbappé"}).HasIdentity())
	assert.True(t, (&PlayerRecord{Title: "Kylian Mbappé - Profile"}).HasIdentity())
}

func TestPlayerRecord_HasBiometrics(t *testing.T) {
	assert.False(t, (&PlayerRecord{Name: "Kylian Mbappé"}).HasBiometrics())
	assert.True(t, (&PlayerRecord{Age: 26}).HasBiometrics())
	assert.True(t, (&PlayerRecord{Weight: 75}).HasBiometrics())
	assert.True(t, (&PlayerRecord{Height: 178}).HasBiometrics())
	assert.True(t, (&PlayerRecord{PreferredFoot: "right"}).HasBiometrics())
	assert.True(t, (&PlayerRecord{CurrentClub: "Real Madrid"}).HasBiometrics())
}

func TestPlayerRecord_DisplayName(t *testing.T) {
	assert.Equal(t, "Kylian Mbappé Lottin", (&PlayerRecord{
		Name:     "Kylian Mbappé",
		FullName: "Kylian Mbappé Lottin",
	}).DisplayName())
	assert.Equal(t, "Kylian Mbappé", (&PlayerRecord{Name: "Kylian Mbappé"}).DisplayName())
	assert.Empty(t, (&PlayerRecord{}).DisplayName())
}
