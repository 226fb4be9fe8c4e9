package models

import "time"

// NoPhotoMarker appears in image URLs when a source serves its placeholder
// portrait instead of a real photo.
const NoPhotoMarker = "no_photo"

// PlayerAttribute is a single named rating from a source's attribute table.
type PlayerAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Honour is a title or award entry. Number is kept as free text because
// sources render it as "2", "2x" or blank.
type Honour struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// Transfer is one row of a player's transfer history.
type Transfer struct {
	Season string `json:"season"`
	Team   string `json:"team"`
	Amount string `json:"amount"`
}

// PlayerRecord is a snapshot of one player profile from one source, or the
// merged canonical view of several. Absence of data is always the zero value
// (0 or ""), never a pointer; comparisons and merges must treat zero values
// as unknown.
type PlayerRecord struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	FullName string `json:"full_name"`

	Age              int    `json:"age"`
	Born             string `json:"born"`
	BirthCountry     string `json:"birth_country"`
	Country          string `json:"country"`
	OtherNationality string `json:"other_nationality"`
	PreferredFoot    string `json:"preferred_foot"` // "left", "right" or ""

	Weight int `json:"weight"` // kg
	Height int `json:"height"` // cm

	CurrentClub string `json:"current_club"`
	Position    string `json:"position"`
	Number      int    `json:"number"`
	Caps        string `json:"caps"`
	Status      string `json:"status"`

	Value                string `json:"value"`
	Currency             string `json:"currency"`
	HighestValueInCareer string `json:"highest_value_in_career"`

	Elo int `json:"elo"`

	PlayerAttributes []PlayerAttribute `json:"player_attributes"`
	Titles           []Honour          `json:"titles"`
	Awards           []Honour          `json:"awards"`
	Transfers        []Transfer        `json:"transfers"`

	Image     string    `json:"image"`
	Website   string    `json:"website"`
	Timestamp time.Time `json:"timestamp"`
}

// Known reports whether a value is present. The zero value of any field means
// "unknown", so this is the one place that convention lives.
func Known[T comparable](v T) bool {
	var zero T
	return v != zero
}

// HasIdentity reports whether the record carries at least one display name.
func (p *PlayerRecord) HasIdentity() bool {
	return p.Name != "" || p.Title != ""
}

// HasBiometrics reports whether the record carries any usable biometric or
// career data. Records failing this check cannot be disambiguated.
func (p *PlayerRecord) HasBiometrics() bool {
	return p.Age != 0 || p.Weight != 0 || p.Height != 0 ||
		p.PreferredFoot != "" || p.CurrentClub != ""
}

// DisplayName returns the richest name the record has.
func (p *PlayerRecord) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}
