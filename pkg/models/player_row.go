package models

import (
	"encoding/json"
	"time"
)

// Player is the persisted canonical player row. The full record lives in a
// JSONB column; the indexed columns exist for lookup only and are derived
// from the record on every write.
type Player struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	FullName  string          `json:"full_name" db:"full_name"`
	Country   string          `json:"country" db:"country"`
	Record    json.RawMessage `json:"record" db:"record"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// PlayerRecord decodes the stored canonical record.
func (p *Player) PlayerRecord() (*PlayerRecord, error) {
	var rec PlayerRecord
	if err := json.Unmarshal(p.Record, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PlayerListResponse is the response for listing players.
type PlayerListResponse struct {
	Items      []Player `json:"items"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// ResolveRequest is the request body for resolve and disambiguate calls.
type ResolveRequest struct {
	Name string `json:"name" validate:"required"`
}
