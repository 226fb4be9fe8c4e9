// Package player persists canonical player records.
package player

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/pitchside/clover/pkg/database"
	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/tracing"
)

const table = "players"

var columns = []string{"id", "name", "full_name", "country", "record", "created_at", "updated_at"}

// Repository handles player persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new player repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a freshly resolved canonical record as a new player.
func (r *Repository) Create(ctx context.Context, rec *models.PlayerRecord) (*models.Player, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method": "Create",
		"name":   rec.Name,
	})

	data, err := json.Marshal(rec)
	if err != nil {
		log.WithError(err).Error("Failed to encode player record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to store player")
	}

	now := time.Now().UTC()
	row := &models.Player{
		ID:        uuid.New().String(),
		Name:      rec.Name,
		FullName:  rec.FullName,
		Country:   rec.Country,
		Record:    data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	sb.Values(row.ID, row.Name, row.FullName, row.Country, row.Record, row.CreatedAt, row.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create player")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to store player")
	}

	log.WithFields(map[string]any{"id": row.ID}).Info("Created player")
	return row, nil
}

// Get retrieves a player by ID.
func (r *Repository) Get(ctx context.Context, id string) (*models.Player, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var row models.Player
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "player not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get player")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get player")
	}

	return &row, nil
}

// FindByName returns the player whose stored name matches exactly, or nil.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Player, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.FindByName")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("name", name))
	sb.Limit(1)

	query, args := sb.Build()

	var row models.Player
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to find player by name")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find player")
	}

	return &row, nil
}

// List returns players, optionally filtered by a name substring.
func (r *Repository) List(ctx context.Context, nameFilter string, page, pageSize int) (*models.PlayerListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	if nameFilter != "" {
		sb.Where(sb.ILike("name", "%"+nameFilter+"%"))
	}
	sb.OrderBy("name").Asc()
	sb.Limit(pageSize).Offset((page - 1) * pageSize)

	query, args := sb.Build()

	items := []models.Player{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list players")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list players")
	}

	cb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	cb.Select("COUNT(*)")
	cb.From(table)
	if nameFilter != "" {
		cb.Where(cb.ILike("name", "%"+nameFilter+"%"))
	}

	countQuery, countArgs := cb.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count players")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list players")
	}

	return &models.PlayerListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// UpdateRecord replaces a player's stored record and refreshes the derived
// lookup columns.
func (r *Repository) UpdateRecord(ctx context.Context, id string, rec *models.PlayerRecord) (*models.Player, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.UpdateRecord")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method": "UpdateRecord",
		"id":     id,
	})

	data, err := json.Marshal(rec)
	if err != nil {
		log.WithError(err).Error("Failed to encode player record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update player")
	}

	now := time.Now().UTC()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update(table)
	ub.Set(
		ub.Assign("name", rec.Name),
		ub.Assign("full_name", rec.FullName),
		ub.Assign("country", rec.Country),
		ub.Assign("record", data),
		ub.Assign("updated_at", now),
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to update player")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update player")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "player not found")
	}

	log.Info("Updated player record")
	return r.Get(ctx, id)
}

// Delete removes a player row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.Delete")
	defer span.End()

	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom(table)
	db.Where(db.Equal("id", id))

	query, args := db.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete player")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete player")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "player not found")
	}

	return nil
}
