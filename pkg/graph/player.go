package graph

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/tracing"
)

// PlayerService maintains the player/club projection.
type PlayerService struct {
	client *Client
	logger ectologger.Logger
}

// NewPlayerService creates a new player graph service
func NewPlayerService(client *Client, logger ectologger.Logger) *PlayerService {
	return &PlayerService{
		client: client,
		logger: logger,
	}
}

// SyncPlayer upserts the player node, its current club edge and one transfer
// edge per known season. Idempotent: MERGE everywhere, properties refreshed
// on every call.
func (s *PlayerService) SyncPlayer(ctx context.Context, playerID string, rec *models.PlayerRecord) error {
	ctx, span := tracing.StartSpan(ctx, "graph.PlayerService.SyncPlayer")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"player_id": playerID,
		"name":      rec.Name,
	})

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MERGE (p:Player {id: $id})
			SET p.name = $name,
			    p.full_name = $fullName,
			    p.country = $country,
			    p.position = $position,
			    p.elo = $elo`,
			map[string]any{
				"id":       playerID,
				"name":     rec.Name,
				"fullName": rec.FullName,
				"country":  rec.Country,
				"position": rec.Position,
				"elo":      rec.Elo,
			})
		if err != nil {
			return nil, err
		}

		if rec.CurrentClub != "" {
			_, err = tx.Run(ctx, `
				MATCH (p:Player {id: $id})
				OPTIONAL MATCH (p)-[old:PLAYS_FOR]->()
				DELETE old
				MERGE (c:Club {name: $club})
				MERGE (p)-[:PLAYS_FOR]->(c)`,
				map[string]any{
					"id":   playerID,
					"club": rec.CurrentClub,
				})
			if err != nil {
				return nil, err
			}
		}

		for _, t := range rec.Transfers {
			if t.Team == "" || t.Season == "" {
				continue
			}
			_, err = tx.Run(ctx, `
				MATCH (p:Player {id: $id})
				MERGE (c:Club {name: $club})
				MERGE (p)-[r:TRANSFERRED {season: $season}]->(c)
				SET r.amount = $amount`,
				map[string]any{
					"id":     playerID,
					"club":   t.Team,
					"season": t.Season,
					"amount": t.Amount,
				})
			if err != nil {
				return nil, err
			}
		}

		return nil, nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to sync player into graph")
		return err
	}

	log.Debug("Synced player into graph")
	return nil
}

// TransferHistory reads a player's transfer edges back out of the graph.
func (s *PlayerService) TransferHistory(ctx context.Context, playerID string) ([]models.Transfer, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.PlayerService.TransferHistory")
	defer span.End()

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (p:Player {id: $id})-[r:TRANSFERRED]->(c:Club)
			RETURN r.season AS season, c.name AS team, r.amount AS amount
			ORDER BY season`,
			map[string]any{"id": playerID})
		if err != nil {
			return nil, err
		}

		var transfers []models.Transfer
		for res.Next(ctx) {
			record := res.Record()
			t := models.Transfer{}
			if v, ok := record.Get("season"); ok && v != nil {
				t.Season, _ = v.(string)
			}
			if v, ok := record.Get("team"); ok && v != nil {
				t.Team, _ = v.(string)
			}
			if v, ok := record.Get("amount"); ok && v != nil {
				t.Amount, _ = v.(string)
			}
			transfers = append(transfers, t)
		}
		return transfers, res.Err()
	})
	if err != nil {
		return nil, err
	}

	transfers, _ := result.([]models.Transfer)
	return transfers, nil
}
