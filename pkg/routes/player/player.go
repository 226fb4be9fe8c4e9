// Package player exposes the resolution pipeline and the persisted player
// store over HTTP.
package player

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	playerrepo "github.com/pitchside/clover/internal/repositories/player"
	"github.com/pitchside/clover/pkg/graph"
	"github.com/pitchside/clover/pkg/models"
	"github.com/pitchside/clover/pkg/resolve"
)

// Register registers player routes
func Register(g *echo.Group) {
	g.POST("/resolve", ResolvePlayer)
	g.POST("/disambiguate", DisambiguatePlayer)
	g.POST("", CreatePlayer)
	g.GET("", ListPlayers)
	g.GET("/:id", GetPlayer)
	g.DELETE("/:id", DeletePlayer)
	g.POST("/:id/reconcile", ReconcilePlayer)
	g.GET("/:id/transfers", GetPlayerTransfers)
}

// ResolvePlayer runs one resolution without storing the result.
func ResolvePlayer(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ResolveRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx, svc, err := ectoinject.GetContext[*resolve.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rec, err := svc.ResolveOne(ctx, req.Name)
	if err != nil {
		return mapResolveErr(err)
	}

	return c.JSON(http.StatusOK, rec)
}

// DisambiguatePlayer returns every plausible person for an ambiguous name.
func DisambiguatePlayer(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ResolveRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx, svc, err := ectoinject.GetContext[*resolve.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	recs, err := svc.ResolveMany(ctx, req.Name)
	if err != nil {
		return mapResolveErr(err)
	}

	return c.JSON(http.StatusOK, recs)
}

// CreatePlayer resolves a name and persists the canonical record.
func CreatePlayer(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ResolveRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx, svc, err := ectoinject.GetContext[*resolve.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, repo, err := ectoinject.GetContext[*playerrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if existing, err := repo.FindByName(ctx, req.Name); err != nil {
		return err
	} else if existing != nil {
		return httperror.NewHTTPError(http.StatusConflict, "player already exists")
	}

	rec, err := svc.ResolveOne(ctx, req.Name)
	if err != nil {
		return mapResolveErr(err)
	}

	row, err := repo.Create(ctx, rec)
	if err != nil {
		return err
	}

	syncGraph(c, row.ID, rec)

	return c.JSON(http.StatusCreated, row)
}

// DeletePlayer removes a persisted player.
func DeletePlayer(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*playerrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// GetPlayer gets a persisted player by ID.
func GetPlayer(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*playerrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	row, err := repo.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, row)
}

// ListPlayers lists persisted players, optionally filtered by name.
func ListPlayers(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*playerrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	resp, err := repo.List(ctx, c.QueryParam("name"), page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// ReconcilePlayer refreshes a persisted player against freshly resolved
// source data. Responds 200 with the stored row whether or not a fresh
// candidate matched; the "matched" field says which happened.
func ReconcilePlayer(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*playerrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, svc, err := ectoinject.GetContext[*resolve.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	row, err := repo.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	persisted, err := row.PlayerRecord()
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "stored record is corrupt")
	}

	merged, matched, err := svc.Reconcile(ctx, row.ID, persisted, persisted.Name)
	if err != nil {
		return mapResolveErr(err)
	}

	if matched {
		row, err = repo.UpdateRecord(ctx, row.ID, merged)
		if err != nil {
			return err
		}
		syncGraph(c, row.ID, merged)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"matched": matched,
		"player":  row,
	})
}

// GetPlayerTransfers reads the player's transfer edges from the graph.
func GetPlayerTransfers(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, graphSvc, err := ectoinject.GetContext[*graph.PlayerService](ctx)
	if err != nil || graphSvc == nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "graph service unavailable")
	}

	transfers, err := graphSvc.TransferHistory(ctx, c.Param("id"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to read transfer history")
	}

	return c.JSON(http.StatusOK, transfers)
}

// syncGraph best-effort projects the record into the graph; failures must
// not fail the request.
func syncGraph(c echo.Context, playerID string, rec *models.PlayerRecord) {
	ctx := c.Request().Context()
	ctx, graphSvc, err := ectoinject.GetContext[*graph.PlayerService](ctx)
	if err != nil || graphSvc == nil {
		return
	}
	_ = graphSvc.SyncPlayer(ctx, playerID, rec)
}

// mapResolveErr translates pipeline failures to HTTP statuses.
func mapResolveErr(err error) error {
	switch {
	case errors.Is(err, resolve.ErrNoData):
		return httperror.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, resolve.ErrInsufficientData):
		return httperror.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}
