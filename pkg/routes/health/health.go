// Package health exposes liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pitchside/clover/pkg/database"
)

// Checker handles health check endpoints
type Checker struct {
	db        database.DB
	consumer  interface{ Health() bool }
	version   string
	startTime time.Time
	ready     atomic.Bool
}

// NewChecker creates a new health checker. db and consumer may be nil when
// the corresponding subsystem is disabled.
func NewChecker(db database.DB, consumer interface{ Health() bool }, version string) *Checker {
	return &Checker{
		db:        db,
		consumer:  consumer,
		version:   version,
		startTime: time.Now(),
	}
}

// SetReady sets the readiness state
func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

// Register registers health check endpoints
func (c *Checker) Register(e *echo.Echo) {
	e.GET("/api/v1/health", c.Health)
	e.GET("/api/v1/health/live", c.Live)
	e.GET("/api/v1/health/ready", c.Ready)
}

// CheckResult is one subsystem's health check outcome.
type CheckResult struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Checks     map[string]*CheckResult `json:"checks"`
	ReportedAt time.Time               `json:"reported_at"`
}

// Health reports overall status with per-subsystem detail.
func (c *Checker) Health(ec echo.Context) error {
	ctx, cancel := context.WithTimeout(ec.Request().Context(), 2*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:     "ok",
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		Checks:     map[string]*CheckResult{},
		ReportedAt: time.Now().UTC(),
	}

	if c.db != nil {
		check := &CheckResult{Healthy: true}
		if err := c.db.PingContext(ctx); err != nil {
			check.Healthy = false
			check.Error = err.Error()
			status.Status = "degraded"
		}
		status.Checks["database"] = check
	}

	if c.consumer != nil {
		check := &CheckResult{Healthy: c.consumer.Health()}
		if !check.Healthy {
			status.Status = "degraded"
		}
		status.Checks["consumer"] = check
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return ec.JSON(code, status)
}

// Live always reports success while the process runs.
func (c *Checker) Live(ec echo.Context) error {
	return ec.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether startup finished.
func (c *Checker) Ready(ec echo.Context) error {
	if !c.ready.Load() {
		return ec.JSON(http.StatusServiceUnavailable, map[string]string{"status": "starting"})
	}
	return ec.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
