package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/models"
	"github.com/tokenscope/tokenscope/internal/storage"
)

// TokenEnricher runs the enrichment pipeline for a stored symbol.
type TokenEnricher interface {
	EnrichSymbol(ctx context.Context, symbol string) (*models.EnrichedToken, error)
}

// ScanRunner triggers discovery across all exchange scanners.
type ScanRunner interface {
	ScanAll(ctx context.Context) ([]models.Listing, error)
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Store    storage.TokenStore
	Enricher TokenEnricher
	Scanner  ScanRunner
	DevMode  bool
	Logger   *logrus.Logger
}

// err returns a standardized JSON error response. In dev mode it
// includes additional detail for debugging.
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Listings returns every stored listing, enriched or not.
func (h *Handlers) Listings(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Store.List(ctx)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list tokens")
		return h.err(c, http.StatusInternalServerError, "failed to list tokens", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Token returns the stored record for one symbol.
func (h *Handlers) Token(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return h.err(c, http.StatusBadRequest, "invalid symbol", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	token, err := h.Store.Get(ctx, symbol)
	if errors.Is(err, storage.ErrNotFound) {
		return h.err(c, http.StatusNotFound, "token not found", nil)
	}
	if err != nil {
		h.Logger.WithError(err).Error("failed to get token")
		return h.err(c, http.StatusInternalServerError, "failed to get token", err.Error())
	}
	return c.JSON(http.StatusOK, token)
}

// Enrich runs the full enrichment pipeline for a stored symbol and
// returns the scored record. 404 when the symbol was never discovered.
func (h *Handlers) Enrich(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return h.err(c, http.StatusBadRequest, "invalid symbol", nil)
	}

	// Enrichment fans out several upstream calls, each with its own 10s timeout.
	ctx, cancel := h.withTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	token, err := h.Enricher.EnrichSymbol(ctx, symbol)
	if errors.Is(err, storage.ErrNotFound) {
		return h.err(c, http.StatusNotFound, "token not found", nil)
	}
	if err != nil {
		h.Logger.WithError(err).Error("enrichment failed")
		return h.err(c, http.StatusInternalServerError, "enrichment failed", err.Error())
	}
	return c.JSON(http.StatusOK, token)
}

// Scan triggers discovery across all exchange sources.
func (h *Handlers) Scan(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	listings, err := h.Scanner.ScanAll(ctx)
	if err != nil {
		h.Logger.WithError(err).Error("scan failed")
		return h.err(c, http.StatusInternalServerError, "scan failed", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"found": len(listings), "items": listings})
}
