package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenscope/tokenscope/internal/models"
	"github.com/tokenscope/tokenscope/internal/storage"
)

type fakeStore struct {
	tokens map[string]*models.EnrichedToken
}

func (f *fakeStore) Upsert(_ context.Context, token *models.EnrichedToken) error {
	f.tokens[token.Symbol] = token
	return nil
}

func (f *fakeStore) Get(_ context.Context, symbol string) (*models.EnrichedToken, error) {
	if t, ok := f.tokens[symbol]; ok {
		return t, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetByKey(_ context.Context, symbol, _ string) (*models.EnrichedToken, error) {
	return f.Get(context.Background(), symbol)
}

func (f *fakeStore) List(_ context.Context) ([]*models.EnrichedToken, error) {
	out := make([]*models.EnrichedToken, 0, len(f.tokens))
	for _, t := range f.tokens {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) Ping(_ context.Context) error { return nil }
func (f *fakeStore) Close() error                 { return nil }

type fakeEnricher struct {
	store *fakeStore
}

func (f *fakeEnricher) EnrichSymbol(ctx context.Context, symbol string) (*models.EnrichedToken, error) {
	token, err := f.store.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	token.DataComplete = true
	token.Recommendation = &models.Recommendation{Action: models.ActionWatch, Confidence: 55}
	return token, nil
}

type fakeRunner struct {
	listings []models.Listing
}

func (f *fakeRunner) ScanAll(_ context.Context) ([]models.Listing, error) {
	return f.listings, nil
}

func newTestHandlers() (*Handlers, *fakeStore) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := &fakeStore{tokens: make(map[string]*models.EnrichedToken)}
	return &Handlers{
		Store:    store,
		Enricher: &fakeEnricher{store: store},
		Scanner:  &fakeRunner{listings: []models.Listing{{Symbol: "PEPE", Exchange: "Binance"}}},
		Logger:   logger,
	}, store
}

func doRequest(h *Handlers, method, path, paramName, paramValue string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramName != "" {
		c.SetParamNames(paramName)
		c.SetParamValues(paramValue)
	}
	_ = handler(c)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandlers()
	rec := doRequest(h, http.MethodGet, "/v1/health", "", "", h.Health)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestToken_NotFound(t *testing.T) {
	h, _ := newTestHandlers()
	rec := doRequest(h, http.MethodGet, "/v1/tokens/GHOST", "symbol", "GHOST", h.Token)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token not found", resp.Error)
}

func TestToken_Found(t *testing.T) {
	h, store := newTestHandlers()
	store.tokens["PEPE"] = &models.EnrichedToken{
		Listing: models.Listing{Symbol: "PEPE", Exchange: "Binance"},
	}

	rec := doRequest(h, http.MethodGet, "/v1/tokens/pepe", "symbol", "pepe", h.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	var token models.EnrichedToken
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.Equal(t, "PEPE", token.Symbol)
}

func TestEnrichEndpoint(t *testing.T) {
	h, store := newTestHandlers()
	store.tokens["PEPE"] = &models.EnrichedToken{
		Listing: models.Listing{Symbol: "PEPE", Exchange: "Binance"},
	}

	rec := doRequest(h, http.MethodPost, "/v1/enrich/PEPE", "symbol", "PEPE", h.Enrich)
	assert.Equal(t, http.StatusOK, rec.Code)

	var token models.EnrichedToken
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.True(t, token.DataComplete)
	require.NotNil(t, token.Recommendation)
	assert.Equal(t, models.ActionWatch, token.Recommendation.Action)
}

func TestEnrichEndpoint_NotFound(t *testing.T) {
	h, _ := newTestHandlers()
	rec := doRequest(h, http.MethodPost, "/v1/enrich/GHOST", "symbol", "GHOST", h.Enrich)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanEndpoint(t *testing.T) {
	h, _ := newTestHandlers()
	rec := doRequest(h, http.MethodPost, "/v1/scan", "", "", h.Scan)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Found int              `json:"found"`
		Items []models.Listing `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Found)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "PEPE", resp.Items[0].Symbol)
}
