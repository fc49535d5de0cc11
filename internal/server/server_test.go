package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkwon/wondash/internal/app"
	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/models"
	"github.com/jkwon/wondash/internal/services/portfolio"
	"github.com/jkwon/wondash/internal/services/preset"
	"github.com/jkwon/wondash/internal/services/user"
	"github.com/jkwon/wondash/internal/storage/memory"
)

// fakeMarket serves a flat daily series for every symbol it knows.
type fakeMarket struct {
	known map[string]bool
}

func (f *fakeMarket) GetSeries(_ context.Context, symbol, rng string) (*models.PriceSeries, error) {
	if !f.known[symbol] {
		return nil, fmt.Errorf("series %s/%s: no data", symbol, rng)
	}
	const days = 30
	start := time.Now().AddDate(0, 0, -days)
	ts := make([]int64, days)
	closes := make([]*float64, days)
	for i := 0; i < days; i++ {
		ts[i] = start.AddDate(0, 0, i).Unix()
		v := 100.0
		closes[i] = &v
	}
	return &models.PriceSeries{Symbol: symbol, Range: rng, Timestamps: ts, Closes: closes, FetchedAt: time.Now()}, nil
}

func (f *fakeMarket) GetIndices(_ context.Context) ([]models.Quote, error) {
	return []models.Quote{{Symbol: "^KS11", Price: 2600, Timestamp: time.Now()}}, nil
}

func (f *fakeMarket) Search(_ context.Context, query string) ([]models.SymbolMatch, error) {
	return []models.SymbolMatch{{Symbol: "005930.KS", Name: "Samsung Electronics"}}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := common.NewDefaultConfig()
	logger := common.NewSilentLogger()
	store := memory.NewManager()
	market := &fakeMarket{known: map[string]bool{"005930.KS": true, "AAPL": true, "KRW=X": true}}

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          store,
		MarketService:    market,
		PortfolioService: portfolio.NewService(store, market, nil, cfg, logger),
		PresetService:    preset.NewService(market, cfg, logger),
		UserService:      user.NewService(store, logger),
	}
	return NewServer(a)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "minjun",
		"email":    "minjun@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/version", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRegisterLoginValidate(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "minjun",
		"password": "correct horse",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "minjun",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/validate", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/validate", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortfolioRoutesRequireAuth(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/portfolios", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/retirement/analyze", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortfolioLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/portfolios", token, map[string]interface{}{
		"name": "retirement",
		"holdings": []map[string]interface{}{
			{"symbol": "005930.KS", "quantity": 10},
			{"symbol": "AAPL", "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/retirement", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Portfolio
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Len(t, p.Holdings, 2)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/retirement/analyze?range=1y", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report models.PerformanceReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "1y", report.Range)
	assert.NotEmpty(t, report.Points)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/retirement/chart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = doJSON(t, h, http.MethodDelete, "/api/portfolios/retirement", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/retirement", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarketRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/market/indices", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/market/search?q=samsung", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/market/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/market/series/005930.KS?range=1y", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var series models.PriceSeries
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	assert.Equal(t, "005930.KS", series.Symbol)

	rec = doJSON(t, h, http.MethodGet, "/api/market/series/UNKNOWN", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPresetRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/presets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Presets []models.PresetPortfolio `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.NotEmpty(t, listResp.Presets)

	// No preset symbol resolves through the fake, so every score is the sentinel.
	rec = doJSON(t, h, http.MethodGet, "/api/presets/scores", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var scoreResp struct {
		Scores []models.PresetScore `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scoreResp))
	require.Len(t, scoreResp.Scores, len(listResp.Presets))
	for _, s := range scoreResp.Scores {
		assert.Equal(t, "N/A", s.Range)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/presets/does-not-exist/score", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncRoutes(t *testing.T) {
	h := newTestServer(t).Handler()
	token := registerUser(t, h)

	rec := doJSON(t, h, http.MethodPut, "/api/sync/ui-state", token, map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/sync/ui-state", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var record models.SyncRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "ui-state", record.Key)

	rec = doJSON(t, h, http.MethodGet, "/api/sync", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var keysResp struct {
		Keys []string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keysResp))
	assert.Equal(t, []string{"ui-state"}, keysResp.Keys)

	rec = doJSON(t, h, http.MethodDelete, "/api/sync/ui-state", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/sync/ui-state", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/sync/ui-state", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestShutdownDisabledInProduction(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Environment = "production"
	logger := common.NewSilentLogger()
	store := memory.NewManager()
	market := &fakeMarket{}
	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          store,
		MarketService:    market,
		PortfolioService: portfolio.NewService(store, market, nil, cfg, logger),
		PresetService:    preset.NewService(market, cfg, logger),
		UserService:      user.NewService(store, logger),
	}
	h := NewServer(a).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/shutdown", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
