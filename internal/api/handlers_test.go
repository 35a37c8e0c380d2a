package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/ledger"
	"StockSentinel/internal/model"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/scanner"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv    http.Handler
	ledger *ledger.Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	mock := &collector.MockGateway{
		Price:  100,
		Errors: map[string]error{"GONE.BK": collector.ErrNoData},
	}
	col := collector.NewCollector(mock, calculator.NewEngine(log), time.Second)
	u := scanner.NewUniverse(map[string]string{"PTT.BK": "PTT", "AOT.BK": "AOT", "GONE.BK": "Gone"})
	sc := scanner.New(col, u, scanner.Options{Workers: 2}, log)

	l, err := ledger.New(nil, log)
	require.NoError(t, err)
	prices := ledger.PriceLookupFunc(func(_ context.Context, symbols []string) (map[string]float64, error) {
		return map[string]float64{"PTT.BK": 110}, nil
	})

	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	h := NewHandler(col, sc, l, prices, rec, log)
	s := NewServer(ServerConfig{Addr: ":0", AllowedOrigins: []string{"*"}, Log: log}, h)
	return &testEnv{srv: s.Handler(), ledger: l}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.srv.ServeHTTP(rr, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rr.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	}
	return rr, out
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rr, out := e.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", out["status"])
}

func TestAnalysis(t *testing.T) {
	e := newTestEnv(t)

	rr, out := e.do(t, http.MethodGet, "/api/analysis/ptt.bk", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "PTT.BK", out["symbol"])
	assert.NotNil(t, out["price"])
	assert.Len(t, out["rsi"], 3)
	assert.Contains(t, out, "vote")
	assert.NotContains(t, out, "advice", "no advice without a position")

	require.NoError(t, e.ledger.AddStock("PTT.BK", "PTT", 10, 90, time.Time{}))
	_, out = e.do(t, http.MethodGet, "/api/analysis/PTT.BK", "")
	assert.Contains(t, out, "advice")
	assert.Contains(t, out, "position")

	rr, _ = e.do(t, http.MethodGet, "/api/analysis/GONE.BK", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, out = e.do(t, http.MethodGet, "/api/analysis/PTT.BK?period=7y", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotEmpty(t, out["error"])
}

func TestAdvice(t *testing.T) {
	e := newTestEnv(t)
	rr, out := e.do(t, http.MethodGet, "/api/advice/AOT.BK", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	advice, ok := out["advice"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, advice["action"])
	assert.Equal(t, 0.0, out["position"].(map[string]any)["shares"])
}

func TestScanAndHistory(t *testing.T) {
	e := newTestEnv(t)

	rr, _ := e.do(t, http.MethodGet, "/api/scan/sideways", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr, _ = e.do(t, http.MethodGet, "/api/scan/momentum?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, out := e.do(t, http.MethodGet, "/api/scan/rebound?limit=1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "rebound", out["mode"])
	assert.NotEmpty(t, out["run_id"])
	assert.LessOrEqual(t, len(out["candidates"].([]any)), 1)

	rr = httptest.NewRecorder()
	e.srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history/scans", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var runs []recorder.ScanRun
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "rebound", runs[0].Mode)
}

func TestPortfolioFlow(t *testing.T) {
	e := newTestEnv(t)

	rr, out := e.do(t, http.MethodPost, "/api/portfolio/buy",
		`{"symbol":"ptt.bk","name":"PTT","shares":100,"price":100,"date":"2024-01-10"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "PTT.BK", out["symbol"])
	assert.Equal(t, 100.0, out["shares"])

	rr, _ = e.do(t, http.MethodPost, "/api/portfolio/sell", `{"symbol":"PTT.BK","shares":500,"price":110}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr, _ = e.do(t, http.MethodPost, "/api/portfolio/sell", `{"symbol":"AOT.BK","shares":1,"price":60}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr, _ = e.do(t, http.MethodPost, "/api/portfolio/buy", `{"symbol":"AOT.BK","shares":-1,"price":60}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr, _ = e.do(t, http.MethodPost, "/api/portfolio/buy", `{"symbol":"AOT.BK","shares":1,"price":60,"date":"10/01/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr, _ = e.do(t, http.MethodPost, "/api/portfolio/buy", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, out = e.do(t, http.MethodPost, "/api/portfolio/sell", `{"symbol":"PTT.BK","shares":40,"price":110}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 60.0, out["shares"])
	assert.Equal(t, 100.0, out["average_cost"])

	rr, out = e.do(t, http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 6600.0, out["total_value"])
	assert.Equal(t, 6000.0, out["total_cost"])
	assert.Equal(t, 10.0, out["total_pnl_pct"])

	rr = httptest.NewRecorder()
	e.srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/portfolio/holdings", nil))
	var held []model.Position
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &held))
	require.Len(t, held, 1)
	assert.Equal(t, "PTT", held[0].Name)

	rr = httptest.NewRecorder()
	e.srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/portfolio/transactions/PTT.BK", nil))
	var txs []transactionDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, "2024-01-10", txs[0].Date)
	assert.Equal(t, -40.0, txs[1].Shares)
	assert.Equal(t, model.TransactionSell, txs[1].Type)

	rr, _ = e.do(t, http.MethodGet, "/api/portfolio/transactions/NOPE.BK", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOptMapsUndefinedToNull(t *testing.T) {
	data, err := json.Marshal(newScanDTO(scanner.ModeBreakout, "", []scanner.Candidate{{
		Symbol: "X", Price: 10, RSI: math.NaN(), VolumeRatio: 1.5, DistancePct: math.NaN(),
	}}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rsi":null`)
	assert.Contains(t, string(data), `"volume_ratio":1.5`)
	assert.NotContains(t, string(data), "distance_pct")
}
