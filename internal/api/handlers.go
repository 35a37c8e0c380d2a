package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/ledger"
	"StockSentinel/internal/model"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/scanner"
	"StockSentinel/internal/strategy"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves analysis, scans, the ledger and advice as JSON.
type Handler struct {
	Collector *collector.Collector
	Scanner   *scanner.Scanner
	Ledger    *ledger.Ledger
	Prices    ledger.PriceLookup
	Recorder  recorder.Recorder
	Period    model.Period
	Limit     int
	log       zerolog.Logger
}

// NewHandler creates a Handler. A nil recorder disables history.
func NewHandler(c *collector.Collector, s *scanner.Scanner, l *ledger.Ledger, prices ledger.PriceLookup, rec recorder.Recorder, log zerolog.Logger) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{
		Collector: c,
		Scanner:   s,
		Ledger:    l,
		Prices:    prices,
		Recorder:  rec,
		Period:    model.Period1Y,
		Limit:     10,
		log:       log.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analysis/{symbol}", h.HandleAnalysis)
	r.Get("/advice/{symbol}", h.HandleAdvice)
	r.Get("/scan/{mode}", h.HandleScan)
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", h.HandlePortfolio)
		r.Get("/holdings", h.HandleHoldings)
		r.Get("/transactions/{symbol}", h.HandleTransactions)
		r.Post("/buy", h.HandleBuy)
		r.Post("/sell", h.HandleSell)
	})
	r.Get("/history/scans", h.HandleScanHistory)
}

// HandleAnalysis classifies the latest bar of a symbol.
// GET /analysis/{symbol}?period=1y
func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	a, ok := h.analyze(w, r)
	if !ok {
		return
	}
	dto := newAnalysisDTO(a)
	if p := h.Ledger.Position(a.Symbol); p.Shares > 0 {
		adv := a.Advise(p)
		dto.Position, dto.Advice = &p, &adv
	}
	h.writeJSON(w, http.StatusOK, dto)
}

// HandleAdvice returns and records a recommendation for a symbol, held or not.
// GET /advice/{symbol}
func (h *Handler) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	a, ok := h.analyze(w, r)
	if !ok {
		return
	}
	pos := h.Ledger.Position(a.Symbol)
	adv := a.Advise(pos)

	snap := &recorder.AdviceSnapshot{
		Symbol:      a.Symbol,
		Price:       a.Price,
		Shares:      pos.Shares,
		AverageCost: pos.AverageCost,
		PnLPct:      strategy.UnrealizedPct(a.Price, pos.AverageCost),
		Overall:     a.Overall(),
		Trend:       a.Trend.Kind,
		Dividend:    a.Dividend.YieldPct,
		Advice:      adv,
	}
	if err := h.Recorder.RecordAdvice(r.Context(), snap); err != nil {
		h.log.Error().Err(err).Str("symbol", a.Symbol).Msg("record advice")
	}

	h.writeJSON(w, http.StatusOK, adviceDTO{
		Symbol:   a.Symbol,
		Price:    opt(a.Price),
		Position: pos,
		PnLPct:   opt(snap.PnLPct),
		Overall:  snap.Overall,
		Trend:    snap.Trend,
		Advice:   adv,
	})
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) (*strategy.Analysis, bool) {
	symbol := ledger.NormalizeSymbol(chi.URLParam(r, "symbol"))
	period := h.Period
	if p := r.URL.Query().Get("period"); p != "" {
		parsed, err := model.ParsePeriod(p)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		period = parsed
	}

	snap, err := h.Collector.Collect(r.Context(), symbol, period)
	if err != nil {
		h.fail(w, err, symbol)
		return nil, false
	}
	a := strategy.Analyze(symbol, snap.Series, snap.Fundamentals)
	if a == nil {
		h.writeError(w, http.StatusNotFound, "no data for "+symbol)
		return nil, false
	}
	return a, true
}

// HandleScan runs a scan over the universe and records it.
// GET /scan/{mode}?limit=N
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	mode, err := scanner.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := h.Limit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	candidates, err := h.Scanner.Run(r.Context(), mode, limit)
	if err != nil {
		h.fail(w, err, "")
		return
	}
	id, err := h.Recorder.RecordScan(r.Context(), mode, candidates)
	if err != nil {
		h.log.Error().Err(err).Str("mode", string(mode)).Msg("record scan")
	}
	h.writeJSON(w, http.StatusOK, newScanDTO(mode, id, candidates))
}

// HandlePortfolio values every holding at current prices.
// GET /portfolio
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Ledger.Summary(r.Context(), h.Prices))
}

// HandleHoldings lists held symbols without pricing them.
// GET /portfolio/holdings
func (h *Handler) HandleHoldings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Ledger.Holdings())
}

// HandleTransactions returns the recorded transactions of a symbol.
// GET /portfolio/transactions/{symbol}
func (h *Handler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	txs := h.Ledger.Transactions(symbol)
	if txs == nil {
		h.writeError(w, http.StatusNotFound, "unknown symbol "+ledger.NormalizeSymbol(symbol))
		return
	}
	out := make([]transactionDTO, len(txs))
	for i, tx := range txs {
		out[i] = transactionDTO{Date: tx.Date.Format(time.DateOnly), Shares: tx.Shares, Price: tx.Price, Type: tx.Type}
	}
	h.writeJSON(w, http.StatusOK, out)
}

// HandleBuy records a purchase.
// POST /portfolio/buy
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, func(req tradeRequest, date time.Time) error {
		return h.Ledger.AddStock(req.Symbol, req.Name, req.Shares, req.Price, date)
	})
}

// HandleSell records a sale.
// POST /portfolio/sell
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, func(req tradeRequest, date time.Time) error {
		return h.Ledger.SellStock(req.Symbol, req.Shares, req.Price, date)
	})
}

func (h *Handler) trade(w http.ResponseWriter, r *http.Request, apply func(tradeRequest, time.Time) error) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var date time.Time
	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		date = d
	}
	if err := apply(req, date); err != nil {
		h.fail(w, err, req.Symbol)
		return
	}
	h.writeJSON(w, http.StatusCreated, h.Ledger.Position(req.Symbol))
}

// HandleScanHistory lists recorded scans, newest first.
// GET /history/scans?limit=N
func (h *Handler) HandleScanHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := h.Recorder.RecentScans(r.Context(), limit)
	if err != nil {
		h.fail(w, err, "")
		return
	}
	if runs == nil {
		runs = []recorder.ScanRun{}
	}
	h.writeJSON(w, http.StatusOK, runs)
}

// fail maps domain errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, err error, symbol string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrUnknownSymbol), errors.Is(err, collector.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientShares):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	default:
		h.log.Error().Err(err).Str("symbol", symbol).Msg("request failed")
	}
	h.writeError(w, status, err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorDTO{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}
