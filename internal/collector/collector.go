package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MockGateway returns controllable fixed data for development and testing.
// Bars maps symbol to its series; symbols in Errors fail with that error.
// Without an entry in Bars, a gentle uptrend around Price is generated.
type MockGateway struct {
	Price        float64
	Bars         map[string][]model.OHLCV
	Fundamentals map[string]*model.Fundamentals
	Errors       map[string]error
	Delay        time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) Fetch(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, *model.Fundamentals, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	if err, ok := m.Errors[symbol]; ok {
		return nil, nil, err
	}

	f := m.Fundamentals[symbol]
	if f == nil {
		f = &model.Fundamentals{}
	}
	if bars, ok := m.Bars[symbol]; ok {
		if len(bars) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
		}
		return bars, f, nil
	}
	if m.Price <= 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return GenerateBars(m.Price, period.TradingDays(), time.Now()), f, nil
}

// Calls reports how many times symbol was fetched.
func (m *MockGateway) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// GenerateBars builds count synthetic daily bars ending the day before end.
func GenerateBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Snapshot is one symbol's bars after indicator computation.
type Snapshot struct {
	Symbol       string
	Series       *model.IndicatorSeries
	Fundamentals *model.Fundamentals
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Gateway Gateway
	Engine  *calculator.Engine
	Timeout time.Duration
}

// NewCollector creates a new Collector. A zero timeout disables the
// per-fetch deadline.
func NewCollector(gateway Gateway, engine *calculator.Engine, timeout time.Duration) *Collector {
	return &Collector{Gateway: gateway, Engine: engine, Timeout: timeout}
}

// Collect fetches symbol and computes all indicators.
func (c *Collector) Collect(ctx context.Context, symbol string, period model.Period) (*Snapshot, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	bars, f, err := c.Gateway.Fetch(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", symbol, ErrNoData)
	}
	series, err := c.Engine.Compute(bars)
	if err != nil {
		return nil, fmt.Errorf("compute %s: %w", symbol, err)
	}
	if f == nil {
		f = &model.Fundamentals{}
	}
	return &Snapshot{Symbol: symbol, Series: series, Fundamentals: f}, nil
}

// GatewayPrices resolves latest closing prices through a Gateway.
type GatewayPrices struct {
	Gateway Gateway
	Workers int
	Timeout time.Duration
	Log     zerolog.Logger
}

// Prices fetches the shortest window per symbol concurrently. Symbols that
// fail are logged and left out of the result.
func (p *GatewayPrices) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	var mu sync.Mutex
	out := make(map[string]float64, len(symbols))

	var g errgroup.Group
	g.SetLimit(max(p.Workers, 1))
	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			fctx := ctx
			if p.Timeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, p.Timeout)
				defer cancel()
			}
			bars, _, err := p.Gateway.Fetch(fctx, sym, model.Period1M)
			if err != nil || len(bars) == 0 {
				p.Log.Warn().Str("symbol", sym).Err(err).Msg("price unavailable")
				return nil
			}
			mu.Lock()
			out[sym] = bars[len(bars)-1].Close
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out, ctx.Err()
}
