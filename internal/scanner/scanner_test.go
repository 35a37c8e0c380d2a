package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hangingGateway blocks on one symbol until the fetch deadline passes.
type hangingGateway struct {
	*collector.MockGateway
	hang string
}

func (g hangingGateway) Fetch(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, *model.Fundamentals, error) {
	if symbol == g.hang {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	return g.MockGateway.Fetch(ctx, symbol, period)
}

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	mock := &collector.MockGateway{
		Bars: map[string][]model.OHLCV{
			"AAA.BK": collector.GenerateBars(10, 66, end),
			"BBB.BK": collector.GenerateBars(30, 66, end),
			"CCC.BK": collector.GenerateBars(20, 66, end),
			"DDD.BK": collector.GenerateBars(20, 66, end),
		},
		Errors: map[string]error{"BAD.BK": errors.New("provider error")},
	}
	gw := hangingGateway{MockGateway: mock, hang: "SLOW.BK"}
	c := collector.NewCollector(gw, calculator.NewEngine(zerolog.Nop()), 50*time.Millisecond)
	u := NewUniverse(map[string]string{
		"AAA.BK": "A", "BBB.BK": "B", "CCC.BK": "C", "DDD.BK": "D",
		"BAD.BK": "Bad", "SLOW.BK": "Slow", "NONE.BK": "No data",
	})
	return New(c, u, Options{Workers: 3}, zerolog.Nop())
}

func TestScan_SkipsFailuresAndRanks(t *testing.T) {
	s := newTestScanner(t)
	byPrice := func(series *model.IndicatorSeries) (Candidate, bool) {
		return Candidate{Mode: ModeMomentum, Score: series.LastBar().Close}, true
	}

	out := s.scan(context.Background(), ModeMomentum, byPrice)
	require.Len(t, out, 4)
	sortCandidates(out, func(a, b Candidate) bool { return a.Score > b.Score })
	out = truncate(out, 3)

	require.Len(t, out, 3)
	assert.Equal(t, "BBB.BK", out[0].Symbol)
	assert.Equal(t, "B", out[0].Name)
	assert.Equal(t, "CCC.BK", out[1].Symbol, "ties break by symbol")
	assert.Equal(t, "DDD.BK", out[2].Symbol)
}

func TestScan_ModesNeverFail(t *testing.T) {
	s := newTestScanner(t)
	for _, mode := range Modes {
		out, err := s.Run(context.Background(), mode, 2)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(out), 2)
		for _, c := range out {
			assert.Equal(t, mode, c.Mode)
			assert.NotEmpty(t, c.Symbol)
		}
	}
	_, err := s.Run(context.Background(), Mode("swing"), 2)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("breakout")
	require.NoError(t, err)
	assert.Equal(t, ModeBreakout, m)
	_, err = ParseMode("")
	assert.Error(t, err)
}

func TestUniverse(t *testing.T) {
	u := DefaultUniverse()
	assert.Equal(t, 20, u.Len())
	assert.Equal(t, "PTT", u.Name("PTT.BK"))

	assert.True(t, u.Register("hmpro.bk", ""))
	assert.Equal(t, "HMPRO", u.Name("HMPRO.BK"))
	assert.False(t, u.Register("HMPRO.BK", ""))
	assert.False(t, u.Register("HMPRO.BK", "Home Product"))
	assert.Equal(t, "Home Product", u.Name("HMPRO.BK"))
	assert.False(t, u.Register("  ", "x"))

	other := DefaultUniverse()
	assert.Equal(t, 20, other.Len(), "registries are independent")

	syms := u.Symbols()
	assert.Equal(t, "ADVANC.BK", syms[0])
	assert.Len(t, syms, 21)
}
