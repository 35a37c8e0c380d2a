package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway(t *testing.T) {
	m := &MockGateway{
		Price:  100,
		Errors: map[string]error{"BAD.BK": errors.New("boom")},
		Bars:   map[string][]model.OHLCV{"EMPTY.BK": {}},
	}

	bars, f, err := m.Fetch(context.Background(), "PTT.BK", model.Period3M)
	require.NoError(t, err)
	assert.Len(t, bars, model.Period3M.TradingDays())
	assert.NotNil(t, f)

	_, _, err = m.Fetch(context.Background(), "BAD.BK", model.Period3M)
	assert.EqualError(t, err, "boom")

	_, _, err = m.Fetch(context.Background(), "EMPTY.BK", model.Period3M)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 1, m.Calls("PTT.BK"))
}

func TestCollector_Collect(t *testing.T) {
	c := NewCollector(&MockGateway{Price: 50}, calculator.NewEngine(zerolog.Nop()), time.Second)
	snap, err := c.Collect(context.Background(), "CPALL.BK", model.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, "CPALL.BK", snap.Symbol)
	assert.Equal(t, model.Period1Y.TradingDays(), snap.Series.Len())
	assert.True(t, model.Valid(snap.Series.Latest(model.SMA200)))
}

func TestCollector_Timeout(t *testing.T) {
	c := NewCollector(&MockGateway{Price: 50, Delay: time.Second}, calculator.NewEngine(zerolog.Nop()), 10*time.Millisecond)
	_, err := c.Collect(context.Background(), "SLOW.BK", model.Period3M)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGatewayPrices(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := &MockGateway{
		Bars: map[string][]model.OHLCV{
			"PTT.BK": GenerateBars(34, 22, end),
			"AOT.BK": {{Time: end, Close: 61.25}},
		},
		Errors: map[string]error{"BAD.BK": errors.New("boom")},
	}
	p := &GatewayPrices{Gateway: m, Workers: 2, Log: zerolog.Nop()}

	prices, err := p.Prices(context.Background(), []string{"PTT.BK", "AOT.BK", "BAD.BK"})
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.Equal(t, 61.25, prices["AOT.BK"])
	assert.InDelta(t, 34*(1+10*0.001), prices["PTT.BK"], 1e-9)
	_, ok := prices["BAD.BK"]
	assert.False(t, ok)
}
