package scanner

import (
	"math"
	"testing"
	"time"

	"StockSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// latestSeries builds a two-bar series closing at price, with the given
// indicator values at the last bar and prev at the bar before.
func latestSeries(price float64, prev, latest map[string]float64) *model.IndicatorSeries {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	s := model.NewIndicatorSeries([]model.OHLCV{
		{Time: start, Close: price},
		{Time: start.AddDate(0, 0, 1), Close: price},
	})
	for name, v := range latest {
		p, ok := prev[name]
		if !ok {
			p = math.NaN()
		}
		s.Values[name] = []float64{p, v}
	}
	return s
}

func momentumInputs() map[string]float64 {
	return map[string]float64{
		model.EMA5:         104,
		model.EMA10:        103,
		model.RSI7:         60,
		model.RSI14:        58,
		model.MACD:         1,
		model.MACDSignal:   0.5,
		model.VolumeRatio:  1.5,
		model.PriceChange5: 4,
		model.ROC5:         2,
		model.StochK:       70,
		model.StochD:       60,
		model.ATRPct:       3,
		model.Resistance20: 107,
	}
}

func TestEvaluateMomentum_AllChecks(t *testing.T) {
	c, ok := EvaluateMomentum(latestSeries(105, nil, momentumInputs()))
	require.True(t, ok)
	assert.Equal(t, 100.0, c.Score)
	assert.Equal(t, "strong", c.Tag)
	assert.Len(t, c.Reasons, 10)
	assert.InDelta(t, 110.25, c.Target1, 1e-9)
	assert.InDelta(t, 101.85, c.StopLoss, 1e-9)
	assert.Equal(t, "3-5 days", c.HoldingPeriod)
}

func TestEvaluateMomentum_Threshold(t *testing.T) {
	in := momentumInputs()
	in[model.RSI7] = 75
	in[model.VolumeRatio] = 1
	in[model.PriceChange5] = 1
	in[model.ROC5] = 0.5
	in[model.ATRPct] = 1.5
	c, ok := EvaluateMomentum(latestSeries(105, nil, in))
	require.True(t, ok)
	assert.Equal(t, 50.0, c.Score)
	assert.Equal(t, "moderate", c.Tag)
	assert.Equal(t, "5-10 days", c.HoldingPeriod)

	in[model.StochK] = 85
	_, ok = EvaluateMomentum(latestSeries(105, nil, in))
	assert.False(t, ok)
}

func TestEvaluateBreakout(t *testing.T) {
	c, ok := EvaluateBreakout(latestSeries(100, nil, map[string]float64{
		model.Resistance20: 102,
		model.Resistance50: 104,
		model.VolumeRatio:  1.4,
		model.RSI14:        60,
	}))
	require.True(t, ok)
	assert.Equal(t, "short-term resistance", c.Tag)
	assert.InDelta(t, 102*1.03, c.Target1, 1e-9)
	assert.InDelta(t, 102*1.05, c.Target2, 1e-9)
	assert.InDelta(t, 97.0, c.StopLoss, 1e-9)

	c, ok = EvaluateBreakout(latestSeries(100, nil, map[string]float64{
		model.Resistance20: 110,
		model.Resistance50: 104,
		model.VolumeRatio:  1.6,
		model.RSI14:        70,
	}))
	require.True(t, ok)
	assert.Equal(t, "major resistance", c.Tag)
	assert.InDelta(t, 104*1.08, c.Target2, 1e-9)
	assert.InDelta(t, 95.0, c.StopLoss, 1e-9)

	_, ok = EvaluateBreakout(latestSeries(100, nil, map[string]float64{
		model.Resistance20: 110,
		model.Resistance50: 104,
		model.VolumeRatio:  1.4,
		model.RSI14:        60,
	}))
	assert.False(t, ok)
}

func TestEvaluateRebound(t *testing.T) {
	c, ok := EvaluateRebound(latestSeries(101,
		map[string]float64{model.MACD: -1, model.MACDSignal: 0},
		map[string]float64{
			model.RSI7:        25,
			model.RSI14:       33,
			model.Support20:   100,
			model.VolumeRatio: 1.2,
			model.MACD:        1,
			model.MACDSignal:  0,
		}))
	require.True(t, ok)
	assert.Equal(t, 6.0, c.Score)
	assert.Equal(t, "high", c.Tag)
	assert.InDelta(t, 104.03, c.Target1, 1e-9)

	c, ok = EvaluateRebound(latestSeries(101, nil, map[string]float64{
		model.RSI7:        40,
		model.RSI14:       34,
		model.Support20:   100,
		model.VolumeRatio: 0.8,
	}))
	require.True(t, ok)
	assert.Equal(t, 2.0, c.Score)
	assert.Equal(t, "low", c.Tag)

	_, ok = EvaluateRebound(latestSeries(101, nil, map[string]float64{
		model.RSI7:      40,
		model.RSI14:     34,
		model.Support20: 90,
	}))
	assert.False(t, ok, "oversold but far from support without a cross")

	_, ok = EvaluateRebound(latestSeries(101, nil, map[string]float64{model.Support20: 100}))
	assert.False(t, ok, "undefined RSI is not oversold")
}
