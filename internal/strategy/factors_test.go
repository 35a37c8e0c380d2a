package strategy

import (
	"math"
	"testing"

	"StockSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRSI(t *testing.T) {
	cases := []struct {
		rsi   float64
		kind  model.SignalKind
		label string
	}{
		{25, model.SignalBuy, "oversold severe"},
		{72, model.SignalSell, "overbought severe"},
		{50, model.SignalNeutral, "neutral"},
		{30, model.SignalWeakBuy, "approaching oversold"},
		{40, model.SignalNeutral, "neutral"},
		{60, model.SignalNeutral, "neutral"},
		{70, model.SignalWeakSell, "approaching overbought"},
		{math.NaN(), model.SignalUnknown, "no data"},
	}
	for _, c := range cases {
		sig := ClassifyRSI(model.RSI14, c.rsi)
		assert.Equal(t, c.kind, sig.Kind, "rsi=%v", c.rsi)
		assert.Equal(t, c.label, sig.Label, "rsi=%v", c.rsi)
	}
}

func TestClassifyMACD(t *testing.T) {
	below := MACDPoint{MACD: -1, Signal: 0, Histogram: -1}
	above := MACDPoint{MACD: 1, Signal: 0, Histogram: 1}

	assert.Equal(t, model.SignalBuy, ClassifyMACD(below, above, false).Kind)
	assert.Equal(t, model.SignalSell, ClassifyMACD(above, below, false).Kind)
	assert.Equal(t, model.SignalWeakBuy, ClassifyMACD(above, above, false).Kind)
	assert.Equal(t, model.SignalWeakSell, ClassifyMACD(below, below, false).Kind)
	assert.Equal(t, model.SignalUnknown, ClassifyMACD(below, MACDPoint{MACD: math.NaN(), Signal: 0}, false).Kind)
}

func TestClassifyMACD_StrongNeedsHistogram(t *testing.T) {
	prev := MACDPoint{MACD: -1, Signal: 0, Histogram: 2}
	cur := MACDPoint{MACD: 1, Signal: 0, Histogram: 1}
	assert.Equal(t, model.SignalBuy, ClassifyMACD(prev, cur, false).Kind)
	assert.Equal(t, model.SignalWeakBuy, ClassifyMACD(prev, cur, true).Kind)

	cur.Histogram = 3
	assert.Equal(t, model.SignalBuy, ClassifyMACD(prev, cur, true).Kind)
}

func TestClassifyBollinger(t *testing.T) {
	assert.Equal(t, model.SignalBuy, ClassifyBollinger(90, 90, 110).Kind)
	assert.Equal(t, model.SignalSell, ClassifyBollinger(111, 90, 110).Kind)
	assert.Equal(t, model.SignalNeutral, ClassifyBollinger(100, 90, 110).Kind)
	assert.Equal(t, model.SignalUnknown, ClassifyBollinger(100, math.NaN(), 110).Kind)
}

func TestClassifyVolume(t *testing.T) {
	r := ClassifyVolume(2.5, 1.2)
	assert.Equal(t, "very high", r.Level)
	assert.Equal(t, model.SignalBuy, r.Signal.Kind)

	r = ClassifyVolume(1.8, -2)
	assert.Equal(t, "high", r.Level)
	assert.Equal(t, model.SignalSell, r.Signal.Kind)

	r = ClassifyVolume(1.3, 0.5)
	assert.Equal(t, "moderately high", r.Level)
	assert.Equal(t, model.SignalWeakBuy, r.Signal.Kind)

	assert.Equal(t, "normal", ClassifyVolume(1.0, 1).Level)
	assert.Equal(t, "low", ClassifyVolume(0.6, 1).Level)
	assert.Equal(t, "very low", ClassifyVolume(0.2, 1).Level)
	assert.Equal(t, model.SignalUnknown, ClassifyVolume(math.NaN(), 1).Signal.Kind)
}

func TestClassifyProximity(t *testing.T) {
	p := ClassifyProximity(102, 100, 120)
	assert.True(t, p.NearSupport)
	assert.False(t, p.NearResistance)
	assert.Equal(t, "near support", p.SupportLabel)
	assert.Equal(t, "far from resistance", p.ResistanceLabel)
	assert.InDelta(t, 2.0, p.SupportDistPct, 1e-9)

	p = ClassifyProximity(100, math.NaN(), 0)
	assert.Equal(t, "no data", p.SupportLabel)
	assert.Equal(t, "no data", p.ResistanceLabel)
}

func TestClassifyTrend(t *testing.T) {
	tr := ClassifyTrend(110, 105, 100, 90, 30, 25, 10)
	assert.Equal(t, model.TrendStrongUp, tr.Kind)
	assert.Equal(t, 5, tr.Score)
	assert.Equal(t, "moderate", tr.Strength)
	assert.Equal(t, "+DI", tr.Direction)

	assert.Equal(t, model.TrendWeakUp, ClassifyTrend(110, 105, 100, 90, 20, 25, 10).Kind)
	assert.Equal(t, model.TrendStrongDown, ClassifyTrend(80, 85, 90, 100, 45, 10, 30).Kind)
	assert.Equal(t, model.TrendWeakDown, ClassifyTrend(80, 85, 90, 100, 15, 10, 30).Kind)
	assert.Equal(t, model.TrendSideways, ClassifyTrend(100, 105, 95, 100, 30, 10, 30).Kind)
	assert.Equal(t, model.TrendUnknown, ClassifyTrend(100, 105, 95, math.NaN(), 30, 10, 30).Kind)
}

func TestClassifyAlignment(t *testing.T) {
	assert.Equal(t, AlignStrongUp, ClassifyAlignment(110, 105, 100, 90))
	assert.Equal(t, AlignUp, ClassifyAlignment(102, 105, 100, 90))
	assert.Equal(t, AlignStrongDown, ClassifyAlignment(80, 85, 90, 100))
	assert.Equal(t, AlignDown, ClassifyAlignment(88, 85, 90, 100))
	assert.Equal(t, AlignPullback, ClassifyAlignment(97, 100, 95, 99))
	assert.Equal(t, AlignInsufficient, ClassifyAlignment(95, 100, 98, math.NaN()))
}

func TestAggregate(t *testing.T) {
	buy := model.Signal{Kind: model.SignalBuy}
	sell := model.Signal{Kind: model.SignalSell}
	weak := model.Signal{Kind: model.SignalWeakBuy}
	unknown := model.Signal{Kind: model.SignalUnknown}

	v := Aggregate(buy, buy, sell)
	assert.Equal(t, model.SignalBuy, v.Overall.Kind)

	v = Aggregate(buy, sell, weak)
	assert.Equal(t, model.SignalNeutral, v.Overall.Kind)
	assert.Equal(t, "wait", v.Overall.Label)
	assert.Equal(t, 1, v.Others)

	v = Aggregate(unknown, weak)
	assert.Equal(t, model.SignalNeutral, v.Overall.Kind)
	assert.Equal(t, 1, v.Unknown)

	assert.Equal(t, model.SignalSell, Aggregate(sell).Overall.Kind)
}
