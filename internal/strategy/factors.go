package strategy

import (
	"fmt"
	"math"

	"StockSentinel/internal/model"
)

// ClassifyRSI maps an RSI value onto the five-zone ladder.
// Edges are half-open: exactly 30 is WeakBuy, 40 and 60 are Neutral, 70 is WeakSell.
func ClassifyRSI(name string, rsi float64) model.Signal {
	sig := model.Signal{Indicator: name}
	switch {
	case !model.Valid(rsi):
		sig.Kind, sig.Label = model.SignalUnknown, "no data"
	case rsi < 30:
		sig.Kind, sig.Label = model.SignalBuy, "oversold severe"
	case rsi < 40:
		sig.Kind, sig.Label = model.SignalWeakBuy, "approaching oversold"
	case rsi <= 60:
		sig.Kind, sig.Label = model.SignalNeutral, "neutral"
	case rsi <= 70:
		sig.Kind, sig.Label = model.SignalWeakSell, "approaching overbought"
	default:
		sig.Kind, sig.Label = model.SignalSell, "overbought severe"
	}
	return sig
}

// MACDPoint is the MACD state at one bar.
type MACDPoint struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACDAt reads the MACD state of series at index i.
func MACDAt(s *model.IndicatorSeries, i int) MACDPoint {
	return MACDPoint{
		MACD:      s.At(model.MACD, i),
		Signal:    s.At(model.MACDSignal, i),
		Histogram: s.At(model.MACDHistogram, i),
	}
}

func (p MACDPoint) valid() bool { return model.Valid(p.MACD) && model.Valid(p.Signal) }

// BullishCross reports a fresh golden cross between prev and cur.
func BullishCross(prev, cur MACDPoint) bool {
	return prev.valid() && cur.valid() && prev.MACD <= prev.Signal && cur.MACD > cur.Signal
}

// BearishCross reports a fresh death cross between prev and cur.
func BearishCross(prev, cur MACDPoint) bool {
	return prev.valid() && cur.valid() && prev.MACD >= prev.Signal && cur.MACD < cur.Signal
}

// ClassifyMACD is crossover-aware. With strong set, a cross only counts as
// Buy (Sell) when the histogram also rose (fell) against the prior bar.
func ClassifyMACD(prev, cur MACDPoint, strong bool) model.Signal {
	sig := model.Signal{Indicator: model.MACD}
	histRising := model.Valid(prev.Histogram) && model.Valid(cur.Histogram) && cur.Histogram > prev.Histogram
	histFalling := model.Valid(prev.Histogram) && model.Valid(cur.Histogram) && cur.Histogram < prev.Histogram

	switch {
	case !cur.valid():
		sig.Kind, sig.Label = model.SignalUnknown, "no data"
	case BullishCross(prev, cur) && (!strong || histRising):
		sig.Kind, sig.Label = model.SignalBuy, "golden cross"
	case BearishCross(prev, cur) && (!strong || histFalling):
		sig.Kind, sig.Label = model.SignalSell, "death cross"
	case cur.MACD > cur.Signal:
		sig.Kind, sig.Label = model.SignalWeakBuy, "bullish, hold"
	case cur.MACD < cur.Signal:
		sig.Kind, sig.Label = model.SignalWeakSell, "bearish"
	default:
		sig.Kind, sig.Label = model.SignalNeutral, "flat"
	}
	return sig
}

// ClassifyBollinger compares the close against the bands.
func ClassifyBollinger(price, lower, upper float64) model.Signal {
	sig := model.Signal{Indicator: "Bollinger"}
	switch {
	case !model.Valid(lower) || !model.Valid(upper) || !model.Valid(price):
		sig.Kind, sig.Label = model.SignalUnknown, "no data"
	case price <= lower:
		sig.Kind, sig.Label = model.SignalBuy, "oversold"
	case price >= upper:
		sig.Kind, sig.Label = model.SignalSell, "overbought"
	default:
		sig.Kind, sig.Label = model.SignalNeutral, "inside bands"
	}
	return sig
}

// VolumeReading is the volume level plus its directional signal.
type VolumeReading struct {
	Ratio  float64      `json:"ratio"`
	Level  string       `json:"level"`
	Signal model.Signal `json:"signal"`
}

// ClassifyVolume buckets the volume ratio and tags heavy volume by the
// direction of the price move on the same bar.
func ClassifyVolume(ratio, priceChangePct float64) VolumeReading {
	r := VolumeReading{Ratio: ratio, Signal: model.Signal{Indicator: model.VolumeRatio}}
	if !model.Valid(ratio) {
		r.Level = "unknown"
		r.Signal.Kind, r.Signal.Label = model.SignalUnknown, "no data"
		return r
	}

	switch {
	case ratio > 2.0:
		r.Level = "very high"
	case ratio > 1.5:
		r.Level = "high"
	case ratio > 1.2:
		r.Level = "moderately high"
	case ratio >= 0.8:
		r.Level = "normal"
	case ratio >= 0.5:
		r.Level = "low"
	default:
		r.Level = "very low"
	}

	up := model.Valid(priceChangePct) && priceChangePct > 0
	down := model.Valid(priceChangePct) && priceChangePct < 0
	switch {
	case ratio > 1.5 && up:
		r.Signal.Kind = model.SignalBuy
	case ratio > 1.5 && down:
		r.Signal.Kind = model.SignalSell
	case ratio > 1.2 && up:
		r.Signal.Kind = model.SignalWeakBuy
	case ratio > 1.2 && down:
		r.Signal.Kind = model.SignalWeakSell
	default:
		r.Signal.Kind = model.SignalNeutral
	}
	switch {
	case up:
		r.Signal.Label = r.Level + " volume, price up"
	case down:
		r.Signal.Label = r.Level + " volume, price down"
	default:
		r.Signal.Label = r.Level + " volume"
	}
	return r
}

// NearLevelPct is the distance under which price counts as near a level.
const NearLevelPct = 3.0

// Proximity describes where price sits against support and resistance.
type Proximity struct {
	Support           float64 `json:"support"`
	Resistance        float64 `json:"resistance"`
	SupportDistPct    float64 `json:"support_dist_pct"`
	ResistanceDistPct float64 `json:"resistance_dist_pct"`
	NearSupport       bool    `json:"near_support"`
	NearResistance    bool    `json:"near_resistance"`
	SupportLabel      string  `json:"support_label"`
	ResistanceLabel   string  `json:"resistance_label"`
}

// ClassifyProximity measures the distance of price from both levels.
func ClassifyProximity(price, support, resistance float64) Proximity {
	p := Proximity{
		Support:           support,
		Resistance:        resistance,
		SupportDistPct:    distancePct(price, support),
		ResistanceDistPct: distancePct(price, resistance),
		SupportLabel:      "no data",
		ResistanceLabel:   "no data",
	}
	if model.Valid(p.SupportDistPct) {
		p.NearSupport = p.SupportDistPct < NearLevelPct
		p.SupportLabel = nearOrFar(p.NearSupport, "support")
	}
	if model.Valid(p.ResistanceDistPct) {
		p.NearResistance = p.ResistanceDistPct < NearLevelPct
		p.ResistanceLabel = nearOrFar(p.NearResistance, "resistance")
	}
	return p
}

func distancePct(price, level float64) float64 {
	if !model.Valid(price) || !model.Valid(level) || level == 0 {
		return math.NaN()
	}
	return math.Abs(price-level) / level * 100
}

func nearOrFar(near bool, level string) string {
	if near {
		return fmt.Sprintf("near %s", level)
	}
	return fmt.Sprintf("far from %s", level)
}
