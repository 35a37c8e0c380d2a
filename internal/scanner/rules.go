package scanner

import (
	"fmt"

	"StockSentinel/internal/model"
	"StockSentinel/internal/strategy"
)

// Momentum thresholds.
const (
	momentumKeepPct   = 50.0
	momentumStrongPct = 80.0
	momentumGoodPct   = 60.0
)

// EvaluateMomentum scores the 10-point momentum checklist at the latest bar.
func EvaluateMomentum(s *model.IndicatorSeries) (Candidate, bool) {
	if s == nil || s.Len() == 0 {
		return Candidate{}, false
	}
	price := s.LastBar().Close
	ema5, ema10 := s.Latest(model.EMA5), s.Latest(model.EMA10)
	rsi7 := s.Latest(model.RSI7)
	k, d := s.Latest(model.StochK), s.Latest(model.StochD)
	atrPct := s.Latest(model.ATRPct)
	res20 := s.Latest(model.Resistance20)
	dist := distanceBelow(price, res20)

	checks := []struct {
		ok     bool
		reason string
	}{
		{price > ema5, "price above EMA5"},
		{ema5 > ema10, "EMA5 above EMA10"},
		{rsi7 > 50 && rsi7 < 70, fmt.Sprintf("RSI7 %.1f in momentum zone", rsi7)},
		{s.Latest(model.MACD) > s.Latest(model.MACDSignal), "MACD above signal"},
		{s.Latest(model.VolumeRatio) > 1.2, fmt.Sprintf("volume %.1fx average", s.Latest(model.VolumeRatio))},
		{s.Latest(model.PriceChange5) > 3, fmt.Sprintf("5-day change %+.1f%%", s.Latest(model.PriceChange5))},
		{s.Latest(model.ROC5) > 1, "ROC5 positive"},
		{k > d && k < 80, "stochastic %K above %D"},
		{atrPct > 2, fmt.Sprintf("ATR %.1f%% of price", atrPct)},
		{model.Valid(dist) && dist < 5, "within 5% of 20-day resistance"},
	}

	c := Candidate{Mode: ModeMomentum, Price: price}
	points := 0
	for _, ch := range checks {
		if ch.ok {
			points++
			c.Reasons = append(c.Reasons, ch.reason)
		}
	}
	c.Score = float64(points) / float64(len(checks)) * 100
	if c.Score < momentumKeepPct {
		return Candidate{}, false
	}

	switch {
	case c.Score >= momentumStrongPct:
		c.Tag = "strong"
	case c.Score >= momentumGoodPct:
		c.Tag = "good"
	default:
		c.Tag = "moderate"
	}
	c.Target1 = price * 1.05
	c.StopLoss = price * 0.97
	c.HoldingPeriod = holdingPeriod(atrPct)
	c.DistancePct = dist
	c.RSI = s.Latest(model.RSI14)
	c.VolumeRatio = s.Latest(model.VolumeRatio)
	return c, true
}

// holdingPeriod shortens the suggested window as volatility rises.
func holdingPeriod(atrPct float64) string {
	switch {
	case model.Valid(atrPct) && atrPct > 4:
		return "1-3 days"
	case model.Valid(atrPct) && atrPct > 2:
		return "3-5 days"
	default:
		return "5-10 days"
	}
}

// EvaluateBreakout checks for price pressing against 20-day or 50-day resistance.
func EvaluateBreakout(s *model.IndicatorSeries) (Candidate, bool) {
	if s == nil || s.Len() == 0 {
		return Candidate{}, false
	}
	price := s.LastBar().Close
	ratio := s.Latest(model.VolumeRatio)
	rsi := s.Latest(model.RSI14)
	res20, res50 := s.Latest(model.Resistance20), s.Latest(model.Resistance50)

	c := Candidate{Mode: ModeBreakout, Price: price, RSI: rsi, VolumeRatio: ratio}
	if d := distanceBelow(price, res20); model.Valid(d) && d < 3 && ratio > 1.3 && rsi < 65 {
		c.Tag = "short-term resistance"
		c.Level = res20
		c.DistancePct = d
		c.Score = d
		c.Target1 = res20 * 1.03
		c.Target2 = res20 * 1.05
		c.StopLoss = price * 0.97
		c.Reasons = []string{
			fmt.Sprintf("%.1f%% below 20-day resistance %.2f", d, res20),
			fmt.Sprintf("volume %.1fx average", ratio),
			fmt.Sprintf("RSI14 %.1f has room", rsi),
		}
		return c, true
	}
	if d := distanceBelow(price, res50); model.Valid(d) && d < 5 && ratio > 1.5 {
		c.Tag = "major resistance"
		c.Level = res50
		c.DistancePct = d
		c.Score = d
		c.Target1 = res50 * 1.05
		c.Target2 = res50 * 1.08
		c.StopLoss = price * 0.95
		c.Reasons = []string{
			fmt.Sprintf("%.1f%% below 50-day resistance %.2f", d, res50),
			fmt.Sprintf("volume surge %.1fx average", ratio),
		}
		return c, true
	}
	return Candidate{}, false
}

// EvaluateRebound looks for oversold symbols sitting on support or turning up.
func EvaluateRebound(s *model.IndicatorSeries) (Candidate, bool) {
	if s == nil || s.Len() == 0 {
		return Candidate{}, false
	}
	price := s.LastBar().Close
	rsi14, rsi7 := s.Latest(model.RSI14), s.Latest(model.RSI7)
	ratio := s.Latest(model.VolumeRatio)
	sup20 := s.Latest(model.Support20)

	above := distanceAbove(price, sup20)
	nearSupport := model.Valid(above) && above > 0 && above < 3
	freshCross := strategy.BullishCross(strategy.MACDAt(s, s.Len()-2), strategy.MACDAt(s, s.Len()-1))
	oversold := rsi14 < 35 || rsi7 < 30
	if !oversold || (!nearSupport && !freshCross) {
		return Candidate{}, false
	}

	c := Candidate{Mode: ModeRebound, Price: price, RSI: rsi14, VolumeRatio: ratio, Level: sup20, DistancePct: above}
	if rsi7 < 30 {
		c.Score += 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("RSI7 %.1f oversold", rsi7))
	} else {
		c.Reasons = append(c.Reasons, fmt.Sprintf("RSI14 %.1f oversold", rsi14))
	}
	if nearSupport {
		c.Score += 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("%.1f%% above 20-day support %.2f", above, sup20))
	}
	if freshCross {
		c.Score++
		c.Reasons = append(c.Reasons, "fresh MACD bullish cross")
	}
	if ratio > 1 {
		c.Score++
		c.Reasons = append(c.Reasons, fmt.Sprintf("volume %.1fx average", ratio))
	}
	switch {
	case c.Score >= 4:
		c.Tag = "high"
	case c.Score >= 3:
		c.Tag = "moderate"
	default:
		c.Tag = "low"
	}
	c.Target1 = price * 1.03
	c.Target2 = price * 1.05
	c.StopLoss = price * 0.95
	return c, true
}

// distanceBelow is how far price sits under level, in percent of level.
func distanceBelow(price, level float64) float64 {
	if !model.Valid(level) || level <= 0 {
		return nan
	}
	d := (level - price) / level * 100
	if d < 0 {
		return nan
	}
	return d
}

// distanceAbove is how far price sits over level, in percent of level.
func distanceAbove(price, level float64) float64 {
	if !model.Valid(level) || level <= 0 {
		return nan
	}
	return (price - level) / level * 100
}
