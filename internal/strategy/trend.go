package strategy

import "StockSentinel/internal/model"

// Trend is the five-way classification with its supporting evidence.
type Trend struct {
	Kind      model.TrendKind `json:"kind"`
	Score     int             `json:"score"`    // 0..5 moving-average checks passed
	Strength  string          `json:"strength"` // from ADX: strong, moderate, weak
	ADX       float64         `json:"adx"`
	Direction string          `json:"direction"` // dominant directional indicator
	Arrow     string          `json:"arrow"`
}

// ClassifyTrend scores five moving-average checks and grades them by ADX.
// All three averages must be defined, otherwise the trend is Unknown.
func ClassifyTrend(price, sma20, sma50, sma200, adx, plusDI, minusDI float64) Trend {
	t := Trend{ADX: adx, Strength: adxStrength(adx), Direction: diDirection(plusDI, minusDI)}
	if !model.Valid(price) || !model.Valid(sma20) || !model.Valid(sma50) || !model.Valid(sma200) {
		t.Kind, t.Arrow = model.TrendUnknown, "?"
		return t
	}

	for _, ok := range []bool{
		price > sma20,
		price > sma50,
		price > sma200,
		sma20 > sma50,
		sma50 > sma200,
	} {
		if ok {
			t.Score++
		}
	}

	trending := model.Valid(adx) && adx > 25
	switch {
	case t.Score >= 4 && trending:
		t.Kind, t.Arrow = model.TrendStrongUp, "⬆"
	case t.Score >= 4:
		t.Kind, t.Arrow = model.TrendWeakUp, "↗"
	case t.Score <= 1 && trending:
		t.Kind, t.Arrow = model.TrendStrongDown, "⬇"
	case t.Score <= 1:
		t.Kind, t.Arrow = model.TrendWeakDown, "↘"
	default:
		t.Kind, t.Arrow = model.TrendSideways, "➡"
	}
	return t
}

func adxStrength(adx float64) string {
	switch {
	case !model.Valid(adx):
		return "unknown"
	case adx > 40:
		return "strong"
	case adx > 25:
		return "moderate"
	default:
		return "weak"
	}
}

func diDirection(plusDI, minusDI float64) string {
	switch {
	case !model.Valid(plusDI) || !model.Valid(minusDI):
		return ""
	case plusDI > minusDI:
		return "+DI"
	case minusDI > plusDI:
		return "-DI"
	default:
		return ""
	}
}

// Alignment is the moving-average stacking label.
type Alignment string

const (
	AlignStrongUp     Alignment = "STRONG_UPTREND"
	AlignUp           Alignment = "UPTREND"
	AlignStrongDown   Alignment = "STRONG_DOWNTREND"
	AlignDown         Alignment = "DOWNTREND"
	AlignPullback     Alignment = "PULLBACK_IN_UPTREND"
	AlignRecovery     Alignment = "RECOVERY_IN_DOWNTREND"
	AlignSideways     Alignment = "SIDEWAYS"
	AlignInsufficient Alignment = "INSUFFICIENT_DATA"
)

// ClassifyAlignment labels how price and the 20/50/200 averages are stacked.
func ClassifyAlignment(price, sma20, sma50, sma200 float64) Alignment {
	if !model.Valid(sma20) || !model.Valid(sma50) || !model.Valid(sma200) || !model.Valid(price) {
		return AlignInsufficient
	}
	switch {
	case price > sma20 && sma20 > sma50 && sma50 > sma200:
		return AlignStrongUp
	case price > sma50 && sma50 > sma200:
		return AlignUp
	case price < sma20 && sma20 < sma50 && sma50 < sma200:
		return AlignStrongDown
	case price < sma50 && sma50 < sma200:
		return AlignDown
	case sma20 > sma50 && price < sma20:
		return AlignPullback
	case sma20 < sma50 && price > sma20:
		return AlignRecovery
	default:
		return AlignSideways
	}
}
