package strategy

import (
	"fmt"
	"math"

	"StockSentinel/internal/model"
)

// maxPlausibleYieldPct bounds dividend yields; anything above is treated as corrupted.
const maxPlausibleYieldPct = 30.0

// DividendInfo is the normalized dividend picture of a company.
type DividendInfo struct {
	YieldPct    float64 `json:"yield_pct"`
	PayoutPct   float64 `json:"payout_pct"`
	HasDividend bool    `json:"has_dividend"`
}

// NormalizeYield converts a raw provider dividend yield into percent.
// Values <= 1 are fractions, values in (1, 30] are already percent and
// values above 30 are mis-scaled beyond recovery and reported as 0.
func NormalizeYield(raw float64) float64 {
	switch {
	case !model.Valid(raw) || raw <= 0:
		return 0
	case raw <= 1:
		return round2(raw * 100)
	case raw <= maxPlausibleYieldPct:
		return round2(raw)
	default:
		return 0
	}
}

// NormalizePayout converts a raw payout ratio into percent: values <= 1
// are fractions, larger values are taken as percent.
func NormalizePayout(raw float64) float64 {
	switch {
	case !model.Valid(raw) || raw <= 0:
		return 0
	case raw <= 1:
		return round2(raw * 100)
	default:
		return round2(raw)
	}
}

// NormalizeDividend extracts the dividend picture from a snapshot.
func NormalizeDividend(f *model.Fundamentals) DividendInfo {
	if f == nil {
		return DividendInfo{}
	}
	yield := NormalizeYield(model.Value(f.DividendYield))
	if yield == 0 {
		return DividendInfo{}
	}
	return DividendInfo{
		YieldPct:    yield,
		PayoutPct:   NormalizePayout(model.Value(f.PayoutRatio)),
		HasDividend: true,
	}
}

// FundamentalNote is one assessed valuation metric.
type FundamentalNote struct {
	Metric     string `json:"metric"`
	Value      string `json:"value"`
	Assessment string `json:"assessment"`
}

// SummarizeFundamentals grades P/E and P/B when the provider supplied positive values.
func SummarizeFundamentals(f *model.Fundamentals) []FundamentalNote {
	if f == nil {
		return nil
	}
	var notes []FundamentalNote
	if pe := model.Value(f.PE); pe > 0 {
		notes = append(notes, FundamentalNote{Metric: "P/E", Value: fmt.Sprintf("%.1f", pe), Assessment: grade(pe, 10, 15, 25)})
	}
	if pb := model.Value(f.PB); pb > 0 {
		notes = append(notes, FundamentalNote{Metric: "P/B", Value: fmt.Sprintf("%.2f", pb), Assessment: grade(pb, 1, 1.5, 3)})
	}
	return notes
}

func grade(v, low, fair, high float64) string {
	switch {
	case v < low:
		return "low"
	case v < fair:
		return "fair"
	case v < high:
		return "high"
	default:
		return "very high"
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
