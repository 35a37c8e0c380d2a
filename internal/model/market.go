package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Period is a lookback window accepted by market data gateways.
type Period string

const (
	Period1M Period = "1mo"
	Period3M Period = "3mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
	Period2Y Period = "2y"
	Period5Y Period = "5y"
)

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Period1M, Period3M, Period6M, Period1Y, Period2Y, Period5Y:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// TradingDays approximates the number of daily bars in the period.
func (p Period) TradingDays() int {
	switch p {
	case Period1M:
		return 22
	case Period3M:
		return 66
	case Period6M:
		return 130
	case Period2Y:
		return 504
	case Period5Y:
		return 1260
	default:
		return 252
	}
}

// Closes extracts the closing prices of bars.
func Closes(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high prices of bars.
func Highs(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low prices of bars.
func Lows(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the traded volumes of bars.
func Volumes(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
