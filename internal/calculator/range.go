package calculator

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// RollingHigh returns the highest value over each trailing window, used as resistance.
func RollingHigh(highs []float64, window int) ([]float64, error) {
	if err := checkWindow(highs, window, window-1); err != nil {
		return nanSeries(len(highs)), err
	}
	return mask(talib.Max(highs, window), window-1), nil
}

// RollingLow returns the lowest value over each trailing window, used as support.
func RollingLow(lows []float64, window int) ([]float64, error) {
	if err := checkWindow(lows, window, window-1); err != nil {
		return nanSeries(len(lows)), err
	}
	return mask(talib.Min(lows, window), window-1), nil
}

// PercentChange returns (v[i]-v[i-n])/v[i-n]*100, NaN where v[i-n] is zero.
func PercentChange(values []float64, n int) ([]float64, error) {
	if err := checkWindow(values, n, n); err != nil {
		return nanSeries(len(values)), err
	}
	out := nanSeries(len(values))
	for i := n; i < len(values); i++ {
		base := values[i-n]
		if base == 0 || math.IsNaN(base) || math.IsNaN(values[i]) {
			continue
		}
		out[i] = (values[i] - base) / math.Abs(base) * 100
	}
	return out, nil
}

// Volatility returns the sample standard deviation of daily percent
// returns over window, annualized by sqrt(252).
func Volatility(closes []float64, window int) ([]float64, error) {
	if window < 2 {
		return nanSeries(len(closes)), fmt.Errorf("volatility window must be at least 2, got %d", window)
	}
	returns, err := PercentChange(closes, 1)
	if err != nil {
		return nanSeries(len(closes)), err
	}
	if err := checkWindow(closes, window, window); err != nil {
		return nanSeries(len(closes)), err
	}
	out := nanSeries(len(closes))
	annualize := math.Sqrt(252)
	for i := window; i < len(closes); i++ {
		sample := returns[i-window+1 : i+1]
		if hasNaN(sample) {
			continue
		}
		out[i] = stat.StdDev(sample, nil) * annualize
	}
	return out, nil
}

// BollingerResult holds the band series and the derived width and position.
type BollingerResult struct {
	Upper    []float64
	Middle   []float64
	Lower    []float64
	Width    []float64
	Position []float64
}

// Bollinger computes bands at k standard deviations around the SMA(window).
func Bollinger(closes []float64, window int, k float64) (BollingerResult, error) {
	n := len(closes)
	res := BollingerResult{
		Upper: nanSeries(n), Middle: nanSeries(n), Lower: nanSeries(n),
		Width: nanSeries(n), Position: nanSeries(n),
	}
	if err := checkWindow(closes, window, window-1); err != nil {
		return res, err
	}
	// MAType 0 = SMA
	upper, middle, lower := talib.BBands(closes, window, k, k, 0)
	res.Upper = mask(upper, window-1)
	res.Middle = mask(middle, window-1)
	res.Lower = mask(lower, window-1)
	for i := window - 1; i < n; i++ {
		if res.Middle[i] != 0 {
			res.Width[i] = (res.Upper[i] - res.Lower[i]) / res.Middle[i]
		}
		if band := res.Upper[i] - res.Lower[i]; band != 0 {
			res.Position[i] = (closes[i] - res.Lower[i]) / band
		} else {
			res.Position[i] = 0.5
		}
	}
	return res, nil
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
