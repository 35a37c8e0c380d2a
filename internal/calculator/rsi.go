package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RSI computes the Wilder-smoothed RSI over period.
// The first defined value needs period+1 closes; values lie in [0,100].
func RSI(closes []float64, period int) ([]float64, error) {
	if err := checkWindow(closes, period, period); err != nil {
		return nanSeries(len(closes)), err
	}
	out := mask(talib.Rsi(closes, period), period)
	for i, v := range out {
		if !math.IsNaN(v) {
			out[i] = math.Max(0, math.Min(100, v))
		}
	}
	return out, nil
}

// MACDResult holds the three MACD series.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast) - EMA(slow), its EMA(signal) and the histogram.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	n := len(closes)
	res := MACDResult{MACD: nanSeries(n), Signal: nanSeries(n), Histogram: nanSeries(n)}

	fastEMA, err := EMA(closes, fast)
	if err != nil {
		return res, err
	}
	slowEMA, err := EMA(closes, slow)
	if err != nil {
		return res, err
	}
	start := slow - 1
	for i := start; i < n; i++ {
		res.MACD[i] = fastEMA[i] - slowEMA[i]
	}

	// Signal line is an EMA over the defined part of the MACD line only.
	sig, err := EMA(res.MACD[start:], signal)
	if err != nil {
		return res, err
	}
	copy(res.Signal[start:], sig)
	for i := start; i < n; i++ {
		if !math.IsNaN(res.Signal[i]) {
			res.Histogram[i] = res.MACD[i] - res.Signal[i]
		}
	}
	return res, nil
}
