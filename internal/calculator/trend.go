package calculator

import (
	"github.com/markcheno/go-talib"
)

// DirectionalResult holds ADX with its directional indicators.
type DirectionalResult struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// Directional computes Wilder's ADX, +DI and -DI over period.
// ADX needs 2*period bars, the DI lines period+1.
func Directional(highs, lows, closes []float64, period int) (DirectionalResult, error) {
	n := len(closes)
	res := DirectionalResult{ADX: nanSeries(n), PlusDI: nanSeries(n), MinusDI: nanSeries(n)}
	if err := checkWindow(closes, period, period); err != nil {
		return res, err
	}
	res.PlusDI = mask(talib.PlusDI(highs, lows, closes, period), period)
	res.MinusDI = mask(talib.MinusDI(highs, lows, closes, period), period)

	adxLookback := 2*period - 1
	if err := checkWindow(closes, period, adxLookback); err != nil {
		return res, err
	}
	res.ADX = mask(talib.Adx(highs, lows, closes, period), adxLookback)
	return res, nil
}

// ATR computes the average true range over period.
func ATR(highs, lows, closes []float64, period int) ([]float64, error) {
	if err := checkWindow(closes, period, period); err != nil {
		return nanSeries(len(closes)), err
	}
	return mask(talib.Atr(highs, lows, closes, period), period), nil
}

// Momentum returns close - close[n bars ago].
func Momentum(closes []float64, n int) ([]float64, error) {
	if err := checkWindow(closes, n, n); err != nil {
		return nanSeries(len(closes)), err
	}
	return mask(talib.Mom(closes, n), n), nil
}

// ROC returns the n-bar rate of change in percent.
func ROC(closes []float64, n int) ([]float64, error) {
	if err := checkWindow(closes, n, n); err != nil {
		return nanSeries(len(closes)), err
	}
	return mask(talib.Roc(closes, n), n), nil
}
