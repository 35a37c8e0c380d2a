package calculator

import (
	"github.com/markcheno/go-talib"
)

// StochasticResult holds the %K and %D lines.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes the fast %K over kPeriod and %D as its SMA over dPeriod.
// A flat range yields %K = 50.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (StochasticResult, error) {
	n := len(closes)
	res := StochasticResult{K: nanSeries(n), D: nanSeries(n)}

	hh, err := RollingHigh(highs, kPeriod)
	if err != nil {
		return res, err
	}
	ll, err := RollingLow(lows, kPeriod)
	if err != nil {
		return res, err
	}
	start := kPeriod - 1
	for i := start; i < n; i++ {
		if span := hh[i] - ll[i]; span != 0 {
			res.K[i] = (closes[i] - ll[i]) / span * 100
		} else {
			res.K[i] = 50
		}
	}

	d, err := SMA(res.K[start:], dPeriod)
	if err != nil {
		return res, err
	}
	copy(res.D[start:], d)
	return res, nil
}

// CCI computes the commodity channel index over period.
func CCI(highs, lows, closes []float64, period int) ([]float64, error) {
	if err := checkWindow(closes, period, period-1); err != nil {
		return nanSeries(len(closes)), err
	}
	return mask(talib.Cci(highs, lows, closes, period), period-1), nil
}

// MFI computes the money flow index over period.
func MFI(highs, lows, closes, volumes []float64, period int) ([]float64, error) {
	if err := checkWindow(closes, period, period); err != nil {
		return nanSeries(len(closes)), err
	}
	return mask(talib.Mfi(highs, lows, closes, volumes, period), period), nil
}

// OBV computes cumulative on-balance volume.
func OBV(closes, volumes []float64) ([]float64, error) {
	if len(closes) == 0 {
		return nil, ErrNoBars
	}
	return talib.Obv(closes, volumes), nil
}
