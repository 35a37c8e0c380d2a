package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
)

var (
	// ErrNoBars is returned by Compute for an empty bar sequence.
	ErrNoBars = errors.New("no bars provided")
	// ErrInsufficientHistory marks an indicator whose window exceeds the available bars.
	ErrInsufficientHistory = errors.New("insufficient history")
)

// SMA computes the simple moving average of values over period.
// Indices before the window is full are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if err := checkWindow(values, period, period-1); err != nil {
		return nanSeries(len(values)), err
	}
	return mask(talib.Sma(values, period), period-1), nil
}

// EMA computes the exponential moving average of values over period,
// seeded with the SMA of the first period values.
func EMA(values []float64, period int) ([]float64, error) {
	if err := checkWindow(values, period, period-1); err != nil {
		return nanSeries(len(values)), err
	}
	return mask(talib.Ema(values, period), period-1), nil
}

// checkWindow verifies that values holds more than lookback points.
func checkWindow(values []float64, period, lookback int) error {
	if period <= 0 {
		return errors.New("period must be positive")
	}
	if len(values) <= lookback {
		return fmt.Errorf("%w: need %d bars, have %d", ErrInsufficientHistory, lookback+1, len(values))
	}
	return nil
}

// mask blanks the first lookback entries of out, which talib leaves as zero.
func mask(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// ratio divides a by b element-wise, NaN where either side is undefined or b is zero.
func ratio(a, b []float64) []float64 {
	out := nanSeries(len(a))
	for i := range a {
		if i >= len(b) || math.IsNaN(a[i]) || math.IsNaN(b[i]) || b[i] == 0 {
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out
}
