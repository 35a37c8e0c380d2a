package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	out, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2, out[2], 1e-9)
	assert.InDelta(t, 3, out[3], 1e-9)
	assert.InDelta(t, 4, out[4], 1e-9)
}

func TestSMA_InvalidPeriod(t *testing.T) {
	_, err := SMA([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestSMA_Insufficient(t *testing.T) {
	out, err := SMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	require.Len(t, out, 2)
	assert.True(t, math.IsNaN(out[1]))
}

func TestEMA_SeededWithSMA(t *testing.T) {
	out, err := EMA([]float64{2, 4, 6, 8}, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 4, out[2], 1e-9)
	// k = 2/(3+1) = 0.5
	assert.InDelta(t, 6, out[3], 1e-9)
}

func TestPercentChange_ZeroBase(t *testing.T) {
	out, err := PercentChange([]float64{0, 10, 11}, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 10, out[2], 1e-9)
}

func TestVolatility_ConstantReturnsIsZero(t *testing.T) {
	closes := make([]float64, 30)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.01
	}
	out, err := Volatility(closes, 20)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[19]))
	assert.InDelta(t, 0, out[29], 1e-6)
}

func TestVolatility_Annualized(t *testing.T) {
	// returns alternate +1% / -1%
	closes := []float64{100}
	for i := 1; i <= 6; i++ {
		if i%2 == 1 {
			closes = append(closes, closes[i-1]*1.01)
		} else {
			closes = append(closes, closes[i-1]*0.99)
		}
	}
	out, err := Volatility(closes, 5)
	require.NoError(t, err)
	v := out[len(out)-1]
	require.False(t, math.IsNaN(v))
	// five returns of +-1 around mean 0.2 or -0.2: sample std sqrt(1.2) for 3/2 split
	assert.InDelta(t, math.Sqrt(1.2)*math.Sqrt(252), v, 1e-6)
}

func TestStochastic_FlatRange(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 10
	}
	res, err := Stochastic(flat, flat, flat, 14, 3)
	require.NoError(t, err)
	assert.InDelta(t, 50, res.K[19], 1e-9)
	assert.InDelta(t, 50, res.D[19], 1e-9)
	assert.True(t, math.IsNaN(res.D[14]))
	assert.False(t, math.IsNaN(res.D[15]))
}
