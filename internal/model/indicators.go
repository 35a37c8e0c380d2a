package model

import "math"

// Indicator names. Each maps to a series parallel to the bars.
const (
	RSI7  = "RSI_7"
	RSI14 = "RSI_14"
	RSI21 = "RSI_21"

	SMA5   = "SMA_5"
	SMA10  = "SMA_10"
	SMA20  = "SMA_20"
	SMA50  = "SMA_50"
	SMA100 = "SMA_100"
	SMA200 = "SMA_200"

	EMA5  = "EMA_5"
	EMA10 = "EMA_10"
	EMA20 = "EMA_20"
	EMA50 = "EMA_50"

	MACD          = "MACD"
	MACDSignal    = "MACD_Signal"
	MACDHistogram = "MACD_Histogram"

	BBUpper    = "BB_Upper"
	BBMiddle   = "BB_Middle"
	BBLower    = "BB_Lower"
	BBWidth    = "BB_Width"
	BBPosition = "BB_Position"

	VolumeSMA5   = "Volume_SMA_5"
	VolumeSMA20  = "Volume_SMA_20"
	VolumeRatio  = "Volume_Ratio"
	VolumeChange = "Volume_Change"

	Resistance20 = "Resistance_20"
	Resistance50 = "Resistance_50"
	Support20    = "Support_20"
	Support50    = "Support_50"

	PriceChange1  = "Price_Change_1"
	PriceChange5  = "Price_Change_5"
	PriceChange10 = "Price_Change_10"
	PriceChange20 = "Price_Change_20"

	Volatility5  = "Volatility_5"
	Volatility20 = "Volatility_20"

	ADX     = "ADX"
	PlusDI  = "Plus_DI"
	MinusDI = "Minus_DI"

	ATR    = "ATR"
	ATRPct = "ATR_Pct"

	StochK = "Stoch_K"
	StochD = "Stoch_D"

	CCI = "CCI"
	MFI = "MFI"

	OBV       = "OBV"
	OBVChange = "OBV_Change"

	Momentum5  = "Momentum_5"
	Momentum10 = "Momentum_10"
	Momentum20 = "Momentum_20"
	ROC5       = "ROC_5"
	ROC10      = "ROC_10"
	ROC20      = "ROC_20"
)

// IndicatorSeries holds derived series parallel-indexed to Bars.
// Undefined values are NaN. Status records why an indicator is
// missing or partially computed; absent keys mean success.
type IndicatorSeries struct {
	Bars   []OHLCV
	Values map[string][]float64
	Status map[string]error
}

// NewIndicatorSeries allocates an empty series over bars.
func NewIndicatorSeries(bars []OHLCV) *IndicatorSeries {
	return &IndicatorSeries{
		Bars:   bars,
		Values: make(map[string][]float64),
		Status: make(map[string]error),
	}
}

// Len returns the number of bars.
func (s *IndicatorSeries) Len() int { return len(s.Bars) }

// Get returns the named series, or nil if it was never computed.
func (s *IndicatorSeries) Get(name string) []float64 { return s.Values[name] }

// At returns the value of name at index i, NaN when undefined.
func (s *IndicatorSeries) At(name string, i int) float64 {
	v := s.Values[name]
	if i < 0 || i >= len(v) {
		return math.NaN()
	}
	return v[i]
}

// Latest returns the value of name at the last bar.
func (s *IndicatorSeries) Latest(name string) float64 { return s.At(name, s.Len()-1) }

// Previous returns the value of name at the bar before the last.
func (s *IndicatorSeries) Previous(name string) float64 { return s.At(name, s.Len()-2) }

// LastBar returns the most recent bar. It panics on an empty series.
func (s *IndicatorSeries) LastBar() OHLCV { return s.Bars[len(s.Bars)-1] }

// Valid reports whether v is a defined indicator value.
func Valid(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
