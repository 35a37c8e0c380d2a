package calculator

import (
	"errors"
	"fmt"

	"StockSentinel/internal/model"

	"github.com/rs/zerolog"
)

// Engine turns bars into an IndicatorSeries. It holds no state besides
// its logger and is safe for concurrent use.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an Engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "calculator").Logger()}
}

// inputs are the bar columns shared by every step.
type inputs struct {
	high, low, close, volume []float64
}

// step computes one indicator family. outputs are pre-filled with NaN
// so a failing step still leaves well-formed series behind.
type step struct {
	name    string
	outputs []string
	fn      func(in inputs, out map[string][]float64) error
}

// Compute calculates every indicator over bars. One indicator failing
// never blocks the others: the failure is recorded in Status and logged.
func (e *Engine) Compute(bars []model.OHLCV) (*model.IndicatorSeries, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}
	in := inputs{
		high:   model.Highs(bars),
		low:    model.Lows(bars),
		close:  model.Closes(bars),
		volume: model.Volumes(bars),
	}
	s := model.NewIndicatorSeries(bars)
	for _, st := range steps {
		for _, name := range st.outputs {
			s.Values[name] = nanSeries(len(bars))
		}
		if err := e.run(st, in, s.Values); err != nil {
			for _, name := range st.outputs {
				s.Status[name] = err
			}
			if errors.Is(err, ErrInsufficientHistory) {
				e.log.Debug().Str("indicator", st.name).Err(err).Msg("indicator skipped")
			} else {
				e.log.Warn().Str("indicator", st.name).Err(err).Msg("indicator calculation failed")
			}
		}
	}
	return s, nil
}

func (e *Engine) run(st step, in inputs, out map[string][]float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: recovered: %v", st.name, r)
		}
	}()
	return st.fn(in, out)
}

func single(name string, calc func(in inputs) ([]float64, error)) step {
	return step{
		name:    name,
		outputs: []string{name},
		fn: func(in inputs, out map[string][]float64) error {
			v, err := calc(in)
			if v != nil {
				out[name] = v
			}
			return err
		},
	}
}

func closeBased(name string, f func([]float64, int) ([]float64, error), period int) step {
	return single(name, func(in inputs) ([]float64, error) { return f(in.close, period) })
}

var steps = []step{
	closeBased(model.RSI7, RSI, 7),
	closeBased(model.RSI14, RSI, 14),
	closeBased(model.RSI21, RSI, 21),

	closeBased(model.SMA5, SMA, 5),
	closeBased(model.SMA10, SMA, 10),
	closeBased(model.SMA20, SMA, 20),
	closeBased(model.SMA50, SMA, 50),
	closeBased(model.SMA100, SMA, 100),
	closeBased(model.SMA200, SMA, 200),

	closeBased(model.EMA5, EMA, 5),
	closeBased(model.EMA10, EMA, 10),
	closeBased(model.EMA20, EMA, 20),
	closeBased(model.EMA50, EMA, 50),

	{
		name:    "MACD",
		outputs: []string{model.MACD, model.MACDSignal, model.MACDHistogram},
		fn: func(in inputs, out map[string][]float64) error {
			res, err := MACD(in.close, 12, 26, 9)
			out[model.MACD], out[model.MACDSignal], out[model.MACDHistogram] = res.MACD, res.Signal, res.Histogram
			return err
		},
	},
	{
		name:    "Bollinger",
		outputs: []string{model.BBUpper, model.BBMiddle, model.BBLower, model.BBWidth, model.BBPosition},
		fn: func(in inputs, out map[string][]float64) error {
			res, err := Bollinger(in.close, 20, 2)
			out[model.BBUpper], out[model.BBMiddle], out[model.BBLower] = res.Upper, res.Middle, res.Lower
			out[model.BBWidth], out[model.BBPosition] = res.Width, res.Position
			return err
		},
	},

	single(model.VolumeSMA5, func(in inputs) ([]float64, error) { return SMA(in.volume, 5) }),
	{
		name:    "Volume_SMA_20",
		outputs: []string{model.VolumeSMA20, model.VolumeRatio},
		fn: func(in inputs, out map[string][]float64) error {
			avg, err := SMA(in.volume, 20)
			out[model.VolumeSMA20] = avg
			if err != nil {
				return err
			}
			out[model.VolumeRatio] = ratio(in.volume, avg)
			return nil
		},
	},
	single(model.VolumeChange, func(in inputs) ([]float64, error) { return PercentChange(in.volume, 1) }),

	single(model.Resistance20, func(in inputs) ([]float64, error) { return RollingHigh(in.high, 20) }),
	single(model.Resistance50, func(in inputs) ([]float64, error) { return RollingHigh(in.high, 50) }),
	single(model.Support20, func(in inputs) ([]float64, error) { return RollingLow(in.low, 20) }),
	single(model.Support50, func(in inputs) ([]float64, error) { return RollingLow(in.low, 50) }),

	closeBased(model.PriceChange1, PercentChange, 1),
	closeBased(model.PriceChange5, PercentChange, 5),
	closeBased(model.PriceChange10, PercentChange, 10),
	closeBased(model.PriceChange20, PercentChange, 20),

	closeBased(model.Volatility5, Volatility, 5),
	closeBased(model.Volatility20, Volatility, 20),

	{
		name:    "ADX",
		outputs: []string{model.ADX, model.PlusDI, model.MinusDI},
		fn: func(in inputs, out map[string][]float64) error {
			res, err := Directional(in.high, in.low, in.close, 14)
			out[model.ADX], out[model.PlusDI], out[model.MinusDI] = res.ADX, res.PlusDI, res.MinusDI
			return err
		},
	},
	{
		name:    "ATR",
		outputs: []string{model.ATR, model.ATRPct},
		fn: func(in inputs, out map[string][]float64) error {
			atr, err := ATR(in.high, in.low, in.close, 14)
			out[model.ATR] = atr
			if err != nil {
				return err
			}
			pct := ratio(atr, in.close)
			for i := range pct {
				pct[i] *= 100
			}
			out[model.ATRPct] = pct
			return nil
		},
	},
	{
		name:    "Stochastic",
		outputs: []string{model.StochK, model.StochD},
		fn: func(in inputs, out map[string][]float64) error {
			res, err := Stochastic(in.high, in.low, in.close, 14, 3)
			out[model.StochK], out[model.StochD] = res.K, res.D
			return err
		},
	},
	single(model.CCI, func(in inputs) ([]float64, error) { return CCI(in.high, in.low, in.close, 20) }),
	single(model.MFI, func(in inputs) ([]float64, error) { return MFI(in.high, in.low, in.close, in.volume, 14) }),
	single(model.OBV, func(in inputs) ([]float64, error) { return OBV(in.close, in.volume) }),
	single(model.OBVChange, func(in inputs) ([]float64, error) {
		obv, err := OBV(in.close, in.volume)
		if err != nil {
			return nil, err
		}
		return PercentChange(obv, 1)
	}),

	closeBased(model.Momentum5, Momentum, 5),
	closeBased(model.Momentum10, Momentum, 10),
	closeBased(model.Momentum20, Momentum, 20),
	closeBased(model.ROC5, ROC, 5),
	closeBased(model.ROC10, ROC, 10),
	closeBased(model.ROC20, ROC, 20),
}
