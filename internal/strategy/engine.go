package strategy

import (
	"time"

	"StockSentinel/internal/model"
)

// VoteSet is the fixed indicator subset counted by Analyze.
var VoteSet = []string{model.RSI14, model.MACD, "Bollinger", model.VolumeRatio}

// Analysis is the classified state of one symbol at its latest bar.
type Analysis struct {
	Symbol      string
	Date        time.Time
	Price       float64
	ChangePct   float64
	RSI         []model.Signal // RSI_7, RSI_14, RSI_21
	MACD        model.Signal
	Bollinger   model.Signal
	Volume      VolumeReading
	Levels20    Proximity
	Levels50    Proximity
	Trend       Trend
	Alignment   Alignment
	Vote        Vote
	Dividend    DividendInfo
	Valuation   []FundamentalNote
	Fundamental *model.Fundamentals
}

// Overall returns the aggregated signal kind.
func (a *Analysis) Overall() model.SignalKind { return a.Vote.Overall.Kind }

// Analyze classifies the latest bar of s. It returns nil for an empty series.
func Analyze(symbol string, s *model.IndicatorSeries, f *model.Fundamentals) *Analysis {
	if s == nil || s.Len() == 0 {
		return nil
	}
	last := s.LastBar()
	a := &Analysis{
		Symbol:      symbol,
		Date:        last.Time,
		Price:       last.Close,
		ChangePct:   s.Latest(model.PriceChange1),
		Fundamental: f,
	}

	for _, name := range []string{model.RSI7, model.RSI14, model.RSI21} {
		a.RSI = append(a.RSI, ClassifyRSI(name, s.Latest(name)))
	}
	a.MACD = ClassifyMACD(MACDAt(s, s.Len()-2), MACDAt(s, s.Len()-1), false)
	a.Bollinger = ClassifyBollinger(last.Close, s.Latest(model.BBLower), s.Latest(model.BBUpper))
	a.Volume = ClassifyVolume(s.Latest(model.VolumeRatio), a.ChangePct)
	a.Levels20 = ClassifyProximity(last.Close, s.Latest(model.Support20), s.Latest(model.Resistance20))
	a.Levels50 = ClassifyProximity(last.Close, s.Latest(model.Support50), s.Latest(model.Resistance50))

	sma20, sma50, sma200 := s.Latest(model.SMA20), s.Latest(model.SMA50), s.Latest(model.SMA200)
	a.Trend = ClassifyTrend(last.Close, sma20, sma50, sma200,
		s.Latest(model.ADX), s.Latest(model.PlusDI), s.Latest(model.MinusDI))
	a.Alignment = ClassifyAlignment(last.Close, sma20, sma50, sma200)

	a.Vote = Aggregate(a.RSI[1], a.MACD, a.Bollinger, a.Volume.Signal)
	a.Dividend = NormalizeDividend(f)
	a.Valuation = SummarizeFundamentals(f)
	return a
}

// Advise produces a recommendation for position from this analysis.
func (a *Analysis) Advise(pos model.Position) model.Advice {
	return Advise(pos, a.Price, a.Overall(), a.Trend.Kind, a.Dividend.YieldPct)
}
