package api

import (
	"time"

	"StockSentinel/internal/model"
	"StockSentinel/internal/scanner"
	"StockSentinel/internal/strategy"
)

// opt maps an undefined value to JSON null.
func opt(v float64) *float64 {
	if !model.Valid(v) {
		return nil
	}
	return &v
}

type trendDTO struct {
	Kind      model.TrendKind `json:"kind"`
	Score     int             `json:"score"`
	Strength  string          `json:"strength"`
	ADX       *float64        `json:"adx"`
	Direction string          `json:"direction"`
}

type volumeDTO struct {
	Ratio  *float64     `json:"ratio"`
	Level  string       `json:"level"`
	Signal model.Signal `json:"signal"`
}

type levelsDTO struct {
	Support           *float64 `json:"support"`
	Resistance        *float64 `json:"resistance"`
	SupportDistPct    *float64 `json:"support_dist_pct"`
	ResistanceDistPct *float64 `json:"resistance_dist_pct"`
	NearSupport       bool     `json:"near_support"`
	NearResistance    bool     `json:"near_resistance"`
}

type voteDTO struct {
	Buy     int          `json:"buy"`
	Sell    int          `json:"sell"`
	Others  int          `json:"others"`
	Unknown int          `json:"unknown"`
	Overall model.Signal `json:"overall"`
}

type analysisDTO struct {
	Symbol    string                     `json:"symbol"`
	Date      string                     `json:"date"`
	Price     *float64                   `json:"price"`
	ChangePct *float64                   `json:"change_pct"`
	RSI       []model.Signal             `json:"rsi"`
	MACD      model.Signal               `json:"macd"`
	Bollinger model.Signal               `json:"bollinger"`
	Volume    volumeDTO                  `json:"volume"`
	Levels20  levelsDTO                  `json:"levels_20"`
	Levels50  levelsDTO                  `json:"levels_50"`
	Trend     trendDTO                   `json:"trend"`
	Alignment strategy.Alignment         `json:"alignment"`
	Vote      voteDTO                    `json:"vote"`
	Dividend  strategy.DividendInfo      `json:"dividend"`
	Valuation []strategy.FundamentalNote `json:"valuation,omitempty"`
	Position  *model.Position            `json:"position,omitempty"`
	Advice    *model.Advice              `json:"advice,omitempty"`
}

func levels(p strategy.Proximity) levelsDTO {
	return levelsDTO{
		Support:           opt(p.Support),
		Resistance:        opt(p.Resistance),
		SupportDistPct:    opt(p.SupportDistPct),
		ResistanceDistPct: opt(p.ResistanceDistPct),
		NearSupport:       p.NearSupport,
		NearResistance:    p.NearResistance,
	}
}

func newAnalysisDTO(a *strategy.Analysis) analysisDTO {
	return analysisDTO{
		Symbol:    a.Symbol,
		Date:      a.Date.Format(time.DateOnly),
		Price:     opt(a.Price),
		ChangePct: opt(a.ChangePct),
		RSI:       a.RSI,
		MACD:      a.MACD,
		Bollinger: a.Bollinger,
		Volume: volumeDTO{
			Ratio:  opt(a.Volume.Ratio),
			Level:  a.Volume.Level,
			Signal: a.Volume.Signal,
		},
		Levels20: levels(a.Levels20),
		Levels50: levels(a.Levels50),
		Trend: trendDTO{
			Kind:      a.Trend.Kind,
			Score:     a.Trend.Score,
			Strength:  a.Trend.Strength,
			ADX:       opt(a.Trend.ADX),
			Direction: a.Trend.Direction,
		},
		Alignment: a.Alignment,
		Vote: voteDTO{
			Buy:     a.Vote.Buy,
			Sell:    a.Vote.Sell,
			Others:  a.Vote.Others,
			Unknown: a.Vote.Unknown,
			Overall: a.Vote.Overall,
		},
		Dividend:  a.Dividend,
		Valuation: a.Valuation,
	}
}

type adviceDTO struct {
	Symbol   string           `json:"symbol"`
	Price    *float64         `json:"price"`
	Position model.Position   `json:"position"`
	PnLPct   *float64         `json:"pnl_pct"`
	Overall  model.SignalKind `json:"overall"`
	Trend    model.TrendKind  `json:"trend"`
	Advice   model.Advice     `json:"advice"`
}

type candidateDTO struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	Score         *float64 `json:"score"`
	Tag           string   `json:"tag,omitempty"`
	Reasons       []string `json:"reasons,omitempty"`
	Level         *float64 `json:"level,omitempty"`
	DistancePct   *float64 `json:"distance_pct,omitempty"`
	Target1       *float64 `json:"target_1,omitempty"`
	Target2       *float64 `json:"target_2,omitempty"`
	StopLoss      *float64 `json:"stop_loss,omitempty"`
	HoldingPeriod string   `json:"holding_period,omitempty"`
	RSI           *float64 `json:"rsi"`
	VolumeRatio   *float64 `json:"volume_ratio"`
}

type scanDTO struct {
	Mode       scanner.Mode   `json:"mode"`
	RunID      string         `json:"run_id,omitempty"`
	Candidates []candidateDTO `json:"candidates"`
}

func newScanDTO(mode scanner.Mode, runID string, cs []scanner.Candidate) scanDTO {
	out := scanDTO{Mode: mode, RunID: runID, Candidates: make([]candidateDTO, len(cs))}
	for i, c := range cs {
		out.Candidates[i] = candidateDTO{
			Symbol:        c.Symbol,
			Name:          c.Name,
			Price:         opt(c.Price),
			Score:         opt(c.Score),
			Tag:           c.Tag,
			Reasons:       c.Reasons,
			Level:         opt(c.Level),
			DistancePct:   opt(c.DistancePct),
			Target1:       opt(c.Target1),
			Target2:       opt(c.Target2),
			StopLoss:      opt(c.StopLoss),
			HoldingPeriod: c.HoldingPeriod,
			RSI:           opt(c.RSI),
			VolumeRatio:   opt(c.VolumeRatio),
		}
	}
	return out
}

type transactionDTO struct {
	Date   string                `json:"date"`
	Shares float64               `json:"shares"`
	Price  float64               `json:"price"`
	Type   model.TransactionType `json:"type"`
}

// tradeRequest is the body of POST /portfolio/buy and /portfolio/sell.
type tradeRequest struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"` // YYYY-MM-DD, empty for today
}

type errorDTO struct {
	Error string `json:"error"`
}
