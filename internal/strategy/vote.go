package strategy

import (
	"fmt"

	"StockSentinel/internal/model"
)

// Vote is the result of majority aggregation.
type Vote struct {
	Buy     int          `json:"buy"`
	Sell    int          `json:"sell"`
	Others  int          `json:"others"`
	Unknown int          `json:"unknown"`
	Overall model.Signal `json:"overall"`
}

// Aggregate counts Buy-tagged against Sell-tagged signals; the majority wins
// and a tie is Neutral. Weak and neutral signals count as Others, Unknown
// signals are excluded from the vote entirely.
func Aggregate(signals ...model.Signal) Vote {
	var v Vote
	for _, s := range signals {
		switch {
		case s.Kind == model.SignalUnknown || s.Kind == "":
			v.Unknown++
		case s.IsBuy():
			v.Buy++
		case s.IsSell():
			v.Sell++
		default:
			v.Others++
		}
	}

	v.Overall.Indicator = "Overall"
	switch {
	case v.Buy > v.Sell:
		v.Overall.Kind = model.SignalBuy
		v.Overall.Label = fmt.Sprintf("buy (%d buy vs %d sell)", v.Buy, v.Sell)
	case v.Sell > v.Buy:
		v.Overall.Kind = model.SignalSell
		v.Overall.Label = fmt.Sprintf("sell (%d sell vs %d buy)", v.Sell, v.Buy)
	default:
		v.Overall.Kind = model.SignalNeutral
		v.Overall.Label = "wait"
	}
	return v
}
