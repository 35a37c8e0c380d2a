package ledger

import (
	"context"

	"StockSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// PriceLookup resolves current prices for a batch of symbols. Symbols it
// cannot price are simply absent from the result.
type PriceLookup interface {
	Prices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// PriceLookupFunc adapts a function to PriceLookup.
type PriceLookupFunc func(ctx context.Context, symbols []string) (map[string]float64, error)

func (f PriceLookupFunc) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	return f(ctx, symbols)
}

// Line is the valuation of one held symbol.
type Line struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Shares       float64 `json:"shares"`
	AverageCost  float64 `json:"average_cost"`
	Price        float64 `json:"price"`
	CurrentValue float64 `json:"current_value"`
	CostValue    float64 `json:"cost_value"`
	PnL          float64 `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"`
}

// Summary values the portfolio. Symbols without a usable price are listed
// in Unpriced and kept out of the totals.
type Summary struct {
	Lines       []Line   `json:"lines"`
	Unpriced    []string `json:"unpriced,omitempty"`
	TotalValue  float64  `json:"total_value"`
	TotalCost   float64  `json:"total_cost"`
	TotalPnL    float64  `json:"total_pnl"`
	TotalPnLPct float64  `json:"total_pnl_pct"`
}

var hundred = decimal.NewFromInt(100)

// Summary values every held symbol at the prices returned by lookup.
// A lookup error is logged and whatever prices it returned are used.
func (l *Ledger) Summary(ctx context.Context, lookup PriceLookup) Summary {
	held := l.Holdings()
	sum := Summary{Lines: make([]Line, 0, len(held))}
	if len(held) == 0 {
		return sum
	}

	symbols := make([]string, len(held))
	for i, p := range held {
		symbols[i] = p.Symbol
	}
	prices, err := lookup.Prices(ctx, symbols)
	if err != nil {
		l.log.Warn().Err(err).Msg("price lookup failed")
	}

	totalValue, totalCost := decimal.Zero, decimal.Zero
	for _, p := range held {
		price, ok := prices[p.Symbol]
		if !ok || !model.Valid(price) || price <= 0 {
			sum.Unpriced = append(sum.Unpriced, p.Symbol)
			continue
		}
		shares := decimal.NewFromFloat(p.Shares)
		value := shares.Mul(decimal.NewFromFloat(price))
		cost := shares.Mul(decimal.NewFromFloat(p.AverageCost))
		pnl := value.Sub(cost)

		sum.Lines = append(sum.Lines, Line{
			Symbol:       p.Symbol,
			Name:         p.Name,
			Shares:       p.Shares,
			AverageCost:  round2(decimal.NewFromFloat(p.AverageCost)),
			Price:        price,
			CurrentValue: round2(value),
			CostValue:    round2(cost),
			PnL:          round2(pnl),
			PnLPct:       round2(percent(pnl, cost)),
		})
		totalValue = totalValue.Add(value)
		totalCost = totalCost.Add(cost)
	}

	totalPnL := totalValue.Sub(totalCost)
	sum.TotalValue = round2(totalValue)
	sum.TotalCost = round2(totalCost)
	sum.TotalPnL = round2(totalPnL)
	sum.TotalPnLPct = round2(percent(totalPnL, totalCost))
	return sum
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
