package model

// Fundamentals is a point-in-time snapshot of company metrics.
// Nil pointers mean the provider did not supply the field.
// DividendYield and PayoutRatio are raw provider values; see
// strategy.NormalizeDividend for the unit policy.
type Fundamentals struct {
	Name              string   `json:"name,omitempty"`
	Sector            string   `json:"sector,omitempty"`
	PE                *float64 `json:"pe,omitempty"`
	PB                *float64 `json:"pb,omitempty"`
	ROE               *float64 `json:"roe,omitempty"`
	ProfitMargin      *float64 `json:"profit_margin,omitempty"`
	DebtToEquity      *float64 `json:"debt_to_equity,omitempty"`
	DividendYield     *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio       *float64 `json:"payout_ratio,omitempty"`
	MarketCap         *float64 `json:"market_cap,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	High52w           *float64 `json:"high_52w,omitempty"`
	Low52w            *float64 `json:"low_52w,omitempty"`
	TargetPrice       *float64 `json:"target_price,omitempty"`
	RecommendationKey string   `json:"recommendation_key,omitempty"`
}

// Float returns a pointer to v, for building Fundamentals literals.
func Float(v float64) *float64 { return &v }

// Value dereferences p, returning 0 for a missing field.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
