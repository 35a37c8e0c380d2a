package model

// SignalKind is the discrete outcome of a classifier.
type SignalKind string

const (
	SignalBuy      SignalKind = "BUY"
	SignalWeakBuy  SignalKind = "WEAK_BUY"
	SignalNeutral  SignalKind = "NEUTRAL"
	SignalWeakSell SignalKind = "WEAK_SELL"
	SignalSell     SignalKind = "SELL"
	SignalUnknown  SignalKind = "UNKNOWN"
)

// Signal is a classifier result with a human-readable description.
// Signals are always recomputed from an IndicatorSeries, never stored.
type Signal struct {
	Indicator string     `json:"indicator"`
	Kind      SignalKind `json:"kind"`
	Label     string     `json:"label"`
}

// IsBuy reports whether the signal is buy-tagged for majority voting.
func (s Signal) IsBuy() bool { return s.Kind == SignalBuy }

// IsSell reports whether the signal is sell-tagged for majority voting.
func (s Signal) IsSell() bool { return s.Kind == SignalSell }

// TrendKind is the five-way trend classification.
type TrendKind string

const (
	TrendStrongUp   TrendKind = "STRONG_UPTREND"
	TrendWeakUp     TrendKind = "WEAK_UPTREND"
	TrendSideways   TrendKind = "SIDEWAYS"
	TrendWeakDown   TrendKind = "WEAK_DOWNTREND"
	TrendStrongDown TrendKind = "STRONG_DOWNTREND"
	TrendUnknown    TrendKind = "UNKNOWN"
)

// IsUp reports whether the trend points upward.
func (t TrendKind) IsUp() bool { return t == TrendStrongUp || t == TrendWeakUp }

// IsDown reports whether the trend points downward.
func (t TrendKind) IsDown() bool { return t == TrendStrongDown || t == TrendWeakDown }

// ActionKind is the recommendation produced by the advice engine.
type ActionKind string

const (
	ActionStartAccumulating ActionKind = "START_ACCUMULATING"
	ActionWaitAndWatch      ActionKind = "WAIT_AND_WATCH"
	ActionHoldOff           ActionKind = "HOLD_OFF"
	ActionCutLoss           ActionKind = "CUT_LOSS"
	ActionAverageDown       ActionKind = "AVERAGE_DOWN"
	ActionHoldForClarity    ActionKind = "HOLD_FOR_CLARITY"
	ActionTakeProfit        ActionKind = "TAKE_PROFIT"
	ActionHold              ActionKind = "HOLD"
	ActionSellPartial       ActionKind = "SELL_PARTIAL"
	ActionAddPosition       ActionKind = "ADD_TO_POSITION"
	ActionSell              ActionKind = "SELL"
	ActionHoldForDividend   ActionKind = "HOLD_FOR_DIVIDEND"
	ActionWaitAndObserve    ActionKind = "WAIT_AND_OBSERVE"
)

// Advice is the final output of the advice engine.
type Advice struct {
	Action ActionKind `json:"action"`
	Title  string     `json:"title"`
	Detail string     `json:"detail"`
}
