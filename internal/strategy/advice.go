package strategy

import (
	"fmt"

	"StockSentinel/internal/model"
)

const (
	lossThresholdPct     = -10.0
	profitThresholdPct   = 15.0
	dividendThresholdPct = 4.0
)

// UnrealizedPct returns the percent gain of price over averageCost, or 0 without a cost basis.
func UnrealizedPct(price, averageCost float64) float64 {
	if averageCost <= 0 {
		return 0
	}
	return (price - averageCost) * 100 / averageCost
}

// Advise maps position, overall signal, trend and dividend yield (percent)
// onto a recommendation. Rules are evaluated in order.
func Advise(pos model.Position, price float64, overall model.SignalKind, trend model.TrendKind, dividendYieldPct float64) model.Advice {
	buy := overall == model.SignalBuy
	sell := overall == model.SignalSell
	name := pos.Name
	if name == "" {
		name = pos.Symbol
	}

	if pos.Shares <= 0 {
		switch {
		case buy:
			return advice(model.ActionStartAccumulating, "Start accumulating", "buy signal, consider starting to accumulate %s", name)
		case sell:
			return advice(model.ActionWaitAndWatch, "Wait and watch", "sell signal, wait before entering %s", name)
		default:
			return advice(model.ActionHoldOff, "Hold off", "no clear signal, hold off on %s", name)
		}
	}

	pnl := UnrealizedPct(price, pos.AverageCost)
	switch {
	case pnl < lossThresholdPct:
		switch {
		case sell || trend.IsDown():
			return advice(model.ActionCutLoss, "Cut loss", "down %.1f%% with a sell signal or downtrend, consider cutting the loss", pnl)
		case buy:
			return advice(model.ActionAverageDown, "Average down", "down %.1f%% but the signal is buy, consider averaging down", pnl)
		default:
			return advice(model.ActionHoldForClarity, "Hold", "down %.1f%%, hold and wait for clarity", pnl)
		}
	case pnl > profitThresholdPct:
		switch {
		case sell:
			return advice(model.ActionTakeProfit, "Take profit", "up %.1f%% with a sell signal, consider taking profit", pnl)
		case buy && trend.IsUp():
			return advice(model.ActionHold, "Hold", "up %.1f%% and the uptrend is intact, keep holding", pnl)
		default:
			return advice(model.ActionSellPartial, "Sell partial", "up %.1f%%, consider selling part of the position", pnl)
		}
	default:
		switch {
		case buy:
			return advice(model.ActionAddPosition, "Add to position", "near cost (%+.1f%%) with a buy signal, consider adding", pnl)
		case sell:
			return advice(model.ActionSell, "Sell", "near cost (%+.1f%%) but the signal is sell, consider selling", pnl)
		case dividendYieldPct > dividendThresholdPct:
			return advice(model.ActionHoldForDividend, "Hold for dividend", "dividend yield %.1f%%, hold for the dividend", dividendYieldPct)
		default:
			return advice(model.ActionWaitAndObserve, "Wait and observe", "near cost (%+.1f%%), wait and observe", pnl)
		}
	}
}

func advice(action model.ActionKind, title, format string, args ...any) model.Advice {
	return model.Advice{Action: action, Title: title, Detail: fmt.Sprintf(format, args...)}
}
