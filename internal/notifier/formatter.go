package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockSentinel/internal/ledger"
	"StockSentinel/internal/model"
	"StockSentinel/internal/scanner"
	"StockSentinel/internal/strategy"
)

var modeTitles = map[scanner.Mode]string{
	scanner.ModeMomentum: "🚀 <b>Momentum scan</b>",
	scanner.ModeBreakout: "📈 <b>Breakout watch</b>",
	scanner.ModeRebound:  "🔄 <b>Rebound candidates</b>",
}

// FormatScan formats a ranked scan result into a Telegram message.
func FormatScan(mode scanner.Mode, candidates []scanner.Candidate, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s\n\n", modeTitles[mode], at.Format("2006-01-02 15:04"))
	if len(candidates) == 0 {
		b.WriteString("No candidates today.")
		return b.String()
	}

	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. <b>%s</b> %s @ %s\n", i+1, esc(c.Symbol), esc(c.Name), num(c.Price))
		switch mode {
		case scanner.ModeMomentum:
			fmt.Fprintf(&b, "   momentum %s%% | RSI %s | vol x%s | hold %s\n",
				num(c.Score), num(c.RSI), num(c.VolumeRatio), esc(c.HoldingPeriod))
			fmt.Fprintf(&b, "   T1 %s T2 %s SL %s\n", num(c.Target1), num(c.Target2), num(c.StopLoss))
		case scanner.ModeBreakout:
			fmt.Fprintf(&b, "   %s %s, %s%% away | RSI %s | vol x%s\n",
				esc(c.Tag), num(c.Level), num(c.DistancePct), num(c.RSI), num(c.VolumeRatio))
		case scanner.ModeRebound:
			fmt.Fprintf(&b, "   score %s | support %s | RSI %s\n", num(c.Score), num(c.Level), num(c.RSI))
		}
		if len(c.Reasons) > 0 {
			fmt.Fprintf(&b, "   %s\n", esc(strings.Join(c.Reasons, ", ")))
		}
	}
	return b.String()
}

// FormatPortfolio formats a ledger valuation.
func FormatPortfolio(sum ledger.Summary) string {
	var b strings.Builder
	b.WriteString("💼 <b>Portfolio</b>\n\n")
	if len(sum.Lines) == 0 && len(sum.Unpriced) == 0 {
		b.WriteString("No holdings.")
		return b.String()
	}
	for _, l := range sum.Lines {
		fmt.Fprintf(&b, "%s <b>%s</b> %g @ %.2f (cost %.2f) %+.2f%%\n",
			pnlIcon(l.PnL), esc(l.Symbol), l.Shares, l.Price, l.AverageCost, l.PnLPct)
	}
	if len(sum.Unpriced) > 0 {
		fmt.Fprintf(&b, "⚠️ unpriced: %s\n", esc(strings.Join(sum.Unpriced, ", ")))
	}
	b.WriteString("─────────────────\n")
	fmt.Fprintf(&b, "Value: %.2f | Cost: %.2f\n", sum.TotalValue, sum.TotalCost)
	fmt.Fprintf(&b, "P&amp;L: %+.2f (%+.2f%%)", sum.TotalPnL, sum.TotalPnLPct)
	return b.String()
}

// FormatAnalysis formats a single-symbol analysis, with advice when pos
// holds shares.
func FormatAnalysis(a *strategy.Analysis, pos *model.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 <b>%s</b> | %s\n\n", esc(a.Symbol), a.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Price: %s (%s%%)\n", num(a.Price), num(a.ChangePct))
	fmt.Fprintf(&b, "Trend: %s %s (ADX %s, %s)\n", a.Trend.Arrow, a.Trend.Kind, num(a.Trend.ADX), a.Trend.Strength)
	fmt.Fprintf(&b, "Alignment: %s\n\n", a.Alignment)

	for _, s := range a.RSI {
		writeSignal(&b, s)
	}
	writeSignal(&b, a.MACD)
	writeSignal(&b, a.Bollinger)
	writeSignal(&b, a.Volume.Signal)
	fmt.Fprintf(&b, "  20d: %s / %s\n", esc(a.Levels20.SupportLabel), esc(a.Levels20.ResistanceLabel))

	fmt.Fprintf(&b, "\n<b>Overall:</b> %s (%s)\n", a.Vote.Overall.Kind, esc(a.Vote.Overall.Label))
	if a.Dividend.HasDividend {
		fmt.Fprintf(&b, "Dividend yield: %.2f%%\n", a.Dividend.YieldPct)
	}
	for _, n := range a.Valuation {
		fmt.Fprintf(&b, "%s %s: %s\n", n.Metric, n.Value, n.Assessment)
	}

	if pos != nil {
		adv := a.Advise(*pos)
		b.WriteString("\n")
		b.WriteString(FormatAdvice(adv))
	}
	return b.String()
}

// FormatAdvice formats a recommendation.
func FormatAdvice(adv model.Advice) string {
	return fmt.Sprintf("💡 <b>%s</b>\n%s", esc(adv.Title), esc(adv.Detail))
}

func writeSignal(b *strings.Builder, s model.Signal) {
	fmt.Fprintf(b, "  %s: %s (%s)\n", s.Indicator, s.Kind, esc(s.Label))
}

func pnlIcon(pnl float64) string {
	if pnl >= 0 {
		return "🟢"
	}
	return "🔴"
}

func num(v float64) string {
	if !model.Valid(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func esc(s string) string { return html.EscapeString(s) }
