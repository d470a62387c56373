package notifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"SMACrossover/internal/model"
	"SMACrossover/internal/recorder"
)

var hundred = decimal.NewFromInt(100)

// Pct renders a fraction as a percentage rounded to two decimals, e.g. 0.08911 -> "8.91%".
// NaN and infinities render as "n/a".
func Pct(x float64) string {
	if !finite(x) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).Mul(hundred).StringFixed(2) + "%"
}

func level(o model.OptionalFloat) string {
	if !o.Valid || !finite(o.Value) {
		return "n/a"
	}
	return decimal.NewFromFloat(o.Value).StringFixed(2)
}

func finite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

// FormatReport formats a backtest result into a Telegram message.
func FormatReport(res *model.BacktestResult) string {
	var b strings.Builder
	s := res.Summary

	b.WriteString(fmt.Sprintf("📊 <b>SMA Crossover</b> | %s\n", res.Symbol))
	b.WriteString(fmt.Sprintf("Period: %s → %s (%d days)\n",
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"), s.ElapsedDays))
	b.WriteString(fmt.Sprintf("Windows: %d/%d | Periods/yr: %d\n\n",
		res.Params.ShortWindow, res.Params.LongWindow, res.Params.PeriodsPerYear))

	if n := len(res.Frame); n > 0 {
		last := res.Frame[n-1]
		state := "FLAT"
		if last.RawSignal {
			state = "LONG"
		}
		b.WriteString(fmt.Sprintf("Close: %s\n", level(model.OptionalFloat{Value: last.Close, Valid: true})))
		b.WriteString(fmt.Sprintf("SMA%d: %s | SMA%d: %s\n",
			res.Params.ShortWindow, level(last.SMAShort), res.Params.LongWindow, level(last.SMALong)))
		b.WriteString(fmt.Sprintf("Next session: %s\n\n", state))
	}

	b.WriteString("📈 <b>Strategy</b>\n")
	b.WriteString(fmt.Sprintf("  Total: %s | Annualized: %s\n", Pct(s.TotalReturn), Pct(s.AnnualizedReturn)))
	b.WriteString(fmt.Sprintf("  Max drawdown: %s\n", Pct(s.MaxDrawdown)))
	b.WriteString(fmt.Sprintf("  Exposure: %s | Trades: %d\n", Pct(s.Exposure), s.Trades))

	b.WriteString("📦 <b>Buy &amp; Hold</b>\n")
	b.WriteString(fmt.Sprintf("  Total: %s | Annualized: %s\n", Pct(s.BuyHoldTotalReturn), Pct(s.BuyHoldAnnualizedReturn)))
	b.WriteString(fmt.Sprintf("  Max drawdown: %s\n", Pct(s.BuyHoldMaxDrawdown)))

	return b.String()
}

// FormatRuns formats recently recorded runs, newest first.
func FormatRuns(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No recorded runs yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("#%d %s %d/%d %s: strat %s vs hold %s\n",
			r.ID, r.Symbol, r.Params.ShortWindow, r.Params.LongWindow,
			r.RecordedAt.Format("01-02 15:04"),
			Pct(r.Summary.TotalReturn), Pct(r.Summary.BuyHoldTotalReturn)))
	}
	return b.String()
}

// FormatError formats a failed run notification.
func FormatError(task string, err error) string {
	return fmt.Sprintf("⚠️ <b>%s failed</b>\n%v", task, err)
}
