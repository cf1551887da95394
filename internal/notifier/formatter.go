package notifier

import (
	"fmt"
	"html"
	"strings"

	"SMCSentinel/internal/model"
)

// maxZones caps how many zones a report message lists.
const maxZones = 6

var signalIcons = map[model.Signal]string{
	model.SignalStrongBuy:  "🟢🟢",
	model.SignalBuy:        "🟢",
	model.SignalNeutral:    "⚪",
	model.SignalSell:       "🔴",
	model.SignalStrongSell: "🔴🔴",
}

var trendLabels = map[model.Trend]string{
	model.TrendUp:      "📈 Uptrend",
	model.TrendDown:    "📉 Downtrend",
	model.TrendNeutral: "➖ Neutral",
}

// FormatReport formats an analysis report into a Telegram HTML message.
func FormatReport(r *model.Report) string {
	var b strings.Builder
	s := r.Summary

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> SMC | %s | %s UTC\n\n",
		html.EscapeString(r.Symbol), html.EscapeString(r.Interval), r.LastBarTime.UTC().Format("2006-01-02 15:04")))

	b.WriteString(fmt.Sprintf("Price: %s\n", formatPrice(s.CurrentPrice)))
	b.WriteString(fmt.Sprintf("Trend: %s\n", trendLabels[s.CurrentTrend]))
	b.WriteString(fmt.Sprintf("%s <b>%s</b> (score %+d)\n", signalIcons[r.Score.Signal], r.Score.Signal, r.Score.Score))
	b.WriteString(fmt.Sprintf("<i>%s</i>\n\n", html.EscapeString(r.Score.Interpretation)))

	b.WriteString("🧱 <b>Structure:</b>\n")
	b.WriteString(fmt.Sprintf("  Order blocks (20 bars): %d bull / %d bear\n", s.BullishOrderBlocks, s.BearishOrderBlocks))
	b.WriteString(fmt.Sprintf("  Fair value gaps (10 bars): %d bull / %d bear\n", s.BullishFVGs, s.BearishFVGs))
	b.WriteString(fmt.Sprintf("  MSB (5 bars): %d bull / %d bear\n", s.MSBBullishRecent, s.MSBBearishRecent))
	b.WriteString(fmt.Sprintf("  BoS (5 bars): %d bull / %d bear\n", s.BoSBullishRecent, s.BoSBearishRecent))
	b.WriteString(fmt.Sprintf("  Signals: %d bull / %d bear\n", s.BullishSignals, s.BearishSignals))

	if r.LastSwingHigh != nil || r.LastSwingLow != nil {
		b.WriteString("\n")
		if r.LastSwingHigh != nil {
			b.WriteString(fmt.Sprintf("Last swing high: %s\n", formatPrice(r.LastSwingHigh.Price)))
		}
		if r.LastSwingLow != nil {
			b.WriteString(fmt.Sprintf("Last swing low: %s\n", formatPrice(r.LastSwingLow.Price)))
		}
	}

	if len(r.Zones) > 0 {
		b.WriteString("\n🎯 <b>Zones:</b>\n")
		zones := r.Zones
		if len(zones) > maxZones {
			zones = zones[len(zones)-maxZones:]
		}
		for _, z := range zones {
			b.WriteString(fmt.Sprintf("  %s %s %s – %s @ %s\n",
				zoneLabel(z.Type), z.Direction, formatPrice(z.Low), formatPrice(z.High), z.Time.UTC().Format("01-02 15:04")))
		}
		if hidden := len(r.Zones) - len(zones); hidden > 0 {
			b.WriteString(fmt.Sprintf("  … %d more\n", hidden))
		}
	}

	return b.String()
}

// FormatSignalChange prefixes a report with the signal transition that triggered it.
func FormatSignalChange(prev model.Signal, r *model.Report) string {
	if prev == "" {
		return FormatReport(r)
	}
	return fmt.Sprintf("🔔 Signal changed: %s → <b>%s</b>\n\n%s", prev, r.Score.Signal, FormatReport(r))
}

// FormatHelp lists the bot commands.
func FormatHelp(symbols []string) string {
	var b strings.Builder
	b.WriteString("🤖 <b>SMCSentinel</b>\n\n")
	b.WriteString("/analyze [SYMBOL] - run the analysis now\n")
	b.WriteString("/symbols - list watched symbols\n")
	b.WriteString("/help - show this message\n")
	if len(symbols) > 0 {
		b.WriteString(fmt.Sprintf("\nWatching: %s\n", html.EscapeString(strings.Join(symbols, ", "))))
	}
	return b.String()
}

// FormatError formats a failed analysis for a command reply.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("⚠️ %s analysis failed: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

func zoneLabel(t model.ZoneType) string {
	if t == model.ZoneOrderBlock {
		return "OB"
	}
	return "FVG"
}

// formatPrice keeps more decimals for low priced instruments.
func formatPrice(p float64) string {
	switch {
	case p >= 1000:
		return fmt.Sprintf("%.2f", p)
	case p >= 1:
		return fmt.Sprintf("%.4f", p)
	default:
		return fmt.Sprintf("%.6f", p)
	}
}
