package notifications

import (
	"fmt"
	"strings"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/risk"
	"github.com/signalworks/smc-sniper-bot/internal/structure"
)

// FormatPlanMessage renders a trade plan as a Telegram HTML message:
// entry, stop, staged take-profits with reward:risk, lot size, risk level
// and confidence.
func FormatPlanMessage(plan *risk.TradePlan, inst config.Instrument) string {
	directionLabel := "🟢 BUY"
	if plan.Direction == structure.Bearish {
		directionLabel = "🔴 SELL"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 <b>%s</b> %s %s\n\n", plan.Name, directionLabel, inst.Emoji)
	fmt.Fprintf(&b, "<b>Entry:</b> %s\n", formatPrice(plan.Entry, inst))
	fmt.Fprintf(&b, "<b>SL:</b> %s\n", formatPrice(plan.StopLoss, inst))
	for i, tp := range plan.TakeProfit {
		fmt.Fprintf(&b, "<b>TP%d:</b> %s (1:%.1f)\n", i+1, formatPrice(tp.Price, inst), tp.RewardRisk)
	}

	fmt.Fprintf(&b, "\n📊 <b>Lot Size:</b> %g (optimal) | 0.01 (safe)\n", plan.PositionSize)
	fmt.Fprintf(&b, "⚠️ <b>Risk:</b> %s | %.0f%% confidence\n", plan.Quality, plan.Confidence)
	fmt.Fprintf(&b, "📐 <b>Structure:</b> %s\n", joinKinds(plan.Kinds))
	fmt.Fprintf(&b, "⏰ <b>Time:</b> %s", plan.CreatedAt.UTC().Format("15:04 UTC"))

	return b.String()
}

func joinKinds(kinds []structure.EventKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, " + ")
}

// formatPrice renders a price with precision matching the instrument's pip
// size, five decimals at most.
func formatPrice(v float64, inst config.Instrument) string {
	decimals := 2
	switch {
	case inst.PipSize >= 0.1:
		decimals = 1
	case inst.PipSize >= 0.01:
		decimals = 2
	case inst.PipSize >= 0.001:
		decimals = 3
	default:
		decimals = 5
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
