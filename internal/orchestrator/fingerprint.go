package orchestrator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/risk"
)

// Fingerprint identifies the structural setup behind a plan: instrument,
// direction, the contributing event kinds and the structure-anchored stop
// rounded to the instrument's pip. Two cycles that see the same setup
// produce the same fingerprint, so the same recommendation is never
// dispatched twice.
func Fingerprint(plan *risk.TradePlan, inst config.Instrument) string {
	kinds := make([]string, len(plan.Kinds))
	for i, k := range plan.Kinds {
		kinds[i] = string(k)
	}
	sort.Strings(kinds)

	stop := plan.StopLoss
	if inst.PipSize > 0 {
		stop = math.Round(stop/inst.PipSize) * inst.PipSize
	}

	return fmt.Sprintf("%s|%s|%s|%.8g", plan.Symbol, plan.Direction, strings.Join(kinds, "+"), stop)
}
