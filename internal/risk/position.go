package risk

import (
	"math"

	"github.com/signalworks/smc-sniper-bot/internal/config"
)

// PositionSize converts a fixed account-risk percentage and the stop
// distance into instrument-appropriate lot units. Forex sizes in standard
// lots through the pip value; other asset classes size in units of the
// instrument. Never returns less than the 0.01 minimum lot.
func PositionSize(balance, riskPercent, entry, stop float64, inst config.Instrument) float64 {
	riskAmount := balance * riskPercent / 100
	perUnit := math.Abs(entry - stop)
	if perUnit == 0 || riskAmount <= 0 {
		return 0.01
	}

	var size float64
	if inst.AssetClass == config.AssetForex {
		pips := perUnit / inst.PipSize
		if pips == 0 {
			return 0.01
		}
		lots := riskAmount / (pips * inst.TickValue)
		switch {
		case lots >= 1.0:
			size = roundTo(lots, 1)
		case lots >= 0.1:
			size = roundTo(lots, 2)
		default:
			size = 0.01
		}
	} else {
		size = roundTo(riskAmount/perUnit, 4)
	}

	if size < 0.01 {
		return 0.01
	}
	return size
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
