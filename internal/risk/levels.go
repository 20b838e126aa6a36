package risk

import (
	"github.com/signalworks/smc-sniper-bot/internal/structure"
)

// nearestSupport returns the highest level candidate strictly below entry,
// drawn from confirmed swing lows and bullish event zones.
func nearestSupport(entry float64, swings []structure.SwingPoint, events []structure.Event) (float64, bool) {
	best := 0.0
	found := false

	consider := func(level float64) {
		if level < entry && (!found || level > best) {
			best = level
			found = true
		}
	}

	for _, sw := range structure.Lows(swings) {
		consider(sw.Price)
	}
	for _, e := range events {
		if e.Direction != structure.Bullish {
			continue
		}
		if e.Kind == structure.OrderBlock || e.Kind == structure.FairValueGap {
			consider(e.ZoneLow)
		}
	}
	return best, found
}

// nearestResistance returns the lowest level candidate strictly above entry,
// drawn from confirmed swing highs and bearish event zones.
func nearestResistance(entry float64, swings []structure.SwingPoint, events []structure.Event) (float64, bool) {
	best := 0.0
	found := false

	consider := func(level float64) {
		if level > entry && (!found || level < best) {
			best = level
			found = true
		}
	}

	for _, sw := range structure.Highs(swings) {
		consider(sw.Price)
	}
	for _, e := range events {
		if e.Direction != structure.Bearish {
			continue
		}
		if e.Kind == structure.OrderBlock || e.Kind == structure.FairValueGap {
			consider(e.ZoneHigh)
		}
	}
	return best, found
}
