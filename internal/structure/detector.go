package structure

import (
	"math"
	"sort"

	"github.com/signalworks/smc-sniper-bot/pkg/types"
)

// Params tunes the structure detector. Zero values fall back to the
// defaults the scanner was calibrated with.
type Params struct {
	SwingStrength      int
	FVGThreshold       float64 // minimum gap size, in price units
	DisplacementFactor float64 // order block move vs average bar range
	MaxGaps            int     // most recent gaps reported
	OrderBlockLookback int     // bars scanned back from a swing for the block candle
	OrderBlockSwings   int     // recent swings considered per side
}

func (p Params) withDefaults() Params {
	if p.SwingStrength == 0 {
		p.SwingStrength = 5
	}
	if p.DisplacementFactor == 0 {
		p.DisplacementFactor = 1.5
	}
	if p.MaxGaps == 0 {
		p.MaxGaps = 5
	}
	if p.OrderBlockLookback == 0 {
		p.OrderBlockLookback = 10
	}
	if p.OrderBlockSwings == 0 {
		p.OrderBlockSwings = 3
	}
	return p
}

// Detect scans the price window for market-structure events. All events of
// all kinds found in the window are returned, most recent bar first. An
// empty result is a valid outcome, not an error.
func Detect(bars []types.PriceBar, params Params) []Event {
	params = params.withDefaults()
	if len(bars) < 2*params.SwingStrength+2 {
		return nil
	}

	swings := FindSwingPoints(bars, params.SwingStrength)
	trend := DeriveTrend(swings)

	var events []Event
	events = append(events, detectBreaks(bars, swings, trend)...)
	events = append(events, detectFairValueGaps(bars, params)...)
	events = append(events, detectOrderBlocks(bars, swings, params)...)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EndIndex > events[j].EndIndex
	})
	return events
}

// detectBreaks classifies a close beyond the most recent confirmed swing
// extreme. With the prevailing trend the break is a continuation (BOS);
// against it, a reversal (MSS). Without an established trend no break event
// fires, which keeps the two kinds mutually exclusive for any swing break.
func detectBreaks(bars []types.PriceBar, swings []SwingPoint, trend Trend) []Event {
	if trend == TrendNone {
		return nil
	}

	last := len(bars) - 1
	close := bars[last].Close
	highs := Highs(swings)
	lows := Lows(swings)

	var events []Event

	if len(highs) > 0 {
		level := highs[len(highs)-1]
		if close > level.Price {
			kind := BreakOfStructure
			if trend == TrendDown {
				kind = MarketStructureShift
			}
			events = append(events, Event{
				Kind:       kind,
				Direction:  Bullish,
				ZoneLow:    level.Price,
				ZoneHigh:   level.Price,
				StartIndex: level.Index,
				EndIndex:   last,
				Fresh:      firstBreakAbove(bars, level, last),
			})
		}
	}

	if len(lows) > 0 {
		level := lows[len(lows)-1]
		if close < level.Price {
			kind := BreakOfStructure
			if trend == TrendUp {
				kind = MarketStructureShift
			}
			events = append(events, Event{
				Kind:       kind,
				Direction:  Bearish,
				ZoneLow:    level.Price,
				ZoneHigh:   level.Price,
				StartIndex: level.Index,
				EndIndex:   last,
				Fresh:      firstBreakBelow(bars, level, last),
			})
		}
	}

	return events
}

// firstBreakAbove reports whether the latest bar is the first close beyond
// the swing level since the swing confirmed. An earlier break means the
// level is already spent and the event is stale.
func firstBreakAbove(bars []types.PriceBar, level SwingPoint, last int) bool {
	for i := level.Index + level.Strength + 1; i < last; i++ {
		if bars[i].Close > level.Price {
			return false
		}
	}
	return true
}

func firstBreakBelow(bars []types.PriceBar, level SwingPoint, last int) bool {
	for i := level.Index + level.Strength + 1; i < last; i++ {
		if bars[i].Close < level.Price {
			return false
		}
	}
	return true
}

// detectFairValueGaps finds three-bar imbalances: bar N's low above bar
// N-2's high (bullish) or bar N's high below bar N-2's low (bearish). The
// zone is the gap band. A gap stays fresh until later price trades back
// into it; fill status is recomputed from the window, never persisted.
func detectFairValueGaps(bars []types.PriceBar, params Params) []Event {
	var gaps []Event

	for i := 2; i < len(bars); i++ {
		if gap := bars[i].Low - bars[i-2].High; gap > params.FVGThreshold {
			gaps = append(gaps, Event{
				Kind:       FairValueGap,
				Direction:  Bullish,
				ZoneLow:    bars[i-2].High,
				ZoneHigh:   bars[i].Low,
				StartIndex: i - 2,
				EndIndex:   i,
				Fresh:      gapUnfilled(bars, i, bars[i-2].High, bars[i].Low, Bullish),
			})
		}
		if gap := bars[i-2].Low - bars[i].High; gap > params.FVGThreshold {
			gaps = append(gaps, Event{
				Kind:       FairValueGap,
				Direction:  Bearish,
				ZoneLow:    bars[i].High,
				ZoneHigh:   bars[i-2].Low,
				StartIndex: i - 2,
				EndIndex:   i,
				Fresh:      gapUnfilled(bars, i, bars[i].High, bars[i-2].Low, Bearish),
			})
		}
	}

	if len(gaps) > params.MaxGaps {
		gaps = gaps[len(gaps)-params.MaxGaps:]
	}
	return gaps
}

// gapUnfilled reports whether any bar after the gap's third bar has traded
// back into the zone.
func gapUnfilled(bars []types.PriceBar, gapEnd int, zoneLow, zoneHigh float64, dir Direction) bool {
	for j := gapEnd + 1; j < len(bars); j++ {
		if dir == Bullish && bars[j].Low <= zoneHigh {
			return false
		}
		if dir == Bearish && bars[j].High >= zoneLow {
			return false
		}
	}
	return true
}

// detectOrderBlocks finds the last opposite-direction candle before a strong
// directional move off a recent swing. The move must displace more than
// DisplacementFactor times the average bar range to count.
func detectOrderBlocks(bars []types.PriceBar, swings []SwingPoint, params Params) []Event {
	avgRange := averageRange(bars)
	if avgRange == 0 {
		return nil
	}

	var events []Event
	last := len(bars) - 1

	// Adjacent swings can resolve to the same block candle; emit it once.
	seen := make(map[int]bool)

	appendBlock := func(sw SwingPoint, wantBearishCandle bool) {
		lowBound := sw.Index - params.OrderBlockLookback
		if lowBound < 0 {
			lowBound = 0
		}
		for j := sw.Index - 1; j >= lowBound; j-- {
			candle := bars[j]
			if wantBearishCandle && !candle.Bearish() {
				continue
			}
			if !wantBearishCandle && !candle.Bullish() {
				continue
			}
			if seen[j] {
				return
			}
			if !displaced(bars, j, last, avgRange*params.DisplacementFactor) {
				return
			}
			seen[j] = true
			dir := Bullish
			fresh := bars[last].Close > candle.Low
			if !wantBearishCandle {
				dir = Bearish
				fresh = bars[last].Close < candle.High
			}
			events = append(events, Event{
				Kind:       OrderBlock,
				Direction:  dir,
				ZoneLow:    candle.Low,
				ZoneHigh:   candle.High,
				StartIndex: j,
				EndIndex:   j,
				Fresh:      fresh,
			})
			return
		}
	}

	lows := Lows(swings)
	if n := len(lows); n > params.OrderBlockSwings {
		lows = lows[n-params.OrderBlockSwings:]
	}
	for _, sw := range lows {
		appendBlock(sw, true) // bullish block: last down candle before the swing low
	}

	highs := Highs(swings)
	if n := len(highs); n > params.OrderBlockSwings {
		highs = highs[n-params.OrderBlockSwings:]
	}
	for _, sw := range highs {
		appendBlock(sw, false) // bearish block: last up candle before the swing high
	}

	return events
}

// displaced reports whether price moved more than threshold away from the
// block candle's close within the following bars.
func displaced(bars []types.PriceBar, from, last int, threshold float64) bool {
	end := from + 5
	if end > last {
		end = last
	}
	for j := from + 1; j <= end; j++ {
		if math.Abs(bars[j].Close-bars[from].Close) > threshold {
			return true
		}
	}
	return false
}

func averageRange(bars []types.PriceBar) float64 {
	if len(bars) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars {
		sum += b.Range()
	}
	return sum / float64(len(bars))
}
