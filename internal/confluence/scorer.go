// Package confluence fuses market-structure events with traditional
// momentum indicators into a directional signal with a confidence score and
// a pass/fail quality gate.
package confluence

import (
	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/indicators"
	"github.com/signalworks/smc-sniper-bot/internal/structure"
)

// Result is the outcome of one confluence evaluation. Created fresh each
// cycle; consumed immediately by the risk planner or discarded.
type Result struct {
	Direction  structure.Direction
	Confidence float64 // 0-100
	Events     []structure.Event
	Kinds      []structure.EventKind

	EMAAligned  bool
	RSIAligned  bool
	MACDAligned bool

	Passed bool
	Reason string
}

// Score combines structure events and an indicator snapshot into a Result.
// It is a pure function: identical inputs always yield an identical Result,
// and no state is held between calls.
func Score(events []structure.Event, snap *indicators.Snapshot, eng config.Engine) Result {
	dir, ok := majorityDirection(events)
	if !ok {
		return Result{Reason: "no directional majority among structure events"}
	}

	aligned := structure.FilterDirection(events, dir)
	kinds := structure.DistinctKinds(aligned)

	res := Result{
		Direction: dir,
		Events:    aligned,
		Kinds:     kinds,
	}

	res.Confidence = eng.BaseConfidence
	if extra := len(aligned) - 1; extra > 0 {
		res.Confidence += float64(extra) * eng.EventIncrement
	}

	res.EMAAligned = emaAligned(dir, snap)
	if res.EMAAligned {
		res.Confidence += eng.EMABonus
	}

	res.RSIAligned = rsiAligned(dir, snap, eng.RSIMargin)
	if res.RSIAligned {
		res.Confidence += eng.RSIBonus
	}

	res.MACDAligned = macdAligned(dir, snap)
	if res.MACDAligned {
		res.Confidence += eng.MACDBonus
	}

	if res.Confidence > 100 {
		res.Confidence = 100
	}

	switch {
	case len(kinds) < 2:
		res.Reason = "fewer than two distinct structure kinds agree"
	case res.Confidence < eng.ConfidenceThreshold:
		res.Reason = "confidence below threshold"
	case rsiVeto(dir, snap, eng.RSIVetoLevel):
		res.Reason = "rsi strongly opposed"
	default:
		res.Passed = true
	}
	return res
}

// majorityDirection picks the direction held by more events; a tie means no
// signal.
func majorityDirection(events []structure.Event) (structure.Direction, bool) {
	bull, bear := 0, 0
	for _, e := range events {
		if e.Direction == structure.Bullish {
			bull++
		} else {
			bear++
		}
	}
	switch {
	case bull > bear:
		return structure.Bullish, true
	case bear > bull:
		return structure.Bearish, true
	default:
		return "", false
	}
}

// emaAligned checks the fast/slow trend ordering against the direction.
func emaAligned(dir structure.Direction, snap *indicators.Snapshot) bool {
	if dir == structure.Bullish {
		return snap.EMAFast > snap.EMASlow
	}
	return snap.EMAFast < snap.EMASlow
}

// rsiAligned wants momentum on the signal's side of 50 by at least margin,
// rather than the naive 30/70 extremes.
func rsiAligned(dir structure.Direction, snap *indicators.Snapshot, margin float64) bool {
	if dir == structure.Bullish {
		return snap.RSI > 50+margin
	}
	return snap.RSI < 50-margin
}

// macdAligned wants the MACD line on the signal's side of both its signal
// line and zero.
func macdAligned(dir structure.Direction, snap *indicators.Snapshot) bool {
	if dir == structure.Bullish {
		return snap.MACDLine > snap.MACDSignal && snap.MACDLine > 0
	}
	return snap.MACDLine < snap.MACDSignal && snap.MACDLine < 0
}

// rsiVeto rejects a direction when momentum sits firmly on the opposite
// side: an oversold reading against a bullish call or an overbought one
// against a bearish call.
func rsiVeto(dir structure.Direction, snap *indicators.Snapshot, vetoLevel float64) bool {
	if dir == structure.Bullish {
		return snap.RSI <= 50-vetoLevel
	}
	return snap.RSI >= 50+vetoLevel
}
