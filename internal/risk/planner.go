// Package risk converts a qualifying confluence result into a
// volatility-aware, risk-bounded trade plan: structure-anchored stop,
// staged take-profits and a position size honoring the account risk budget.
package risk

import (
	"github.com/google/uuid"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/confluence"
	"github.com/signalworks/smc-sniper-bot/internal/errors"
	"github.com/signalworks/smc-sniper-bot/internal/indicators"
	"github.com/signalworks/smc-sniper-bot/internal/structure"
	"github.com/signalworks/smc-sniper-bot/pkg/types"
)

// Plan derives a TradePlan from a passing confluence result, the price
// window it was scored on, and the instrument configuration. It performs no
// I/O and holds no state: every output is a function of its inputs. It
// fails with errors.ErrNoValidRiskSetup when the nearest target's
// reward:risk falls below the configured minimum or the stop distance
// degenerates.
func Plan(
	res confluence.Result,
	events []structure.Event,
	snap *indicators.Snapshot,
	bars []types.PriceBar,
	inst config.Instrument,
	eng config.Engine,
) (*TradePlan, error) {
	if len(bars) == 0 || snap.ATR <= 0 {
		return nil, errors.ErrNoValidRiskSetup
	}

	entry := snap.Price
	atr := snap.ATR
	swings := structure.FindSwingPoints(bars, eng.SwingStrength)

	stop := placeStop(res.Direction, entry, atr, swings, events, inst, eng)

	riskDist := entry - stop
	if res.Direction == structure.Bearish {
		riskDist = stop - entry
	}
	if riskDist <= 0 {
		return nil, errors.ErrNoValidRiskSetup
	}

	targets := stageTargets(res.Direction, entry, riskDist, atr, swings, events, eng)
	if len(targets) == 0 || targets[0].RewardRisk < eng.MinRewardRisk {
		return nil, errors.ErrNoValidRiskSetup
	}

	plan := &TradePlan{
		ID:           uuid.NewString(),
		Symbol:       inst.Symbol,
		Name:         inst.Name,
		Direction:    res.Direction,
		Entry:        entry,
		StopLoss:     stop,
		TakeProfit:   targets,
		PositionSize: PositionSize(eng.AccountBalance, eng.RiskPercent, entry, stop, inst),
		Confidence:   res.Confidence,
		Quality:      qualityFor(res.Confidence, eng),
		Kinds:        res.Kinds,
		ATR:          atr,
		CreatedAt:    bars[len(bars)-1].Timestamp,
	}
	return plan, nil
}

// placeStop anchors the stop beyond the nearest structure level with an
// ATR-scaled buffer. The structure level may only tighten the stop: a level
// sitting farther out than the default ATR stop is ignored rather than
// widening the risk. Without a usable level the ATR stop stands alone;
// either way the stop distance never comes in tighter than the configured
// minimum ATR multiple.
func placeStop(
	dir structure.Direction,
	entry, atr float64,
	swings []structure.SwingPoint,
	events []structure.Event,
	inst config.Instrument,
	eng config.Engine,
) float64 {
	buffer := eng.StopBufferATR * atr
	fallback := eng.DefaultStopATR * inst.ATRMultiplier * atr
	minDist := eng.MinStopATR * atr

	if dir == structure.Bullish {
		stop := entry - fallback
		if support, ok := nearestSupport(entry, swings, events); ok {
			if s := support - buffer; s > stop {
				stop = s
			}
		}
		if entry-stop < minDist {
			stop = entry - minDist
		}
		return stop
	}

	stop := entry + fallback
	if resistance, ok := nearestResistance(entry, swings, events); ok {
		if s := resistance + buffer; s < stop {
			stop = s
		}
	}
	if stop-entry < minDist {
		stop = entry + minDist
	}
	return stop
}

// stageTargets lays out take-profits at increasing multiples of the
// realized risk distance. The nearest target respects opposing structure:
// when it would land past the nearest opposing level it is pulled back just
// in front of it, which can sink the plan at validation.
func stageTargets(
	dir structure.Direction,
	entry, riskDist, atr float64,
	swings []structure.SwingPoint,
	events []structure.Event,
	eng config.Engine,
) []TakeProfit {
	pullback := eng.TPCapATR * atr

	targets := make([]TakeProfit, 0, len(eng.TPMultiples))
	for i, mult := range eng.TPMultiples {
		price := entry + riskDist*mult
		rr := mult
		if dir == structure.Bearish {
			price = entry - riskDist*mult
		}

		// Only the nearest target is capped; a capped target's reward:risk
		// is recomputed from where it actually lands.
		if i == 0 && dir == structure.Bullish {
			if resistance, ok := nearestResistance(entry, swings, events); ok && price > resistance {
				price = resistance - pullback
				rr = (price - entry) / riskDist
			}
		}
		if i == 0 && dir == structure.Bearish {
			if support, ok := nearestSupport(entry, swings, events); ok && price < support {
				price = support + pullback
				rr = (entry - price) / riskDist
			}
		}

		targets = append(targets, TakeProfit{Price: price, RewardRisk: rr})
	}
	return targets
}

func qualityFor(confidence float64, eng config.Engine) Quality {
	switch {
	case confidence > eng.HighQualityLevel:
		return QualityHigh
	case confidence >= eng.ConfidenceThreshold:
		return QualityMedium
	default:
		return QualityLow
	}
}
