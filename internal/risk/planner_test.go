package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/confluence"
	"github.com/signalworks/smc-sniper-bot/internal/errors"
	"github.com/signalworks/smc-sniper-bot/internal/indicators"
	"github.com/signalworks/smc-sniper-bot/internal/structure"
	"github.com/signalworks/smc-sniper-bot/pkg/types"
)

func riskEngine() config.Engine {
	return config.Engine{
		SwingStrength:       2,
		StopBufferATR:       0.3,
		DefaultStopATR:      1.5,
		MinStopATR:          0.5,
		TPCapATR:            0.2,
		TPMultiples:         []float64{2.0, 2.5, 3.0},
		MinRewardRisk:       2.0,
		ConfidenceThreshold: 75,
		HighQualityLevel:    85,
		AccountBalance:      10000,
		RiskPercent:         1.0,
	}
}

func cryptoInstrument() config.Instrument {
	return config.Instrument{
		Symbol:        "BTCUSDT",
		Name:          "Bitcoin",
		AssetClass:    config.AssetCrypto,
		PipSize:       0.1,
		TickValue:     0.1,
		ATRMultiplier: 1.5,
	}
}

func barsWithHL(highs, lows []float64) []types.PriceBar {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(highs))
	for i := range bars {
		mid := (highs[i] + lows[i]) / 2
		bars[i] = types.PriceBar{
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:      mid,
			High:      highs[i],
			Low:       lows[i],
			Close:     mid,
		}
	}
	return bars
}

// supportBars has a single confirmed swing low at 96.5 and no swing highs.
func supportBars() []types.PriceBar {
	return barsWithHL(
		[]float64{99, 99, 98.5, 98, 98.5, 99, 99.5, 99.5, 99.5},
		[]float64{98, 97.5, 97, 96.5, 97, 97.5, 98, 98, 98},
	)
}

func bullishResult() confluence.Result {
	return confluence.Result{
		Direction:  structure.Bullish,
		Confidence: 90,
		Kinds:      []structure.EventKind{structure.BreakOfStructure, structure.FairValueGap},
		Passed:     true,
	}
}

func TestPlan_BullishStopAnchorsBelowSupport(t *testing.T) {
	bars := supportBars()
	snap := &indicators.Snapshot{Price: 100, ATR: 2}

	plan, err := Plan(bullishResult(), nil, snap, bars, cryptoInstrument(), riskEngine())
	require.NoError(t, err)

	// Support at the swing low 96.5 minus a 0.3*ATR buffer.
	assert.InDelta(t, 95.9, plan.StopLoss, 1e-9)
	assert.Less(t, plan.StopLoss, 96.5)

	require.Len(t, plan.TakeProfit, 3)
	risk := plan.Entry - plan.StopLoss
	assert.InDelta(t, plan.Entry+2.0*risk, plan.TakeProfit[0].Price, 1e-9)
	assert.InDelta(t, plan.Entry+2.5*risk, plan.TakeProfit[1].Price, 1e-9)
	assert.InDelta(t, plan.Entry+3.0*risk, plan.TakeProfit[2].Price, 1e-9)
	assert.GreaterOrEqual(t, plan.RewardRisk(), 2.0)

	assert.Equal(t, QualityHigh, plan.Quality)
	assert.Equal(t, bars[len(bars)-1].Timestamp, plan.CreatedAt)
	assert.NotEmpty(t, plan.ID)
}

func TestPlan_TargetCappedByResistanceFailsValidation(t *testing.T) {
	// Same support, but a confirmed swing high at 102 sits right above the
	// entry. TP1 gets pulled back in front of it and reward:risk collapses.
	bars := barsWithHL(
		[]float64{99, 99, 98.5, 98, 98.5, 99, 102, 99.5, 99.5},
		[]float64{98, 97.5, 97, 96.5, 97, 97.5, 98, 98, 98},
	)
	snap := &indicators.Snapshot{Price: 100, ATR: 2}

	_, err := Plan(bullishResult(), nil, snap, bars, cryptoInstrument(), riskEngine())
	assert.ErrorIs(t, err, errors.ErrNoValidRiskSetup)
}

func TestPlan_BearishStopAnchorsAboveResistance(t *testing.T) {
	bars := barsWithHL(
		[]float64{101, 102, 102.5, 103, 102, 101, 101, 101, 101},
		[]float64{99.5, 100.5, 101, 101.5, 100.5, 99.5, 99.5, 99.5, 99.5},
	)
	snap := &indicators.Snapshot{Price: 100, ATR: 2}
	res := confluence.Result{
		Direction:  structure.Bearish,
		Confidence: 80,
		Kinds:      []structure.EventKind{structure.MarketStructureShift, structure.OrderBlock},
		Passed:     true,
	}

	plan, err := Plan(res, nil, snap, bars, cryptoInstrument(), riskEngine())
	require.NoError(t, err)

	// Resistance at the swing high 103 plus the buffer.
	assert.InDelta(t, 103.6, plan.StopLoss, 1e-9)
	assert.Greater(t, plan.StopLoss, plan.Entry)
	assert.Less(t, plan.TakeProfit[0].Price, plan.Entry)
	assert.GreaterOrEqual(t, plan.RewardRisk(), 2.0)
	assert.Equal(t, QualityMedium, plan.Quality)
}

func TestPlan_DistantSupportDoesNotWidenStop(t *testing.T) {
	// The only confirmed swing low sits way down at 90. Anchoring there would
	// put the stop at 89.4, far past the ATR default; the structure level is
	// ignored and the default stop stands.
	bars := barsWithHL(
		[]float64{94, 93, 92.5, 92, 92.5, 93, 94, 94, 94},
		[]float64{93, 92, 91, 90, 91, 92, 93, 93, 93},
	)
	snap := &indicators.Snapshot{Price: 100, ATR: 2}

	plan, err := Plan(bullishResult(), nil, snap, bars, cryptoInstrument(), riskEngine())
	require.NoError(t, err)

	// 1.5 default * 1.5 instrument multiplier * ATR 2 = 4.5 below entry.
	assert.InDelta(t, 95.5, plan.StopLoss, 1e-9)
	assert.GreaterOrEqual(t, plan.RewardRisk(), 2.0)
}

func TestPlan_DistantResistanceDoesNotWidenStop(t *testing.T) {
	bars := barsWithHL(
		[]float64{107, 108, 109, 110, 109, 108, 107, 107, 107},
		[]float64{105.5, 106.5, 107.5, 108.5, 107.5, 106.5, 105.5, 105.5, 105.5},
	)
	snap := &indicators.Snapshot{Price: 100, ATR: 2}
	res := confluence.Result{
		Direction:  structure.Bearish,
		Confidence: 90,
		Kinds:      []structure.EventKind{structure.BreakOfStructure, structure.OrderBlock},
		Passed:     true,
	}

	plan, err := Plan(res, nil, snap, bars, cryptoInstrument(), riskEngine())
	require.NoError(t, err)
	assert.InDelta(t, 104.5, plan.StopLoss, 1e-9)
}

func TestPlan_FallsBackToATRStopWithoutStructure(t *testing.T) {
	// Too few bars for any swing to confirm: the stop falls back to the
	// instrument-scaled default ATR multiple.
	bars := barsWithHL([]float64{100.5, 100.5, 100.5}, []float64{99.5, 99.5, 99.5})
	snap := &indicators.Snapshot{Price: 100, ATR: 2}

	plan, err := Plan(bullishResult(), nil, snap, bars, cryptoInstrument(), riskEngine())
	require.NoError(t, err)

	// 1.5 default * 1.5 instrument multiplier * ATR 2 = 4.5 below entry.
	assert.InDelta(t, 95.5, plan.StopLoss, 1e-9)
}

func TestPlan_EventZonesServeAsLevels(t *testing.T) {
	// No swings, but a bullish order block below the entry anchors the stop
	// tighter than the ATR fallback.
	bars := barsWithHL([]float64{100.5, 100.5, 100.5}, []float64{99.5, 99.5, 99.5})
	snap := &indicators.Snapshot{Price: 100, ATR: 2}
	events := []structure.Event{
		{Kind: structure.OrderBlock, Direction: structure.Bullish, ZoneLow: 97, ZoneHigh: 98},
	}

	plan, err := Plan(bullishResult(), events, snap, bars, cryptoInstrument(), riskEngine())
	require.NoError(t, err)
	assert.InDelta(t, 96.4, plan.StopLoss, 1e-9)
}

func TestPlan_StopDistanceNeverBelowFloor(t *testing.T) {
	// Support a hair under the entry would make a degenerate stop; the
	// distance gets floored at MinStopATR * ATR.
	bars := barsWithHL(
		[]float64{100.2, 100.1, 100.0, 99.9, 100.0, 100.1, 100.2, 100.2, 100.2},
		[]float64{99.95, 99.9, 99.85, 99.8, 99.85, 99.9, 99.95, 99.95, 99.95},
	)
	snap := &indicators.Snapshot{Price: 100, ATR: 2}

	plan, err := Plan(bullishResult(), nil, snap, bars, cryptoInstrument(), riskEngine())
	require.NoError(t, err)
	assert.InDelta(t, 99.0, plan.StopLoss, 1e-9) // entry - 0.5*ATR
}

func TestPlan_ZeroATRFails(t *testing.T) {
	snap := &indicators.Snapshot{Price: 100, ATR: 0}
	_, err := Plan(bullishResult(), nil, snap, supportBars(), cryptoInstrument(), riskEngine())
	assert.ErrorIs(t, err, errors.ErrNoValidRiskSetup)
}

func TestPlan_EmptyWindowFails(t *testing.T) {
	snap := &indicators.Snapshot{Price: 100, ATR: 2}
	_, err := Plan(bullishResult(), nil, snap, nil, cryptoInstrument(), riskEngine())
	assert.ErrorIs(t, err, errors.ErrNoValidRiskSetup)
}

func TestPositionSize_ForexLots(t *testing.T) {
	inst := config.Instrument{
		Symbol:     "EURUSD",
		AssetClass: config.AssetForex,
		PipSize:    0.0001,
		TickValue:  10,
	}

	// 1% of 10k = 100 risked over a 50 pip stop at $10/pip/lot.
	size := PositionSize(10000, 1.0, 1.1000, 1.0950, inst)
	assert.InDelta(t, 0.2, size, 1e-9)
}

func TestPositionSize_ForexMinimumLot(t *testing.T) {
	inst := config.Instrument{
		AssetClass: config.AssetForex,
		PipSize:    0.0001,
		TickValue:  10,
	}

	// A very wide stop forces the size below a micro lot; clamp to 0.01.
	size := PositionSize(1000, 0.5, 1.1000, 1.0000, inst)
	assert.Equal(t, 0.01, size)
}

func TestPositionSize_CryptoUnits(t *testing.T) {
	size := PositionSize(10000, 1.0, 100, 95, cryptoInstrument())
	assert.InDelta(t, 20.0, size, 1e-9)
}

func TestPositionSize_DegenerateStop(t *testing.T) {
	size := PositionSize(10000, 1.0, 100, 100, cryptoInstrument())
	assert.Equal(t, 0.01, size)
}

func TestTradePlan_RewardRisk(t *testing.T) {
	plan := &TradePlan{}
	assert.Equal(t, 0.0, plan.RewardRisk())

	plan.TakeProfit = []TakeProfit{{Price: 110, RewardRisk: 2.0}}
	assert.Equal(t, 2.0, plan.RewardRisk())
}
