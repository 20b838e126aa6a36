package indicators

import (
	"math"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/errors"
	"github.com/signalworks/smc-sniper-bot/pkg/types"
)

// Snapshot carries the trailing indicator values for the most recent bar of
// a price window. One snapshot set is produced per evaluation cycle and is
// derived solely from that cycle's window.
type Snapshot struct {
	Price         float64
	EMAFast       float64
	EMASlow       float64
	RSI           float64
	MACDLine      float64
	MACDSignal    float64
	MACDHistogram float64
	ATR           float64
}

// Compute derives a Snapshot from the price window. It returns
// errors.ErrInsufficientData when the window is shorter than the slow trend
// period; callers treat that as "skip this cycle", never as fatal.
func Compute(bars []types.PriceBar, eng config.Engine) (*Snapshot, error) {
	if len(bars) < eng.EMASlowPeriod {
		return nil, errors.ErrInsufficientData
	}

	closes := types.Closes(bars)
	last := len(bars) - 1

	emaFast := EMASeries(closes, eng.EMAFastPeriod)
	emaSlow := EMASeries(closes, eng.EMASlowPeriod)
	rsi := RSISeries(closes, eng.RSIPeriod)
	macd := MACDSeries(closes, eng.MACDFastPeriod, eng.MACDSlowPeriod, eng.MACDSignalPeriod)
	atr := ATRSeries(bars, eng.ATRPeriod)

	snap := &Snapshot{
		Price:         closes[last],
		EMAFast:       emaFast[last],
		EMASlow:       emaSlow[last],
		RSI:           rsi[last],
		MACDLine:      macd.Line[last],
		MACDSignal:    macd.Signal[last],
		MACDHistogram: macd.Histogram[last],
		ATR:           atr[last],
	}

	// The slow-period check above guarantees the trend EMAs; the MACD signal
	// line needs a few more bars past the slow seed before it is defined.
	if math.IsNaN(snap.EMASlow) || math.IsNaN(snap.RSI) ||
		math.IsNaN(snap.MACDSignal) || math.IsNaN(snap.ATR) {
		return nil, errors.ErrInsufficientData
	}
	return snap, nil
}
