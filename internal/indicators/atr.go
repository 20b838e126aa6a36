package indicators

import (
	"math"

	"github.com/signalworks/smc-sniper-bot/pkg/types"
)

// TrueRange returns the true range of a bar given the previous close:
// max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(bar types.PriceBar, prevClose float64) float64 {
	hl := bar.High - bar.Low
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

// ATRSeries computes the Average True Range as a simple rolling mean of the
// true range over period bars. The first bar's true range falls back to its
// high-low span. Indices before the window fills are NaN.
func ATRSeries(bars []types.PriceBar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) < period+1 {
		return out
	}

	tr := make([]float64, len(bars))
	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		tr[i] = TrueRange(bars[i], bars[i-1].Close)
	}

	for i := period; i < len(bars); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}
