package types

import "time"

// PriceBar is a single OHLCV bar. Bars arrive time-ordered with strictly
// increasing timestamps and are never mutated after the data layer hands
// them over.
type PriceBar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Bullish reports whether the bar closed above its open.
func (b PriceBar) Bullish() bool {
	return b.Close > b.Open
}

// Bearish reports whether the bar closed below its open.
func (b PriceBar) Bearish() bool {
	return b.Close < b.Open
}

// Range returns the high-low span of the bar.
func (b PriceBar) Range() float64 {
	return b.High - b.Low
}

// Closes extracts the close series from a bar slice.
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
