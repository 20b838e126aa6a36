package indicators

import "math"

// MACDResult holds the three aligned MACD series.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACDSeries computes MACD from a close series: line = EMA(fast) - EMA(slow),
// signal = EMA(signalPeriod) of the line, histogram = line - signal. Indices
// before the respective seeds are NaN.
func MACDSeries(values []float64, fast, slow, signal int) MACDResult {
	n := len(values)
	res := MACDResult{
		Line:      nanSlice(n),
		Signal:    nanSlice(n),
		Histogram: nanSlice(n),
	}
	if n < slow {
		return res
	}

	fastEMA := EMASeries(values, fast)
	slowEMA := EMASeries(values, slow)

	// The line is defined from the slow seed onward.
	start := slow - 1
	line := make([]float64, 0, n-start)
	for i := start; i < n; i++ {
		v := fastEMA[i] - slowEMA[i]
		res.Line[i] = v
		line = append(line, v)
	}

	sig := EMASeries(line, signal)
	for i, v := range sig {
		idx := start + i
		res.Signal[idx] = v
		if !math.IsNaN(v) {
			res.Histogram[idx] = res.Line[idx] - v
		}
	}
	return res
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
