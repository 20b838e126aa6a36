package structure

import "github.com/signalworks/smc-sniper-bot/pkg/types"

// SwingKind distinguishes swing highs from swing lows.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a confirmed local extremum in the price window. Derived and
// recomputed each cycle, never persisted.
type SwingPoint struct {
	Index    int
	Price    float64
	Kind     SwingKind
	Strength int
}

// Trend is the prevailing market direction derived from the swing sequence.
// It is recomputed each cycle from the current window and never cached.
type Trend int

const (
	TrendNone Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "none"
	}
}

// FindSwingPoints scans bars for swing highs and lows. A bar is a swing high
// when its high strictly exceeds the highs of strength bars on each side;
// symmetric for swing lows. Points are returned in index order.
func FindSwingPoints(bars []types.PriceBar, strength int) []SwingPoint {
	if strength <= 0 || len(bars) < 2*strength+1 {
		return nil
	}

	var points []SwingPoint
	for i := strength; i < len(bars)-strength; i++ {
		isHigh := true
		isLow := true
		for j := i - strength; j <= i+strength; j++ {
			if j == i {
				continue
			}
			if bars[j].High >= bars[i].High {
				isHigh = false
			}
			if bars[j].Low <= bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			points = append(points, SwingPoint{Index: i, Price: bars[i].High, Kind: SwingHigh, Strength: strength})
		}
		if isLow {
			points = append(points, SwingPoint{Index: i, Price: bars[i].Low, Kind: SwingLow, Strength: strength})
		}
	}
	return points
}

// Highs filters the swing highs from points, preserving order.
func Highs(points []SwingPoint) []SwingPoint {
	var out []SwingPoint
	for _, p := range points {
		if p.Kind == SwingHigh {
			out = append(out, p)
		}
	}
	return out
}

// Lows filters the swing lows from points, preserving order.
func Lows(points []SwingPoint) []SwingPoint {
	var out []SwingPoint
	for _, p := range points {
		if p.Kind == SwingLow {
			out = append(out, p)
		}
	}
	return out
}

// DeriveTrend infers the prevailing trend from the swing sequence: higher
// highs with higher lows is an uptrend, lower highs with lower lows a
// downtrend, anything else no trend. Requires two swings of each kind.
func DeriveTrend(points []SwingPoint) Trend {
	highs := Highs(points)
	lows := Lows(points)
	if len(highs) < 2 || len(lows) < 2 {
		return TrendNone
	}

	hh := highs[len(highs)-1].Price > highs[len(highs)-2].Price
	hl := lows[len(lows)-1].Price > lows[len(lows)-2].Price
	lh := highs[len(highs)-1].Price < highs[len(highs)-2].Price
	ll := lows[len(lows)-1].Price < lows[len(lows)-2].Price

	switch {
	case hh && hl:
		return TrendUp
	case lh && ll:
		return TrendDown
	default:
		return TrendNone
	}
}
