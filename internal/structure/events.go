package structure

// EventKind is one of the four market-structure event classes.
type EventKind string

const (
	BreakOfStructure     EventKind = "BOS"
	MarketStructureShift EventKind = "MSS"
	FairValueGap         EventKind = "FVG"
	OrderBlock           EventKind = "ORDER_BLOCK"
)

// Direction is the directional bias of an event or signal.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
)

// Opposite returns the inverse direction.
func (d Direction) Opposite() Direction {
	if d == Bullish {
		return Bearish
	}
	return Bullish
}

// Event is a market-structure event derived from the current price window.
// Events are ephemeral: recomputed per cycle, never mutated after creation.
// For level events (BOS, MSS) ZoneLow equals ZoneHigh.
type Event struct {
	Kind       EventKind
	Direction  Direction
	ZoneLow    float64
	ZoneHigh   float64
	StartIndex int
	EndIndex   int
	// Fresh marks an event still actionable this cycle: a break triggered by
	// the latest bar, or a gap not yet traded back into.
	Fresh bool
}

// Level returns the single price level for level events, or the zone
// midpoint for band events.
func (e Event) Level() float64 {
	return (e.ZoneLow + e.ZoneHigh) / 2
}

// DistinctKinds returns the set of event kinds present in events.
func DistinctKinds(events []Event) []EventKind {
	seen := make(map[EventKind]bool, 4)
	var out []EventKind
	for _, e := range events {
		if !seen[e.Kind] {
			seen[e.Kind] = true
			out = append(out, e.Kind)
		}
	}
	return out
}

// FilterDirection returns the events matching dir, preserving order.
func FilterDirection(events []Event, dir Direction) []Event {
	var out []Event
	for _, e := range events {
		if e.Direction == dir {
			out = append(out, e)
		}
	}
	return out
}
