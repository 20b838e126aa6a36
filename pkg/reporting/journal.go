// Package reporting records dispatched trade plans for operators: a console
// rendering per signal and an optional Excel signal journal. It is a
// dispatch log, not outcome tracking.
package reporting

import "github.com/signalworks/smc-sniper-bot/internal/risk"

// Journal records a dispatched plan.
type Journal interface {
	Record(plan *risk.TradePlan) error
}

// MultiJournal fans a plan out to several journals. The first error is
// returned after all journals have been tried.
type MultiJournal []Journal

// Record implements Journal.
func (m MultiJournal) Record(plan *risk.TradePlan) error {
	var first error
	for _, j := range m {
		if err := j.Record(plan); err != nil && first == nil {
			first = err
		}
	}
	return first
}
