package notifications

import (
	"context"

	"github.com/signalworks/smc-sniper-bot/internal/risk"
)

// Notifier is the notification collaborator. Delivery failure is logged by
// the caller, never retried by the engine.
type Notifier interface {
	// SendAlert sends an operational alert with the given level.
	SendAlert(level, message string) error

	// SendPlan delivers a finalized trade plan with its human-readable
	// rendering.
	SendPlan(ctx context.Context, plan *risk.TradePlan) error
}
