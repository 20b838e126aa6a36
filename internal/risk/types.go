package risk

import (
	"time"

	"github.com/signalworks/smc-sniper-bot/internal/structure"
)

// Quality labels a plan by the confidence band it came from.
type Quality string

const (
	QualityHigh   Quality = "HIGH"
	QualityMedium Quality = "MEDIUM"
	QualityLow    Quality = "LOW"
)

// TakeProfit is one staged target with its reward:risk from entry.
type TakeProfit struct {
	Price      float64
	RewardRisk float64
}

// TradePlan is a finalized, risk-bounded trade recommendation. Created once
// per qualifying cycle, handed to the dispatch collaborator and then
// discarded; the engine tracks no open-trade state.
type TradePlan struct {
	ID         string
	Symbol     string
	Name       string
	Direction  structure.Direction
	Entry      float64
	StopLoss   float64
	TakeProfit []TakeProfit

	PositionSize float64
	Confidence   float64
	Quality      Quality
	Kinds        []structure.EventKind
	ATR          float64
	CreatedAt    time.Time
}

// RewardRisk returns the plan's nearest-target reward:risk.
func (p *TradePlan) RewardRisk() float64 {
	if len(p.TakeProfit) == 0 {
		return 0
	}
	return p.TakeProfit[0].RewardRisk
}
