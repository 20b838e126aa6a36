// Package orchestrator drives the per-instrument evaluation cycle: fetch a
// price window, run indicators, structure detection, confluence scoring and
// risk planning in order, and dispatch qualifying plans exactly once per
// structural setup.
package orchestrator

import (
	"context"
	gerrors "errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/confluence"
	"github.com/signalworks/smc-sniper-bot/internal/errors"
	"github.com/signalworks/smc-sniper-bot/internal/indicators"
	"github.com/signalworks/smc-sniper-bot/internal/monitoring"
	"github.com/signalworks/smc-sniper-bot/internal/risk"
	"github.com/signalworks/smc-sniper-bot/internal/structure"
	"github.com/signalworks/smc-sniper-bot/pkg/types"
)

// MarketData supplies an ordered price window for an instrument. Fewer bars
// than the engine needs is a skip condition for the caller, not an error
// here.
type MarketData interface {
	GetBars(ctx context.Context, symbol string, limit int) ([]types.PriceBar, error)
}

// Dispatcher delivers a finalized trade plan to the notification channel.
type Dispatcher interface {
	SendPlan(ctx context.Context, plan *risk.TradePlan) error
}

// Journal records dispatched plans for operators. Failures are logged by
// the orchestrator, never retried.
type Journal interface {
	Record(plan *risk.TradePlan) error
}

// State is the per-instrument dedup state.
type State int

const (
	StateIdle State = iota
	StateSignaled
)

// slot is the only mutable state crossing cycles for an instrument. Each
// slot is owned exclusively by its instrument's place in the sequential
// driver loop; nothing else reads or writes it.
type slot struct {
	state         State
	fingerprint   string
	lastDirection structure.Direction
	lastAt        time.Time
}

// Orchestrator runs the signal pipeline for a fixed set of instruments on a
// fixed interval.
type Orchestrator struct {
	cfg      *config.Config
	data     MarketData
	notifier Dispatcher
	journal  Journal
	health   *monitoring.HealthChecker
	logger   zerolog.Logger

	slots map[string]*slot
	now   func() time.Time
}

// New creates an orchestrator. journal and health may be nil.
func New(cfg *config.Config, data MarketData, notifier Dispatcher, journal Journal, health *monitoring.HealthChecker, logger zerolog.Logger) *Orchestrator {
	slots := make(map[string]*slot, len(cfg.Instruments))
	for _, inst := range cfg.Instruments {
		slots[inst.Symbol] = &slot{}
	}
	return &Orchestrator{
		cfg:      cfg,
		data:     data,
		notifier: notifier,
		journal:  journal,
		health:   health,
		logger:   logger,
		slots:    slots,
		now:      time.Now,
	}
}

// Run drives evaluation cycles until ctx is cancelled. The first cycle runs
// immediately, subsequent ones on the configured interval.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.Engine.Interval)
	defer ticker.Stop()

	o.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			o.logger.Info().Msg("orchestrator stopped")
			return
		case <-ticker.C:
			o.RunCycle(ctx)
		}
	}
}

// RunCycle evaluates every instrument once, sequentially. A failing
// instrument never aborts the cycle for the others.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	o.logger.Debug().Msg("starting evaluation cycle")
	for _, inst := range o.cfg.Instruments {
		if ctx.Err() != nil {
			return
		}
		o.ProcessInstrument(ctx, inst)
	}
	if o.health != nil {
		o.health.MarkCycle(o.now())
	}
	monitoring.RecordCycle()
	o.logger.Debug().Msg("evaluation cycle completed")
}

// ProcessInstrument runs one full pipeline pass for one instrument and
// dispatches the plan if it survives deduplication. All engine skip
// conditions and collaborator failures are absorbed here.
func (o *Orchestrator) ProcessInstrument(ctx context.Context, inst config.Instrument) {
	log := o.logger.With().Str("symbol", inst.Symbol).Logger()
	sl := o.slots[inst.Symbol]

	plan, err := o.EvaluateInstrument(ctx, inst)
	if err != nil {
		var collab *errors.CollaboratorError
		switch {
		case errors.IsSkip(err):
			// The qualifying condition is gone; the slot re-arms so the next
			// distinct setup can fire.
			sl.state = StateIdle
			sl.fingerprint = ""
			monitoring.RecordSkip(inst.Symbol, errors.SkipReason(err))
			log.Debug().Str("reason", errors.SkipReason(err)).Msg("instrument skipped this cycle")
		case gerrors.As(err, &collab):
			monitoring.RecordError(collab.Component)
			if o.health != nil {
				o.health.AddError(collab.Error())
			}
			log.Error().Err(collab.Underlying).Str("component", collab.Component).Str("operation", collab.Operation).Msg("collaborator failure, skipping instrument")
		default:
			monitoring.RecordError("pipeline")
			if o.health != nil {
				o.health.AddError(err.Error())
			}
			log.Error().Err(err).Msg("pipeline failure, skipping instrument")
		}
		return
	}

	fp := Fingerprint(plan, inst)
	now := o.now()

	if sl.state == StateSignaled && sl.fingerprint == fp {
		log.Debug().Str("fingerprint", fp).Msg("duplicate setup suppressed")
		return
	}
	if sl.lastDirection == plan.Direction && !sl.lastAt.IsZero() && now.Sub(sl.lastAt) < o.cfg.Engine.SignalCooldown {
		log.Debug().Str("direction", string(plan.Direction)).Msg("same-direction signal inside cooldown, suppressed")
		return
	}

	if err := o.notifier.SendPlan(ctx, plan); err != nil {
		monitoring.RecordError("dispatch")
		if o.health != nil {
			o.health.AddError(err.Error())
		}
		log.Error().Err(err).Msg("plan dispatch failed")
		return
	}

	sl.state = StateSignaled
	sl.fingerprint = fp
	sl.lastDirection = plan.Direction
	sl.lastAt = now

	monitoring.RecordSignal(inst.Symbol, string(plan.Direction), plan.Confidence)
	if o.health != nil {
		o.health.RecordSignal(now)
	}
	if o.journal != nil {
		if err := o.journal.Record(plan); err != nil {
			log.Warn().Err(err).Msg("journal write failed")
		}
	}

	log.Info().
		Str("direction", string(plan.Direction)).
		Float64("entry", plan.Entry).
		Float64("stop", plan.StopLoss).
		Float64("confidence", plan.Confidence).
		Str("quality", string(plan.Quality)).
		Msg("trade plan dispatched")
}

// EvaluateInstrument runs stages one through four of the pipeline and
// returns either a finalized plan or a tagged error describing why this
// cycle produced none.
func (o *Orchestrator) EvaluateInstrument(ctx context.Context, inst config.Instrument) (*risk.TradePlan, error) {
	eng := o.cfg.Engine

	bars, err := o.data.GetBars(ctx, inst.Symbol, eng.WindowSize)
	if err != nil {
		return nil, errors.NewCollaboratorError("marketdata", "GetBars", err)
	}
	if len(bars) < eng.EMASlowPeriod {
		return nil, errors.ErrInsufficientData
	}

	monitoring.UpdatePrice(inst.Symbol, bars[len(bars)-1].Close)

	if tooVolatile(bars, inst, eng) {
		return nil, errors.ErrVolatileMarket
	}

	snap, err := indicators.Compute(bars, eng)
	if err != nil {
		return nil, err
	}

	events := structure.Detect(bars, structure.Params{
		SwingStrength:      eng.SwingStrength,
		FVGThreshold:       inst.FVGThreshold,
		DisplacementFactor: eng.DisplacementFactor,
	})

	// Only fresh events argue for a new entry; spent breaks and filled gaps
	// still serve as level candidates for the risk planner below.
	var fresh []structure.Event
	for _, e := range events {
		if e.Fresh {
			fresh = append(fresh, e)
		}
	}

	res := confluence.Score(fresh, snap, eng)
	if !res.Passed {
		return nil, errors.ErrNoSignal
	}

	return risk.Plan(res, events, snap, bars, inst, eng)
}

// tooVolatile guards against choppy windows: the standard deviation of the
// trailing close-to-close returns must stay under the instrument's asset
// class threshold.
func tooVolatile(bars []types.PriceBar, inst config.Instrument, eng config.Engine) bool {
	lookback := eng.VolatilityLookback
	if lookback < 2 || len(bars) < lookback+1 {
		return false
	}

	tail := bars[len(bars)-lookback-1:]
	returns := make([]float64, 0, lookback)
	for i := 1; i < len(tail); i++ {
		if tail[i-1].Close == 0 {
			continue
		}
		returns = append(returns, tail[i].Close/tail[i-1].Close-1)
	}
	if len(returns) < 2 {
		return false
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) > inst.VolatilityThreshold()
}
