package gemgo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/gemgo/internal/engine"
	"github.com/hupe1980/gemgo/model"
)

// RoundResult describes one applied ordering round.
type RoundResult = engine.RoundResult

// Stats summarizes the state of an Orderer.
type Stats = engine.Stats

// StopReason explains why Run returned.
type StopReason int

const (
	// StopBudget means the configured number of rounds was performed.
	StopBudget StopReason = iota
	// StopExhausted means fewer than two non-empty size classes remained.
	StopExhausted
	// StopNoViableSelection means no candidate had a positive weight.
	StopNoViableSelection
)

// String implements fmt.Stringer.
func (s StopReason) String() string {
	switch s {
	case StopBudget:
		return "budget"
	case StopExhausted:
		return "exhausted"
	case StopNoViableSelection:
		return "no-viable-selection"
	default:
		return fmt.Sprintf("StopReason(%d)", int(s))
	}
}

// Report summarizes an ordering run.
type Report struct {
	// Rounds is the number of rounds applied by this run.
	Rounds int
	// Stop is why the run ended. Only meaningful when Run returned no error.
	Stop StopReason
	// KnownFacets is the number of facets revealed so far.
	KnownFacets int
	// Elapsed is the wall time of the run.
	Elapsed time.Duration
	// Results holds every applied round in order.
	Results []RoundResult
}

// Orderer drives the gem ordering rounds over an indexed collection.
//
// All methods are safe for concurrent use. Rounds are applied one at a time.
type Orderer struct {
	mu   sync.Mutex
	coll *engine.Collection

	rounds           int
	minViable        int
	metricsCollector MetricsCollector
	logger           *Logger
	roundHook        RoundHook
}

// New creates an Orderer from gems and builds its indexes.
//
// Gem ids must equal their position in gems.
func New(gems []model.Gem, optFns ...Option) (*Orderer, error) {
	opts := applyOptions(optFns)
	if opts.rounds <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRounds, opts.rounds)
	}

	ctx := context.Background()
	start := time.Now()

	coll, err := engine.New(gems)
	if err == nil {
		err = coll.BuildIndex()
	}
	elapsed := time.Since(start)

	opts.metricsCollector.RecordIndexBuild(len(gems), elapsed, err)
	if err != nil {
		err = translateError(err)
		opts.logger.LogIndexBuild(ctx, len(gems), 0, elapsed, err)
		return nil, err
	}

	st := coll.Stats()
	opts.logger.LogIndexBuild(ctx, st.Gems, st.UnknownFacets, elapsed, nil)

	return &Orderer{
		coll:             coll,
		rounds:           opts.rounds,
		minViable:        opts.minViable,
		metricsCollector: opts.metricsCollector,
		logger:           opts.logger,
		roundHook:        opts.roundHook,
	}, nil
}

// Round performs a single ordering round.
//
// ErrEmptyCandidateGroup and ErrNoViableSelection report that no further
// progress is possible; the collection is unchanged in that case.
func (o *Orderer) Round(ctx context.Context) (RoundResult, error) {
	if err := ctx.Err(); err != nil {
		return RoundResult{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	return o.roundLocked(ctx)
}

func (o *Orderer) roundLocked(ctx context.Context) (RoundResult, error) {
	start := time.Now()
	res, err := o.coll.Round(o.minViable)
	elapsed := time.Since(start)
	err = translateError(err)

	o.metricsCollector.RecordRound(len(res.Batch), len(res.Impacted), res.UsedBaseline, elapsed, err)
	if err != nil {
		return RoundResult{}, err
	}

	o.logger.LogRound(ctx, res, elapsed)
	return res, nil
}

// Run performs up to the configured number of rounds.
//
// The run ends early without error when no further progress is possible;
// Report.Stop tells why. The context is checked between rounds, never
// inside one, so a cancelled run leaves the collection consistent.
func (o *Orderer) Run(ctx context.Context) (*Report, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	report := &Report{Stop: StopBudget}

	err := o.runLocked(ctx, report)

	report.KnownFacets = len(o.coll.KnownFacets())
	report.Elapsed = time.Since(start)
	o.logger.LogRun(ctx, report, err)

	return report, err
}

func (o *Orderer) runLocked(ctx context.Context, report *Report) error {
	for range o.rounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := o.roundLocked(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrEmptyCandidateGroup):
			report.Stop = StopExhausted
			return nil
		case errors.Is(err, ErrNoViableSelection):
			report.Stop = StopNoViableSelection
			return nil
		default:
			return err
		}

		report.Rounds++
		report.Results = append(report.Results, res)

		if o.roundHook != nil {
			if err := o.roundHook(res); err != nil {
				return fmt.Errorf("round hook: %w", err)
			}
		}
	}
	return nil
}

// Order returns every gem id in the order in which it became fully known,
// followed by the remaining gems by unknown count then id.
func (o *Orderer) Order() []model.GemID {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.coll.Order()
}

// OrderedGems returns copies of all gems in Order.
func (o *Orderer) OrderedGems() []model.Gem {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := o.coll.Order()
	out := make([]model.Gem, 0, len(ids))
	for _, id := range ids {
		g, _ := o.coll.Gem(id)
		out = append(out, g)
	}
	return out
}

// Gem returns a copy of the gem with the given id and its current unknown facets.
func (o *Orderer) Gem(id model.GemID) (model.Gem, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.coll.Gem(id)
}

// Gems returns copies of all gems in id order.
func (o *Orderer) Gems() []model.Gem {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.coll.Gems()
}

// KnownFacets returns the facets revealed so far, in reveal order.
func (o *Orderer) KnownFacets() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.coll.KnownFacets()
}

// Stats returns a summary of the current state.
func (o *Orderer) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.coll.Stats()
}

// Verify checks that the size and facet indexes agree with gem state.
func (o *Orderer) Verify() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return translateError(o.coll.Verify())
}
