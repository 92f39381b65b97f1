// Package pipeline runs fetch, report, prompt, advice and parse as one state machine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/marketdata"
	"market-advisor/internal/prompt"
	"market-advisor/internal/recommendation"
	"market-advisor/internal/report"
	"market-advisor/internal/types"
)

// Options are fixed for the lifetime of an Orchestrator.
type Options struct {
	NewsCategory string
	NewsMinID    int64
	Advice       types.AdviceOptions
	// MarketData, when non-empty, is used as the report and the fetch stage is skipped.
	MarketData   string
}

type Orchestrator struct {
	source   interfaces.MarketDataSource
	builder  *report.Builder
	composer *prompt.Composer
	advisor  interfaces.Advisor
	opts     Options

	// OnTransition, when set, observes every recorded state change.
	OnTransition func(ctx context.Context, from, to types.State)
	// Journal, when set, receives every run that reached a terminal state.
	Journal interfaces.AdviceJournal
	Now     func() time.Time
}

var _ interfaces.Pipeline = (*Orchestrator)(nil)

func New(
	source interfaces.MarketDataSource,
	builder *report.Builder,
	composer *prompt.Composer,
	advisor interfaces.Advisor,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		source:   source,
		builder:  builder,
		composer: composer,
		advisor:  advisor,
		opts:     opts,
		Now:      time.Now,
	}
}

// Run executes one advisory pipeline for symbol. The error is non-nil only for an
// invalid symbol or a cancelled context; an advisory failure, including a passed
// deadline, ends in StateFailed.
func (o *Orchestrator) Run(ctx context.Context, symbol string) (*types.RunResult, error) {
	res := &types.RunResult{
		Symbol:      symbol,
		State:       types.StateIdle,
		Transitions: []types.State{types.StateIdle},
		StartedAt:   o.now(),
	}

	sym, err := marketdata.ValidateSymbol("symbol", symbol)
	if err != nil {
		return res, err
	}
	res.Symbol = sym

	var rep types.MarketReport
	if o.opts.MarketData != "" {
		if err := o.advance(ctx, res, types.StateBuildingReport); err != nil {
			return o.finish(ctx, res, err)
		}
		rep = o.builder.FromText(sym, o.opts.MarketData)
	} else {
		if err := o.advance(ctx, res, types.StateFetchingData); err != nil {
			return o.finish(ctx, res, err)
		}
		quote, profile, news := o.fetch(ctx, sym)

		if err := o.advance(ctx, res, types.StateBuildingReport); err != nil {
			return o.finish(ctx, res, err)
		}
		rep = o.builder.Build(sym, quote, profile, news)
		o.logFailures(ctx, sym, quote.Err, profile.Err, news.Err)
	}
	res.Report = &rep

	if err := o.advance(ctx, res, types.StateComposingPrompt); err != nil {
		return o.finish(ctx, res, err)
	}
	payload := o.composer.Compose(sym, rep)
	res.Payload = &payload

	if err := o.advance(ctx, res, types.StateAwaitingAdvice); err != nil {
		return o.finish(ctx, res, err)
	}
	advice, err := o.advisor.Advise(ctx, payload, o.opts.Advice)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return o.finish(ctx, res, o.cancel(ctx, res))
		}
		ae := asAdvisoryError(err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && ae.Kind != types.AdvisoryTimeout {
			ae = &types.AdvisoryError{Kind: types.AdvisoryTimeout, Err: err}
		}
		res.Failure = ae
		res.FailureText = ae.Error()
		res.Outcome = types.OutcomeFailed
		if err := o.transition(ctx, res, types.StateFailed); err != nil {
			return o.finish(ctx, res, err)
		}
		logger.ErrorWithErr(ctx, "Advisory failed, run aborted", ae, "symbol", sym, "kind", string(ae.Kind))
		return o.finish(ctx, res, nil)
	}
	res.Advice = &advice

	if err := o.advance(ctx, res, types.StateParsingResult); err != nil {
		return o.finish(ctx, res, err)
	}
	rec := recommendation.Parse(sym, advice.Text)
	res.Recommendation = &rec
	res.Outcome = types.OutcomeRawFallback
	if rec.Parsed {
		res.Outcome = types.OutcomeComplete
	}

	if err := o.transition(ctx, res, types.StateDone); err != nil {
		return o.finish(ctx, res, err)
	}
	logger.Recommendation(ctx, sym, string(rec.Action), string(rec.Confidence), rec.Parsed,
		"horizon", string(rec.Horizon),
		"outcome", string(res.Outcome),
		"truncated", advice.Truncated,
	)
	return o.finish(ctx, res, nil)
}

// fetch runs the three independent fetches concurrently. Each goroutine owns one slot.
func (o *Orchestrator) fetch(ctx context.Context, symbol string) (
	types.Fetched[types.Quote],
	types.Fetched[types.CompanyProfile],
	types.Fetched[[]types.NewsArticle],
) {
	var (
		g       errgroup.Group
		quote   types.Fetched[types.Quote]
		profile types.Fetched[types.CompanyProfile]
		news    types.Fetched[[]types.NewsArticle]
	)
	g.Go(func() error {
		quote.Value, quote.Err = o.source.FetchQuote(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		profile.Value, profile.Err = o.source.FetchProfile(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		news.Value, news.Err = o.source.FetchNews(ctx, o.opts.NewsCategory, o.opts.NewsMinID)
		return nil
	})
	_ = g.Wait()
	return quote, profile, news
}

func (o *Orchestrator) logFailures(ctx context.Context, symbol string, errs ...error) {
	for i, err := range errs {
		if err == nil {
			continue
		}
		source, kind := string(types.SectionOrder[i]), "UNKNOWN"
		var fe *types.FetchError
		if errors.As(err, &fe) {
			source, kind = fe.Source, string(fe.Kind)
		}
		logger.FetchFailure(ctx, symbol, source, kind, err)
	}
}

// advance moves to the next stage unless the context was cancelled. A passed
// deadline is left to the advisory call, which reports it as a timeout.
func (o *Orchestrator) advance(ctx context.Context, res *types.RunResult, to types.State) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return o.cancel(ctx, res)
	}
	return o.transition(ctx, res, to)
}

func (o *Orchestrator) cancel(ctx context.Context, res *types.RunResult) error {
	res.Outcome = types.OutcomeCancelled
	if err := o.transition(ctx, res, types.StateCancelled); err != nil {
		return err
	}
	logger.Warn(ctx, "Run cancelled", "symbol", res.Symbol, "stage", string(res.Transitions[len(res.Transitions)-2]))
	return fmt.Errorf("run cancelled: %w", ctx.Err())
}

func (o *Orchestrator) transition(ctx context.Context, res *types.RunResult, to types.State) error {
	from := res.State
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	res.State = to
	res.Transitions = append(res.Transitions, to)
	logger.Debug(ctx, "Pipeline transition", "symbol", res.Symbol, "from", string(from), "to", string(to))
	if o.OnTransition != nil {
		o.OnTransition(ctx, from, to)
	}
	return nil
}

func (o *Orchestrator) finish(ctx context.Context, res *types.RunResult, err error) (*types.RunResult, error) {
	res.Duration = o.now().Sub(res.StartedAt)
	if o.Journal != nil && res.State.Terminal() {
		if jerr := o.Journal.Append(res); jerr != nil {
			logger.ErrorWithErr(ctx, "Failed to journal run", jerr, "symbol", res.Symbol)
		}
	}
	return res, err
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func asAdvisoryError(err error) *types.AdvisoryError {
	var ae *types.AdvisoryError
	if errors.As(err, &ae) {
		return ae
	}
	return &types.AdvisoryError{Kind: types.AdvisoryNetwork, Err: err}
}
