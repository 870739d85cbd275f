package form

import (
	"context"
	"errors"

	"github.com/amishk599/cvbuilder/internal/model"
)

// Analyze requests a match analysis of the draft. With PreferPrimary the
// LLM endpoint is tried first and any failure other than an expired
// session falls back to the fast endpoint. The outcome is Skipped when an
// analysis is already running. Failures are recorded in state; only
// model.ErrUnauthorized is returned.
func (c *Controller) Analyze(ctx context.Context) (model.AnalysisOutcome, error) {
	c.mu.Lock()
	pref := c.analysis.Preference
	c.mu.Unlock()
	return c.runAnalysis(ctx, pref)
}

// AnalyzeFast requests the fast analysis only, without fallback. It shares
// the in-flight guard with Analyze.
func (c *Controller) AnalyzeFast(ctx context.Context) (model.AnalysisOutcome, error) {
	return c.runAnalysis(ctx, model.PreferFastOnly)
}

func (c *Controller) runAnalysis(ctx context.Context, pref model.StrategyPreference) (model.AnalysisOutcome, error) {
	if !c.analyzeGuard.TryAcquire(1) {
		return model.AnalysisOutcome{Skipped: true}, nil
	}
	defer c.analyzeGuard.Release(1)

	c.mu.Lock()
	draft := c.draft.Clone()
	c.analysis.Err = ""
	c.analysis.InFlight = true
	c.mu.Unlock()

	var (
		outcome model.AnalysisOutcome
		err     error
	)
	if pref == model.PreferFastOnly {
		outcome.Strategy = model.StrategyFast
		outcome.Result, err = c.backend.AnalyzeCV(ctx, draft)
	} else {
		outcome.Strategy = model.StrategyPrimary
		outcome.Result, err = c.backend.AnalyzeCVLLM(ctx, draft)
		if err != nil && !errors.Is(err, model.ErrUnauthorized) && ctx.Err() == nil {
			c.logger.Warn("primary analysis failed, falling back to fast analysis", "error", err)
			outcome.Strategy = model.StrategyFallback
			outcome.Result, err = c.backend.AnalyzeCV(ctx, draft)
		}
	}

	c.mu.Lock()
	c.analysis.InFlight = false
	if err != nil {
		c.analysis.Err = model.Message(err)
	} else {
		c.analysis.Result = outcome.Result
		c.analysis.Strategy = outcome.Strategy
	}
	c.mu.Unlock()

	if err != nil {
		outcome.Result = nil
		c.logger.Error("analysis failed", "strategy", outcome.Strategy, "error", err)
		if errors.Is(err, model.ErrUnauthorized) {
			return outcome, err
		}
		return outcome, nil
	}
	c.logger.Info("analysis complete", "strategy", outcome.Strategy)
	return outcome, nil
}
