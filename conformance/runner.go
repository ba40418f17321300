package conformance

import (
	"context"
	"regexp"
	"time"
)

// Logger is the subset of the service logger the runner writes progress to.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Runner executes scenarios one after another. A failing scenario never stops the rest.
type Runner struct {
	Analyzer Analyzer
	// Delay separates the two calls of the consistency scenario.
	Delay time.Duration
	// Filter selects scenarios by name; nil runs all.
	Filter *regexp.Regexp
	// Now is the clock used for relative date ranges; nil means time.Now.
	Now       func() time.Time
	Scenarios []Scenario
	Logger    Logger
}

func (r *Runner) Run(ctx context.Context) Report {
	scenarios := r.Scenarios
	if scenarios == nil {
		scenarios = DefaultScenarios()
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	var report Report
	for _, sc := range scenarios {
		if r.Filter != nil && !r.Filter.MatchString(sc.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, ScenarioResult{Name: sc.Name, Err: err})
			continue
		}

		r.infof("running scenario %s: %s", sc.Name, sc.Description)
		e := env{analyzer: r.Analyzer, delay: r.Delay, now: now().UTC()}
		c := &checker{}

		start := time.Now()
		err := sc.run(ctx, e, c)
		result := ScenarioResult{
			Name:     sc.Name,
			Failures: c.failures,
			Err:      err,
			Duration: time.Since(start),
		}
		if result.Passed() {
			r.infof("scenario %s passed in %s", sc.Name, result.Duration)
		} else if r.Logger != nil {
			r.Logger.Warnf("scenario %s failed: err=%v failures=%v", sc.Name, err, c.failures)
		}
		report.Results = append(report.Results, result)
	}
	return report
}

func (r *Runner) infof(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Infof(format, args...)
	}
}
