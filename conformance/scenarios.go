package conformance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"handle-analyzer/analysis"
)

const dateLayout = "2006-01-02"

// env is what a scenario needs from the runner.
type env struct {
	analyzer Analyzer
	delay    time.Duration
	now      time.Time
}

func (e env) daysAgo(days int) string {
	return e.now.AddDate(0, 0, -days).Format(dateLayout)
}

func (e env) today() string {
	return e.now.Format(dateLayout)
}

// analyze runs one call and the baseline checks on its outcome.
func (e env) analyze(ctx context.Context, c *checker, handle, from, to string) (Outcome, error) {
	out, err := e.analyzer.Analyze(ctx, analysis.Request{Handle: handle, FromDate: from, ToDate: to})
	if err != nil {
		return Outcome{}, fmt.Errorf("analyze %s %s..%s: %w", handle, from, to, err)
	}
	c.checkBaseline(out)
	return out, nil
}

// Scenario is one named conformance case. Run returns an error only when the call itself
// failed; check failures go to the checker.
type Scenario struct {
	Name        string
	Description string
	run         func(ctx context.Context, e env, c *checker) error
}

// DefaultScenarios returns the conformance suite in execution order.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "high-volume", Description: "high-volume active account over the last 7 days", run: runHighVolume},
		{Name: "moderate-volume", Description: "moderate-volume account over the last 30 days", run: runModerateVolume},
		{Name: "recent-range", Description: "last 2 days should have posts", run: runRecentRange},
		{Name: "old-range", Description: "2020-01-01..2020-01-07, zero posts handled gracefully", run: runOldRange},
		{Name: "schema", Description: "required fields are present", run: runSchema},
		{Name: "score-range", Description: "scores and rationales within bounds", run: runScoreRange},
		{Name: "consistency", Description: "two identical calls agree within tolerance", run: runConsistency},
		{Name: "token-usage", Description: "token counts and cost are plausible", run: runTokenUsage},
		{Name: "summary-quality", Description: "executive summary has substance", run: runSummaryQuality},
		{Name: "handle-normalization", Description: "leading @ never reaches handle_analyzed", run: runHandleNormalization},
	}
}

func runHighVolume(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "verge", e.daysAgo(7), e.today())
	if err != nil {
		return err
	}
	for _, field := range []string{analysis.FieldMetadata, analysis.FieldMetrics, analysis.FieldPatterns, analysis.FieldSummary, analysis.FieldStatus} {
		c.check(out.Result.Has(field), "missing %s", field)
	}

	metrics, err := out.Result.Metrics()
	if err != nil {
		c.failf("qualitative_metrics: %v", err)
	}
	for _, name := range sortedKeys(metrics) {
		score := metrics[name].Score
		c.check(score >= 1 && score <= 10, "%s score %v not within [1, 10]", name, score)
	}

	if meta, err := out.Result.Metadata(); err == nil {
		c.check(meta.TotalPostsAnalyzed > 30, "expected more than 30 posts, got %v", meta.TotalPostsAnalyzed)
	}
	c.checkSuccess(out.Result)
	return nil
}

func runModerateVolume(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "NASA", e.daysAgo(30), e.today())
	if err != nil {
		return err
	}
	c.checkSuccess(out.Result)

	if meta, err := out.Result.Metadata(); err == nil {
		c.check(meta.TotalPostsAnalyzed >= 10, "expected at least 10 posts, got %v", meta.TotalPostsAnalyzed)
	}
	metrics, err := out.Result.Metrics()
	if err != nil {
		c.failf("qualitative_metrics: %v", err)
	}
	for _, name := range sortedKeys(metrics) {
		c.check(metrics[name].Score > 0, "%s should be scored, got %v", name, metrics[name].Score)
	}

	patterns, err := out.Result.Patterns()
	if err != nil {
		c.failf("pattern_analysis: %v", err)
		return nil
	}
	c.check(len(patterns.DominantThemes) >= 1, "expected at least one dominant theme")
	return nil
}

func runRecentRange(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "verge", e.daysAgo(2), e.today())
	if err != nil {
		return err
	}
	if meta, err := out.Result.Metadata(); err == nil {
		c.check(meta.TotalPostsAnalyzed > 0, "expected posts in the last 2 days, got 0")
	}
	return nil
}

func runOldRange(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "verge", "2020-01-01", "2020-01-07")
	if err != nil {
		return err
	}
	c.checkSuccess(out.Result)
	return nil
}

func runSchema(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "verge", e.daysAgo(7), e.today())
	if err != nil {
		return err
	}
	c.checkSchema(out.Result)
	return nil
}

func runScoreRange(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "verge", e.daysAgo(7), e.today())
	if err != nil {
		return err
	}
	c.checkScores(out.Result)
	return nil
}

var consistencyMetrics = []string{"tone_consistency", "content_coherence", "topical_focus"}

func runConsistency(ctx context.Context, e env, c *checker) error {
	from, to := e.daysAgo(7), e.today()

	first, err := e.analyze(ctx, c, "verge", from, to)
	if err != nil {
		return err
	}
	if err := sleep(ctx, e.delay); err != nil {
		return err
	}
	second, err := e.analyze(ctx, c, "verge", from, to)
	if err != nil {
		return err
	}

	firstMeta, err1 := first.Result.Metadata()
	secondMeta, err2 := second.Result.Metadata()
	if err1 == nil && err2 == nil {
		diff := math.Abs(firstMeta.TotalPostsAnalyzed - secondMeta.TotalPostsAnalyzed)
		c.check(diff <= 10, "post counts differ by %v (%v vs %v)", diff, firstMeta.TotalPostsAnalyzed, secondMeta.TotalPostsAnalyzed)
	}

	firstMetrics, err1 := first.Result.Metrics()
	secondMetrics, err2 := second.Result.Metrics()
	if err1 != nil || err2 != nil {
		c.failf("qualitative_metrics missing in one of the runs")
		return nil
	}
	for _, name := range consistencyMetrics {
		a, okA := firstMetrics[name]
		b, okB := secondMetrics[name]
		if !okA || !okB || a.Score == 0 || b.Score == 0 {
			continue
		}
		delta := math.Abs(a.Score - b.Score)
		c.check(delta <= 2, "%s scores differ by %v (%v vs %v)", name, delta, a.Score, b.Score)
	}
	return nil
}

func runTokenUsage(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "verge", e.daysAgo(7), e.today())
	if err != nil {
		return err
	}
	u := out.Usage
	c.check(u.PromptTokens >= 1000 && u.PromptTokens <= 5000, "prompt tokens %d not within [1000, 5000]", u.PromptTokens)
	c.check(u.CompletionTokens >= 500 && u.CompletionTokens <= 4096, "completion tokens %d not within [500, 4096]", u.CompletionTokens)

	cost := EstimateCost(u)
	c.check(cost <= MaxCostPerRequest, "estimated cost $%.4f exceeds $%.2f", cost, MaxCostPerRequest)
	return nil
}

func runSummaryQuality(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "verge", e.daysAgo(7), e.today())
	if err != nil {
		return err
	}
	summary, err := out.Result.Summary()
	if err != nil {
		c.failf("executive_summary: %v", err)
		return nil
	}
	c.check(len([]rune(summary.Overview)) >= 100, "overview is %d chars, want at least 100", len([]rune(summary.Overview)))
	c.check(len(summary.KeyInsights) >= 2, "expected at least 2 key insights, got %d", len(summary.KeyInsights))
	for i, insight := range summary.KeyInsights {
		c.check(len([]rune(insight)) >= 20, "key insight %d is shorter than 20 chars", i)
	}
	return nil
}

func runHandleNormalization(ctx context.Context, e env, c *checker) error {
	out, err := e.analyze(ctx, c, "@verge", e.daysAgo(7), e.today())
	if err != nil {
		return err
	}
	if meta, err := out.Result.Metadata(); err == nil {
		c.check(strings.EqualFold(meta.HandleAnalyzed, "verge"), "handle_analyzed is %q, want verge", meta.HandleAnalyzed)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
