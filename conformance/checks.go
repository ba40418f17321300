package conformance

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"handle-analyzer/analysis"
)

const (
	inputCostPerMillion  = 0.20
	outputCostPerMillion = 1.50
	costPerSearchSource  = 0.025

	MaxCostPerRequest = 0.10
)

// EstimateCost returns the dollar cost of one analysis. A report of zero sources is
// billed as one, since the X source is always queried.
func EstimateCost(u analysis.TokenUsage) float64 {
	sources := u.SearchSourcesUsed
	if sources == 0 {
		sources = 1
	}
	return float64(u.PromptTokens)/1e6*inputCostPerMillion +
		float64(u.CompletionTokens)/1e6*outputCostPerMillion +
		float64(sources)*costPerSearchSource
}

// checker collects failure messages for one scenario.
type checker struct {
	failures []string
}

func (c *checker) failf(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}

func (c *checker) check(ok bool, format string, args ...any) {
	if !ok {
		c.failf(format, args...)
	}
}

// validScore reports whether score is exactly 0 or within [1, 10].
func validScore(score float64) bool {
	return score == 0 || (score >= 1 && score <= 10)
}

// checkBaseline runs the checks every successful outcome must satisfy.
func (c *checker) checkBaseline(out Outcome) {
	meta, err := out.Result.Metadata()
	if err != nil {
		c.failf("analysis_metadata: %v", err)
		return
	}
	c.check(!strings.Contains(meta.HandleAnalyzed, "@"), "handle_analyzed %q contains @", meta.HandleAnalyzed)

	if meta.TotalPostsAnalyzed == 0 {
		c.checkZeroPosts(out.Result)
	}
}

func (c *checker) checkZeroPosts(result analysis.Result) {
	metrics, err := result.Metrics()
	if err != nil {
		c.failf("qualitative_metrics: %v", err)
	}
	for _, name := range sortedKeys(metrics) {
		c.check(metrics[name].Score == 0, "zero posts but %s score is %v", name, metrics[name].Score)
	}
	status, err := result.Status()
	if err != nil {
		c.failf("status: %v", err)
		return
	}
	c.check(len(status.Warnings) > 0, "zero posts but status.warnings is empty")
}

func (c *checker) checkSuccess(result analysis.Result) {
	status, err := result.Status()
	if err != nil {
		c.failf("status: %v", err)
		return
	}
	c.check(status.Success, "status.success is false (errors: %v)", status.Errors)
}

func (c *checker) checkSchema(result analysis.Result) {
	fields := result.Fields()
	for _, field := range analysis.RequiredTopLevelFields {
		c.check(result.Has(field), "missing top-level field %s", field)
	}
	for _, field := range fields {
		c.check(slices.Contains(analysis.RequiredTopLevelFields, field), "unexpected top-level field %s", field)
	}

	c.checkObjectFields(result, analysis.FieldMetadata, analysis.RequiredMetadataFields)
	c.checkObjectFields(result, analysis.FieldPatterns, analysis.RequiredPatternFields)
	c.checkObjectFields(result, analysis.FieldSummary, analysis.RequiredSummaryFields)

	metrics, err := result.Object(analysis.FieldMetrics)
	if err != nil {
		c.failf("qualitative_metrics: %v", err)
		return
	}
	for _, name := range analysis.RequiredMetrics {
		raw, ok := metrics[name]
		if !ok {
			c.failf("missing metric %s", name)
			continue
		}
		parsed, err := analysis.ParseResult(string(raw))
		if err != nil {
			c.failf("metric %s is not an object", name)
			continue
		}
		c.check(parsed.Has("score"), "%s missing score", name)
		c.check(parsed.Has("rationale"), "%s missing rationale", name)
	}
}

func (c *checker) checkObjectFields(result analysis.Result, field string, required []string) {
	obj, err := result.Object(field)
	if err != nil {
		c.failf("%s: %v", field, err)
		return
	}
	for _, name := range required {
		raw, ok := obj[name]
		c.check(ok && string(raw) != "null", "missing %s.%s", field, name)
	}
}

// checkScores validates every metric: score 0 or [1,10], rationale 10-200 characters.
func (c *checker) checkScores(result analysis.Result) {
	metrics, err := result.Metrics()
	if err != nil {
		c.failf("qualitative_metrics: %v", err)
		return
	}
	for _, name := range sortedKeys(metrics) {
		m := metrics[name]
		c.check(validScore(m.Score), "%s score %v out of range", name, m.Score)
		length := utf8.RuneCountInString(m.Rationale)
		c.check(length >= 10 && length <= 200, "%s rationale length %d not within [10, 200]", name, length)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
