// Package conformance drives the analysis call path against the live provider and checks
// the returned documents for shape and plausibility.
package conformance

import (
	"context"
	"fmt"

	"handle-analyzer/analysis"
	"handle-analyzer/grok"
)

// Outcome is one analysis document plus the provider's token accounting.
type Outcome struct {
	Result analysis.Result
	Usage  analysis.TokenUsage
}

type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (Outcome, error)
}

type completer interface {
	ChatCompletion(ctx context.Context, req grok.ChatCompletionRequest) (grok.ChatCompletionResponse, error)
}

// ProviderAnalyzer calls the provider directly, independent of the gateway: normalize,
// build, call, parse. The model's handle_analyzed is left as produced so the harness can
// check it.
type ProviderAnalyzer struct {
	client  completer
	builder *analysis.PayloadBuilder
}

func NewProviderAnalyzer(client *grok.Client, builder *analysis.PayloadBuilder) *ProviderAnalyzer {
	return &ProviderAnalyzer{client: client, builder: builder}
}

func (a *ProviderAnalyzer) Analyze(ctx context.Context, req analysis.Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	payload, err := a.builder.Build(req.Normalized())
	if err != nil {
		return Outcome{}, fmt.Errorf("build payload: %w", err)
	}

	resp, err := a.client.ChatCompletion(ctx, payload)
	if err != nil {
		return Outcome{}, err
	}
	content, ok := resp.Content()
	if !ok {
		return Outcome{}, fmt.Errorf("%w: no choices in %s", analysis.ErrInvalidShape, resp.Raw)
	}
	result, err := analysis.ParseResult(content)
	if err != nil {
		return Outcome{}, err
	}

	usage := analysis.UsageFromProvider(resp.Usage)
	if err := result.SetTokenUsage(usage); err != nil {
		return Outcome{}, err
	}
	return Outcome{Result: result, Usage: usage}, nil
}
