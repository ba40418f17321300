package analysis

import "handle-analyzer/grok"

// TokenUsage is the accounting block appended to every successful result.
type TokenUsage struct {
	PromptTokens      int64 `json:"prompt_tokens"`
	CompletionTokens  int64 `json:"completion_tokens"`
	TotalTokens       int64 `json:"total_tokens"`
	SearchSourcesUsed int64 `json:"search_sources_used"`
}

// UsageFromProvider copies the provider usage report; missing fields stay zero.
func UsageFromProvider(u *grok.Usage) TokenUsage {
	if u == nil {
		return TokenUsage{}
	}
	return TokenUsage{
		PromptTokens:      u.PromptTokens,
		CompletionTokens:  u.CompletionTokens,
		TotalTokens:       u.TotalTokens,
		SearchSourcesUsed: u.NumSourcesUsed,
	}
}
