package grok

import "encoding/json"

// Message 는 chat-completions 대화의 한 턴이다.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

// Source 는 Live Search 가 참조할 데이터 소스 하나를 나타낸다.
// Type 이 "x" 인 경우 IncludedXHandles 로 검색 대상 계정을 제한한다.
type Source struct {
	Type              string   `json:"type"`
	IncludedXHandles  []string `json:"included_x_handles,omitempty"`
	PostFavoriteCount *int     `json:"post_favorite_count,omitempty"`
	PostViewCount     *int     `json:"post_view_count,omitempty"`
}

// SearchParameters 는 xAI Live Search 지시자 블록이다.
type SearchParameters struct {
	Mode             string   `json:"mode"`
	MaxSearchResults int      `json:"max_search_results"`
	FromDate         string   `json:"from_date,omitempty"`
	ToDate           string   `json:"to_date,omitempty"`
	ReturnCitations  bool     `json:"return_citations"`
	Sources          []Source `json:"sources,omitempty"`
}

type ChatCompletionRequest struct {
	Model               string            `json:"model"`
	Messages            []Message         `json:"messages"`
	Temperature         float64           `json:"temperature"`
	MaxCompletionTokens int               `json:"max_completion_tokens,omitempty"`
	ResponseFormat      *ResponseFormat   `json:"response_format,omitempty"`
	SearchParameters    *SearchParameters `json:"search_parameters,omitempty"`
}

type CompletionTokensDetails struct {
	ReasoningTokens int64 `json:"reasoning_tokens"`
}

// Usage 는 provider 가 보고하는 토큰/검색 소스 사용량이다.
// 누락된 숫자 필드는 0 으로 디코딩된다.
type Usage struct {
	PromptTokens            int64                    `json:"prompt_tokens"`
	CompletionTokens        int64                    `json:"completion_tokens"`
	TotalTokens             int64                    `json:"total_tokens"`
	NumSourcesUsed          int64                    `json:"num_sources_used"`
	CompletionTokensDetails *CompletionTokensDetails `json:"completion_tokens_details,omitempty"`
}

type ResponseMessage struct {
	Role             string `json:"role"`
	Content          string `json:"content"`
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type ChatCompletionResponse struct {
	ID        string   `json:"id"`
	Model     string   `json:"model"`
	Choices   []Choice `json:"choices"`
	Citations []string `json:"citations,omitempty"`
	Usage     *Usage   `json:"usage,omitempty"`

	// Raw 는 디코딩 전 응답 본문 원문이다. 진단 용도로만 사용한다.
	Raw json.RawMessage `json:"-"`
}

// Content 는 첫 번째 choice 의 메시지 본문을 반환한다.
// choice 가 없으면 ok 는 false 이다.
func (r ChatCompletionResponse) Content() (content string, ok bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}
