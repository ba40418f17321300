package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handle-analyzer/analysis"
	"handle-analyzer/cmd/api/services"
	"handle-analyzer/grok"
)

const modelDocument = `{"analysis_metadata":{"handle_analyzed":"@verge","date_range_start":"2025-01-01","date_range_end":"2025-01-07","total_posts_analyzed":0,"analysis_timestamp":"2025-01-08T00:00:00Z"},"qualitative_metrics":{},"pattern_analysis":{},"executive_summary":{},"token_usage":{},"status":{"success":true,"warnings":["no posts"]}}`

type stubCompleter struct {
	resp  grok.ChatCompletionResponse
	err   error
	calls int
}

func (s *stubCompleter) ChatCompletion(context.Context, grok.ChatCompletionRequest) (grok.ChatCompletionResponse, error) {
	s.calls++
	return s.resp, s.err
}

func newTestEngine(t *testing.T, completer services.Completer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	builder, err := analysis.NewPayloadBuilder(analysis.Settings{Model: "grok-4-fast-reasoning", SystemPrompt: "system"})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/analyze", AnalyzeHandler(services.NewAnalysisService(completer, builder)))
	r.GET("/health", HealthHandler())
	return r
}

func doPost(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	completer := &stubCompleter{resp: grok.ChatCompletionResponse{
		Choices: []grok.Choice{{Message: grok.ResponseMessage{Content: modelDocument}}},
		Usage:   &grok.Usage{PromptTokens: 1200, CompletionTokens: 700, TotalTokens: 1900, NumSourcesUsed: 3},
	}}
	w := doPost(newTestEngine(t, completer), `{"x_handle":"@verge","from_date":"2025-01-01","to_date":"2025-01-07"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body, 6)

	meta := body["analysis_metadata"].(map[string]any)
	assert.Equal(t, "verge", meta["handle_analyzed"])

	usage := body["token_usage"].(map[string]any)
	assert.Equal(t, float64(1200), usage["prompt_tokens"])
	assert.Equal(t, float64(700), usage["completion_tokens"])
	assert.Equal(t, float64(1900), usage["total_tokens"])
	assert.Equal(t, float64(3), usage["search_sources_used"])
}

func TestAnalyzeHandlerMissingParameters(t *testing.T) {
	completer := &stubCompleter{}
	w := doPost(newTestEngine(t, completer), `{"x_handle":"@verge","from_date":"2025-01-01"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing required parameters"}`, w.Body.String())
	assert.Zero(t, completer.calls)
}

func TestAnalyzeHandlerProviderError(t *testing.T) {
	completer := &stubCompleter{err: &grok.HTTPError{StatusCode: http.StatusUnauthorized, Body: "invalid api key"}}
	w := doPost(newTestEngine(t, completer), `{"x_handle":"verge","from_date":"2025-01-01","to_date":"2025-01-07"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Grok API request failed","details":"invalid api key"}`, w.Body.String())
}

func TestAnalyzeHandlerUnparsableContent(t *testing.T) {
	completer := &stubCompleter{resp: grok.ChatCompletionResponse{
		Choices: []grok.Choice{{Message: grok.ResponseMessage{Content: "not json"}}},
	}}
	w := doPost(newTestEngine(t, completer), `{"x_handle":"verge","from_date":"2025-01-01","to_date":"2025-01-07"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to parse Grok response as JSON","raw_response":"not json"}`, w.Body.String())
}

func TestAnalyzeHandlerMalformedBody(t *testing.T) {
	completer := &stubCompleter{}
	w := doPost(newTestEngine(t, completer), `{"x_handle":`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotEmpty(t, body["message"])
	assert.Zero(t, completer.calls)
}

func TestHealthHandler(t *testing.T) {
	r := newTestEngine(t, &stubCompleter{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
