package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handle-analyzer/grok"
)

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"verge":     "verge",
		"@verge":    "verge",
		"@@verge":   "verge",
		"  @NASA  ": "NASA",
		"ve@rge":    "ve@rge",
		"@":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHandle(in), "input %q", in)
	}
}

func TestRequestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{name: "complete", req: Request{Handle: "@verge", FromDate: "2025-01-01", ToDate: "2025-01-07"}},
		{name: "missing handle", req: Request{FromDate: "2025-01-01", ToDate: "2025-01-07"}, wantErr: true},
		{name: "only at sign", req: Request{Handle: "@", FromDate: "2025-01-01", ToDate: "2025-01-07"}, wantErr: true},
		{name: "missing from", req: Request{Handle: "verge", ToDate: "2025-01-07"}, wantErr: true},
		{name: "blank to", req: Request{Handle: "verge", FromDate: "2025-01-01", ToDate: "  "}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMissingParameters)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func testSettings() Settings {
	return Settings{
		Model:               "grok-4-fast-reasoning",
		Temperature:         0.5,
		MaxCompletionTokens: 4096,
		SystemPrompt:        "You are an analyst.",
		Search: SearchSettings{
			Mode:             "auto",
			MaxSearchResults: 50,
			ReturnCitations:  true,
		},
	}
}

func TestPayloadBuilderBuild(t *testing.T) {
	builder, err := NewPayloadBuilder(testSettings())
	require.NoError(t, err)

	payload, err := builder.Build(Request{Handle: "@verge", FromDate: "2025-01-01", ToDate: "2025-01-07"})
	require.NoError(t, err)

	assert.Equal(t, "grok-4-fast-reasoning", payload.Model)
	assert.Equal(t, 0.5, payload.Temperature)
	assert.Equal(t, 4096, payload.MaxCompletionTokens)
	require.Len(t, payload.Messages, 2)
	assert.Equal(t, grok.Message{Role: "system", Content: "You are an analyst."}, payload.Messages[0])
	assert.Equal(t, "user", payload.Messages[1].Role)
	assert.Equal(t, "Analyze the X handle: verge\nDate range: 2025-01-01 to 2025-01-07", payload.Messages[1].Content)
	assert.Equal(t, &grok.ResponseFormat{Type: "json_object"}, payload.ResponseFormat)

	search := payload.SearchParameters
	require.NotNil(t, search)
	assert.Equal(t, "auto", search.Mode)
	assert.Equal(t, 50, search.MaxSearchResults)
	assert.Equal(t, "2025-01-01", search.FromDate)
	assert.Equal(t, "2025-01-07", search.ToDate)
	assert.True(t, search.ReturnCitations)
	require.Len(t, search.Sources, 1)
	assert.Equal(t, "x", search.Sources[0].Type)
	assert.Equal(t, []string{"verge"}, search.Sources[0].IncludedXHandles)
}

func TestPayloadWireShape(t *testing.T) {
	builder, err := NewPayloadBuilder(testSettings())
	require.NoError(t, err)
	payload, err := builder.Build(Request{Handle: "verge", FromDate: "2025-01-01", ToDate: "2025-01-07"})
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, map[string]any{"type": "json_object"}, wire["response_format"])
	search := wire["search_parameters"].(map[string]any)
	assert.Equal(t, true, search["return_citations"])
	sources := search["sources"].([]any)
	assert.Equal(t, map[string]any{"type": "x", "included_x_handles": []any{"verge"}}, sources[0])
}

func TestPayloadBuilderCustomTemplate(t *testing.T) {
	s := testSettings()
	s.UserTemplate = "{{.Handle}}|{{.FromDate}}|{{.ToDate}}"
	builder, err := NewPayloadBuilder(s)
	require.NoError(t, err)

	payload, err := builder.Build(Request{Handle: "@@NASA", FromDate: "a", ToDate: "b"})
	require.NoError(t, err)
	assert.Equal(t, "NASA|a|b", payload.Messages[1].Content)
}

func TestNewPayloadBuilderRejectsIncompleteSettings(t *testing.T) {
	s := testSettings()
	s.SystemPrompt = " "
	_, err := NewPayloadBuilder(s)
	assert.Error(t, err)

	s = testSettings()
	s.UserTemplate = "{{.Handle"
	_, err = NewPayloadBuilder(s)
	assert.Error(t, err)
}

const sampleContent = `{
	"analysis_metadata": {"handle_analyzed": "@verge", "date_range_start": "2025-01-01", "date_range_end": "2025-01-07", "total_posts_analyzed": 42, "analysis_timestamp": "2025-01-07T10:00:00Z"},
	"qualitative_metrics": {"tone_consistency": {"score": 8, "rationale": "Consistent editorial voice across posts."}},
	"pattern_analysis": {"dominant_themes": ["gadgets"], "posting_frequency": "hourly", "communication_style": "newsy", "engagement_pattern": "steady"},
	"executive_summary": {"overview": "A tech outlet.", "key_insights": ["one"]},
	"status": {"success": true, "warnings": []},
	"citations_note": "kept"
}`

func TestParseResultAndTypedViews(t *testing.T) {
	result, err := ParseResult(sampleContent)
	require.NoError(t, err)

	meta, err := result.Metadata()
	require.NoError(t, err)
	assert.Equal(t, float64(42), meta.TotalPostsAnalyzed)

	metrics, err := result.Metrics()
	require.NoError(t, err)
	assert.Equal(t, 8.0, metrics["tone_consistency"].Score)

	patterns, err := result.Patterns()
	require.NoError(t, err)
	assert.Equal(t, []string{"gadgets"}, patterns.DominantThemes)

	status, err := result.Status()
	require.NoError(t, err)
	assert.True(t, status.Success)

	assert.True(t, result.Has("citations_note"))
	assert.False(t, result.Has(FieldTokenUsage))
	_, err = result.TokenUsage()
	assert.Error(t, err)
}

func TestParseResultRejectsNonObjects(t *testing.T) {
	for _, content := range []string{"", "not json", "[1,2]", `"text"`, "null", `{"a":`} {
		_, err := ParseResult(content)
		assert.ErrorIs(t, err, ErrInvalidShape, "content %q", content)
	}
}

func TestResultAugmentation(t *testing.T) {
	result, err := ParseResult(sampleContent)
	require.NoError(t, err)

	require.NoError(t, result.SetTokenUsage(UsageFromProvider(&grok.Usage{PromptTokens: 10, TotalTokens: 15})))
	require.NoError(t, result.SetHandleAnalyzed("verge"))

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var doc map[string]map[string]any
	var loose map[string]any
	require.NoError(t, json.Unmarshal(raw, &loose))
	assert.Equal(t, "kept", loose["citations_note"])
	delete(loose, "citations_note")
	reencoded, _ := json.Marshal(loose)
	require.NoError(t, json.Unmarshal(reencoded, &doc))

	assert.Equal(t, "verge", doc[FieldMetadata]["handle_analyzed"])
	assert.EqualValues(t, 42, doc[FieldMetadata]["total_posts_analyzed"])
	assert.Equal(t, map[string]any{
		"prompt_tokens":       float64(10),
		"completion_tokens":   float64(0),
		"total_tokens":        float64(15),
		"search_sources_used": float64(0),
	}, doc[FieldTokenUsage])
}

func TestUsageFromProviderNil(t *testing.T) {
	assert.Equal(t, TokenUsage{}, UsageFromProvider(nil))
}

func TestSetHandleAnalyzedWithoutMetadataIsNoop(t *testing.T) {
	result, err := ParseResult(`{"status":{"success":false}}`)
	require.NoError(t, err)
	require.NoError(t, result.SetHandleAnalyzed("verge"))
	assert.False(t, result.Has(FieldMetadata))
}

func TestResultKeepsModelKeyOrder(t *testing.T) {
	result, err := ParseResult(`{
		"status": {"success": true},
		"analysis_metadata": {"total_posts_analyzed": 3, "handle_analyzed": "@verge", "date_range_start": "2025-01-01"},
		"zeta": 1,
		"executive_summary": {}
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldStatus, FieldMetadata, "zeta", FieldSummary}, result.Fields())

	require.NoError(t, result.SetHandleAnalyzed("verge"))
	require.NoError(t, result.SetTokenUsage(TokenUsage{}))

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"status":{"success":true},`+
			`"analysis_metadata":{"total_posts_analyzed":3,"handle_analyzed":"verge","date_range_start":"2025-01-01"},`+
			`"zeta":1,"executive_summary":{},`+
			`"token_usage":{"prompt_tokens":0,"completion_tokens":0,"total_tokens":0,"search_sources_used":0}}`,
		string(raw))
}

func TestEmptyResultMarshalsAsObject(t *testing.T) {
	raw, err := json.Marshal(Result{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}
