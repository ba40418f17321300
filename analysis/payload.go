package analysis

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"handle-analyzer/grok"
)

const DefaultUserTemplate = "Analyze the X handle: {{.Handle}}\nDate range: {{.FromDate}} to {{.ToDate}}"

type SearchSettings struct {
	Mode              string
	MaxSearchResults  int
	ReturnCitations   bool
	SourceType        string
	PostFavoriteCount *int
	PostViewCount     *int
}

// Settings carries everything the payload needs besides the request itself.
type Settings struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
	UserTemplate        string
	Search              SearchSettings
}

type PayloadBuilder struct {
	settings Settings
	userTmpl *template.Template
}

func NewPayloadBuilder(settings Settings) (*PayloadBuilder, error) {
	if strings.TrimSpace(settings.Model) == "" {
		return nil, errors.New("analysis: model is required")
	}
	if strings.TrimSpace(settings.SystemPrompt) == "" {
		return nil, errors.New("analysis: system prompt is required")
	}
	if settings.UserTemplate == "" {
		settings.UserTemplate = DefaultUserTemplate
	}
	if settings.Search.SourceType == "" {
		settings.Search.SourceType = "x"
	}

	tmpl, err := template.New("user").Option("missingkey=error").Parse(settings.UserTemplate)
	if err != nil {
		return nil, fmt.Errorf("analysis: parse user template: %w", err)
	}
	return &PayloadBuilder{settings: settings, userTmpl: tmpl}, nil
}

func (b *PayloadBuilder) Settings() Settings {
	return b.settings
}

// Build renders the provider payload for req. The handle is normalized before it is
// embedded anywhere in the payload.
func (b *PayloadBuilder) Build(req Request) (grok.ChatCompletionRequest, error) {
	req = req.Normalized()

	var user strings.Builder
	if err := b.userTmpl.Execute(&user, req); err != nil {
		return grok.ChatCompletionRequest{}, fmt.Errorf("analysis: render user message: %w", err)
	}

	s := b.settings
	return grok.ChatCompletionRequest{
		Model: s.Model,
		Messages: []grok.Message{
			{Role: "system", Content: s.SystemPrompt},
			{Role: "user", Content: user.String()},
		},
		Temperature:         s.Temperature,
		MaxCompletionTokens: s.MaxCompletionTokens,
		ResponseFormat:      &grok.ResponseFormat{Type: "json_object"},
		SearchParameters: &grok.SearchParameters{
			Mode:             s.Search.Mode,
			MaxSearchResults: s.Search.MaxSearchResults,
			FromDate:         req.FromDate,
			ToDate:           req.ToDate,
			ReturnCitations:  s.Search.ReturnCitations,
			Sources: []grok.Source{{
				Type:              s.Search.SourceType,
				IncludedXHandles:  []string{req.Handle},
				PostFavoriteCount: s.Search.PostFavoriteCount,
				PostViewCount:     s.Search.PostViewCount,
			}},
		},
	}, nil
}
