package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"handle-analyzer/analysis"
)

// SystemPrompt 는 인라인 프롬프트가 있으면 그것을, 없으면 SystemPromptPath 파일 내용을 반환한다.
// 상대 경로는 config.yaml 위치를 기준으로 해석한다.
func (c AppConfig) SystemPrompt() (string, error) {
	if strings.TrimSpace(c.Prompt.SystemPrompt) != "" {
		return c.Prompt.SystemPrompt, nil
	}

	path := c.Prompt.SystemPromptPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("system prompt file %s is empty", path)
	}
	return prompt, nil
}

// AnalysisSettings 는 게이트웨이와 conformance 하니스가 공유하는 payload 설정을 만든다.
func (c AppConfig) AnalysisSettings() (analysis.Settings, error) {
	prompt, err := c.SystemPrompt()
	if err != nil {
		return analysis.Settings{}, err
	}
	return analysis.Settings{
		Model:               c.Provider.Model,
		Temperature:         *c.Provider.Temperature,
		MaxCompletionTokens: c.Provider.MaxCompletionTokens,
		SystemPrompt:        prompt,
		UserTemplate:        c.Prompt.UserTemplate,
		Search: analysis.SearchSettings{
			Mode:              strings.ToLower(c.Search.Mode),
			MaxSearchResults:  c.Search.MaxSearchResults,
			ReturnCitations:   *c.Search.ReturnCitations,
			SourceType:        c.Search.SourceType,
			PostFavoriteCount: c.Search.PostFavoriteCount,
			PostViewCount:     c.Search.PostViewCount,
		},
	}, nil
}
