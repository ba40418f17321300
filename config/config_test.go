package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handle-analyzer/config"
	"handle-analyzer/grok"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadAppliesDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, "https://api.x.ai/v1", cfg.Provider.BaseURL)
	assert.Equal(t, "grok-4-fast-reasoning", cfg.Provider.Model)
	assert.Equal(t, 0.5, *cfg.Provider.Temperature)
	assert.Equal(t, 4096, cfg.Provider.MaxCompletionTokens)
	assert.Equal(t, 5*time.Minute, cfg.Provider.Timeout)
	assert.Equal(t, "XAI_API_KEY", cfg.Provider.APIKeyEnv)
	assert.Equal(t, "auto", cfg.Search.Mode)
	assert.Equal(t, 50, cfg.Search.MaxSearchResults)
	assert.True(t, *cfg.Search.ReturnCitations)
	assert.Equal(t, "x", cfg.Search.SourceType)
	assert.Equal(t, 2*time.Second, cfg.Conformance.Delay)
	assert.Equal(t, dir, cfg.BaseDir())
}

func TestLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
server:
  addr: ":9090"
  shutdown_timeout: 3s
provider:
  model: grok-test
  temperature: 0
  timeout: 30s
search:
  max_search_results: 10
  return_citations: false
  post_view_count: 100
prompt:
  system_prompt: "inline prompt"
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "grok-test", cfg.Provider.Model)
	assert.Equal(t, 0.0, *cfg.Provider.Temperature)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)

	settings, err := cfg.AnalysisSettings()
	require.NoError(t, err)
	assert.Equal(t, "inline prompt", settings.SystemPrompt)
	assert.Equal(t, 10, settings.Search.MaxSearchResults)
	assert.False(t, settings.Search.ReturnCitations)
	require.NotNil(t, settings.Search.PostViewCount)
	assert.Equal(t, 100, *settings.Search.PostViewCount)
	assert.Nil(t, settings.Search.PostFavoriteCount)
}

func TestLoadRejectsInvalidSearchMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "search:\n  mode: sometimes\n")

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "server: [unterminated\n")

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestSystemPromptFromRelativeFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "prompt:\n  system_prompt_path: prompts/custom.md\n")
	writeFile(t, dir, "prompts/custom.md", "\n  Analyze carefully.  \n")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	prompt, err := cfg.SystemPrompt()
	require.NoError(t, err)
	assert.Equal(t, "Analyze carefully.", prompt)
}

func TestSystemPromptMissingFile(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	_, err = cfg.SystemPrompt()
	assert.Error(t, err)
}

func TestDotEnvProvidesSecrets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "HANDLE_ANALYZER_TEST_KEY=from-dotenv\n")
	writeFile(t, dir, "config.yaml", "provider:\n  api_key_env: HANDLE_ANALYZER_TEST_KEY\n")
	t.Cleanup(func() { os.Unsetenv("HANDLE_ANALYZER_TEST_KEY") })

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.ProviderAPIKey())
}

func TestRepositoryConfigLoads(t *testing.T) {
	cfg, err := config.Load("..")
	require.NoError(t, err)

	settings, err := cfg.AnalysisSettings()
	require.NoError(t, err)
	assert.Contains(t, settings.SystemPrompt, "qualitative_metrics")
	assert.Contains(t, settings.UserTemplate, "{{.Handle}}")
}

func TestProviderDefaultsMatchClientDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, grok.DefaultTimeout, cfg.Provider.Timeout)
	assert.Equal(t, grok.DefaultBaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, grok.DefaultChatPath, cfg.Provider.ChatPath)
}
