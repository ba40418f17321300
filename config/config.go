package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"handle-analyzer/grok"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Server      ServerConfig      `yaml:"server"`
	Provider    ProviderConfig    `yaml:"provider"`
	Search      SearchConfig      `yaml:"search"`
	Prompt      PromptConfig      `yaml:"prompt"`
	Auth        AuthConfig        `yaml:"auth"`
	Conformance ConformanceConfig `yaml:"conformance"`

	// baseDir 는 config.yaml 이 위치한 디렉터리다. 프롬프트 파일 등 상대 경로의 기준이 된다.
	baseDir string
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	ReadHeaderTimeout  time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

// ProviderConfig 는 xAI chat-completions 호출 설정이다.
// API 키 자체는 yaml 에 두지 않고 APIKeyEnv 가 가리키는 환경변수에서만 읽는다.
type ProviderConfig struct {
	BaseURL             string        `yaml:"base_url"`
	ChatPath            string        `yaml:"chat_path"`
	Model               string        `yaml:"model"`
	Temperature         *float64      `yaml:"temperature"`
	MaxCompletionTokens int           `yaml:"max_completion_tokens"`
	Timeout             time.Duration `yaml:"timeout"`
	APIKeyEnv           string        `yaml:"api_key_env"`
}

type SearchConfig struct {
	Mode              string `yaml:"mode"`
	MaxSearchResults  int    `yaml:"max_search_results"`
	ReturnCitations   *bool  `yaml:"return_citations"`
	SourceType        string `yaml:"source_type"`
	PostFavoriteCount *int   `yaml:"post_favorite_count"`
	PostViewCount     *int   `yaml:"post_view_count"`
}

// PromptConfig 는 시스템 프롬프트와 사용자 메시지 템플릿을 정의한다.
// SystemPrompt 가 비어 있으면 SystemPromptPath 파일을 읽는다.
type PromptConfig struct {
	SystemPrompt     string `yaml:"system_prompt"`
	SystemPromptPath string `yaml:"system_prompt_path"`
	UserTemplate     string `yaml:"user_template"`
}

// AuthConfig 는 인바운드 자격 증명 검증 설정이다.
// JWTSecretEnv 환경변수가 비어 있으면 Authorization 헤더 존재 여부만 확인한다.
type AuthConfig struct {
	JWTSecretEnv string `yaml:"jwt_secret_env"`
	JWTIssuer    string `yaml:"jwt_issuer"`
}

type ConformanceConfig struct {
	Delay time.Duration `yaml:"delay"`
}

var config *AppConfig

func InitApp() {
	c, err := Load(GetBasePath())
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// Load 는 dir 의 .env 와 config.yaml 을 읽어 기본값을 채운 AppConfig 를 반환한다.
// config.yaml 이 없으면 기본값만으로 구성한다.
func Load(dir string) (AppConfig, error) {
	// .env 는 선택 사항이다. 이미 설정된 환경변수는 덮어쓰지 않는다.
	_ = godotenv.Load(filepath.Join(dir, ENV_FILE))

	var c AppConfig
	data, err := os.ReadFile(filepath.Join(dir, CONFIG_FILE))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return AppConfig{}, fmt.Errorf("parse %s: %w", CONFIG_FILE, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return AppConfig{}, fmt.Errorf("read %s: %w", CONFIG_FILE, err)
	}

	c.baseDir = dir
	c.applyDefaults()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if err := c.validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		c.Server.ReadHeaderTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}

	p := &c.Provider
	if p.BaseURL == "" {
		p.BaseURL = grok.DefaultBaseURL
	}
	if p.ChatPath == "" {
		p.ChatPath = grok.DefaultChatPath
	}
	if p.Model == "" {
		p.Model = "grok-4-fast-reasoning"
	}
	if p.Temperature == nil {
		t := 0.5
		p.Temperature = &t
	}
	if p.MaxCompletionTokens == 0 {
		p.MaxCompletionTokens = 4096
	}
	if p.Timeout <= 0 {
		p.Timeout = grok.DefaultTimeout
	}
	if p.APIKeyEnv == "" {
		p.APIKeyEnv = "XAI_API_KEY"
	}

	s := &c.Search
	if s.Mode == "" {
		s.Mode = "auto"
	}
	if s.MaxSearchResults == 0 {
		s.MaxSearchResults = 50
	}
	if s.ReturnCitations == nil {
		v := true
		s.ReturnCitations = &v
	}
	if s.SourceType == "" {
		s.SourceType = "x"
	}

	if c.Prompt.SystemPrompt == "" && c.Prompt.SystemPromptPath == "" {
		c.Prompt.SystemPromptPath = "prompts/x_handle_analysis.md"
	}
	if c.Auth.JWTSecretEnv == "" {
		c.Auth.JWTSecretEnv = "JWT_SECRET"
	}
	if c.Conformance.Delay <= 0 {
		c.Conformance.Delay = 2 * time.Second
	}
}

func (c AppConfig) validate() error {
	switch strings.ToLower(c.Search.Mode) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("search.mode must be one of auto|on|off, got %q", c.Search.Mode)
	}
	if c.Search.MaxSearchResults < 1 {
		return fmt.Errorf("search.max_search_results must be positive, got %d", c.Search.MaxSearchResults)
	}
	if t := *c.Provider.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("provider.temperature must be within [0, 2], got %v", t)
	}
	if c.Provider.MaxCompletionTokens < 0 {
		return fmt.Errorf("provider.max_completion_tokens must not be negative")
	}
	return nil
}

// BaseDir 는 설정 파일 기준 디렉터리다.
func (c AppConfig) BaseDir() string {
	return c.baseDir
}

// ProviderAPIKey 는 provider 자격 증명을 환경변수에서 읽는다.
func (c AppConfig) ProviderAPIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}

// JWTSecret 은 인바운드 토큰 검증용 시크릿이다. 비어 있으면 검증을 하지 않는다.
func (c AppConfig) JWTSecret() string {
	return os.Getenv(c.Auth.JWTSecretEnv)
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}
