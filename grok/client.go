package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

const (
	DefaultBaseURL  = "https://api.x.ai/v1"
	DefaultChatPath = "/chat/completions"
	// DefaultTimeout 은 reasoning 모델의 긴 응답 시간을 고려한 기본 호출 타임아웃이다.
	DefaultTimeout = 5 * time.Minute

	maxBodySize = 10 * 1024 * 1024
)

var ErrDecodeResponse = errors.New("grok: response body is not a chat completion")

// HTTPError 는 provider 가 2xx 이외의 상태 코드를 돌려준 경우의 에러이다.
// Body 에는 provider 가 보낸 에러 본문 원문이 그대로 담긴다.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("grok request failed: status=%d body=%s", e.StatusCode, e.Body)
}

type Config struct {
	BaseURL  string
	ChatPath string
	APIKey   string
}

// Client 는 xAI chat-completions 엔드포인트 호출을 담당한다.
// 재시도는 하지 않는다. 한 번의 호출 결과를 그대로 상위로 전달한다.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// New 는 Client 를 생성한다. httpClient 가 nil 이면 DefaultTimeout 의 기본 클라이언트를 사용한다.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	chatPath := cfg.ChatPath
	if chatPath == "" {
		chatPath = DefaultChatPath
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("grok: invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("grok: base url must be absolute: %q", baseURL)
	}
	base.Path = path.Join(base.Path, chatPath)

	return &Client{
		httpClient: httpClient,
		endpoint:   base.String(),
		apiKey:     cfg.APIKey,
	}, nil
}

// Endpoint 는 실제 호출되는 chat-completions URL 이다.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ChatCompletion 은 payload 를 POST 하고 응답을 디코딩한다.
// provider 가 2xx 가 아닌 상태를 반환하면 *HTTPError 를 돌려준다.
func (c *Client) ChatCompletion(ctx context.Context, payload ChatCompletionRequest) (ChatCompletionResponse, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return ChatCompletionResponse{}, fmt.Errorf("grok: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return ChatCompletionResponse{}, fmt.Errorf("grok: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ChatCompletionResponse{}, fmt.Errorf("grok: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return ChatCompletionResponse{}, fmt.Errorf("grok: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ChatCompletionResponse{}, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out ChatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return ChatCompletionResponse{}, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	out.Raw = body
	return out, nil
}
