package httpclient

import (
	"net/http"
	"time"

	"handle-analyzer/cmd/api/trace"
	"handle-analyzer/cmd/internal/logger"
)

// Config 는 아웃바운드 HTTP 클라이언트 공통 설정이다.
type Config struct {
	Timeout time.Duration
	// Transport 가 nil 이면 http.DefaultTransport 를 사용한다.
	Transport http.RoundTripper
}

// loggingRoundTripper 는 모든 아웃바운드 호출에 X-Request-Id/X-Span-Id 를 붙이고 결과를 로깅한다.
// 요청 바디는 시스템 프롬프트 전체를 담고 있으므로 크기만 남긴다.
// Authorization 헤더는 절대 로깅하지 않는다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	// RoundTripper 는 원본 요청을 수정하면 안 되므로 복제한 뒤 헤더를 세팅한다.
	out := req.Clone(req.Context())
	out.Header.Set(trace.HeaderRequestID, requestID)
	out.Header.Set(trace.HeaderSpanID, spanID)

	fields := logger.Fields{
		"method":        req.Method,
		"url":           req.URL.String(),
		"request_bytes": req.ContentLength,
		"request_id":    requestID,
		"span_id":       spanID,
	}

	resp, err := l.inner.RoundTrip(out)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		logger.WarnWithFields("httpclient request returned error status", fields)
	} else {
		logger.DebugWithFields("httpclient request success", fields)
	}
	return resp, nil
}

// New 는 주어진 설정으로 http.Client 를 생성한다.
// Timeout 이 0 이면 기본값 10초를 사용한다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport},
	}
}

// NewDefault 는 기본 설정(Timeout 10초)의 http.Client 를 생성한다.
func NewDefault() *http.Client {
	return New(Config{})
}
