package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"handle-analyzer/analysis"
	"handle-analyzer/cmd/api/trace"
	"handle-analyzer/cmd/internal/logger"
	"handle-analyzer/grok"
)

// Completer 는 chat-completions 호출 한 번을 수행한다. *grok.Client 가 구현한다.
type Completer interface {
	ChatCompletion(ctx context.Context, req grok.ChatCompletionRequest) (grok.ChatCompletionResponse, error)
}

type ErrorKind string

const (
	KindBadRequest      ErrorKind = "bad_request"
	KindProvider        ErrorKind = "provider_error"
	KindInvalidResponse ErrorKind = "invalid_response_shape"
	KindInternal        ErrorKind = "internal_error"
)

// AnalysisError 는 분석 파이프라인의 실패를 HTTP 응답으로 변환하기 위한 정보를 담는다.
type AnalysisError struct {
	Kind       ErrorKind
	StatusCode int
	// Details 는 provider 에러 본문 원문 (KindProvider)
	Details string
	// RawResponse 는 파싱에 실패한 모델 응답 원문 (KindInvalidResponse)
	RawResponse string
	Cause       error
}

func (e *AnalysisError) Error() string {
	if e == nil {
		return string(KindInternal)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *AnalysisError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type AnalysisService struct {
	completer Completer
	builder   *analysis.PayloadBuilder
}

func NewAnalysisService(completer Completer, builder *analysis.PayloadBuilder) *AnalysisService {
	return &AnalysisService{completer: completer, builder: builder}
}

// Analyze 는 validate → normalize → call → parse → augment 를 한 번 수행한다.
// 어느 단계든 실패하면 즉시 반환하며 재시도하지 않는다.
func (s *AnalysisService) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, *AnalysisError) {
	if err := req.Validate(); err != nil {
		return analysis.Result{}, &AnalysisError{Kind: KindBadRequest, StatusCode: http.StatusBadRequest, Cause: err}
	}
	normalized := req.Normalized()

	payload, err := s.builder.Build(normalized)
	if err != nil {
		return analysis.Result{}, internalError(fmt.Errorf("build payload: %w", err))
	}

	resp, err := s.completer.ChatCompletion(ctx, payload)
	if err != nil {
		var httpErr *grok.HTTPError
		if errors.As(err, &httpErr) {
			logger.LogAnalysisFailure("grok api request failed", logger.AnalysisFailure{
				RequestID: trace.RequestIDFromContext(ctx),
				Handle:    normalized.Handle,
				Stage:     logger.StageProvider,
				Status:    httpErr.StatusCode,
				Details:   httpErr.Body,
			})
			return analysis.Result{}, &AnalysisError{
				Kind:       KindProvider,
				StatusCode: httpErr.StatusCode,
				Details:    httpErr.Body,
				Cause:      err,
			}
		}
		return analysis.Result{}, internalError(err)
	}

	content, ok := resp.Content()
	if !ok {
		return analysis.Result{}, invalidResponse(string(resp.Raw), errors.New("response has no choices"))
	}

	result, err := analysis.ParseResult(content)
	if err != nil {
		logger.LogAnalysisFailure("failed to parse grok response", logger.AnalysisFailure{
			RequestID: trace.RequestIDFromContext(ctx),
			Handle:    normalized.Handle,
			Stage:     logger.StageParse,
			Err:       err,
		})
		return analysis.Result{}, invalidResponse(content, err)
	}

	if err := result.SetHandleAnalyzed(normalized.Handle); err != nil {
		logger.LogAnalysisFailure("could not rewrite handle_analyzed", logger.AnalysisFailure{
			RequestID: trace.RequestIDFromContext(ctx),
			Handle:    normalized.Handle,
			Stage:     logger.StageAugment,
			Err:       err,
		})
	}
	if err := result.SetTokenUsage(analysis.UsageFromProvider(resp.Usage)); err != nil {
		return analysis.Result{}, internalError(err)
	}

	return result, nil
}

func invalidResponse(raw string, cause error) *AnalysisError {
	return &AnalysisError{
		Kind:        KindInvalidResponse,
		StatusCode:  http.StatusInternalServerError,
		RawResponse: raw,
		Cause:       cause,
	}
}

func internalError(cause error) *AnalysisError {
	return &AnalysisError{Kind: KindInternal, StatusCode: http.StatusInternalServerError, Cause: cause}
}
