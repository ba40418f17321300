package dto

const (
	ErrMissingParameters = "Missing required parameters"
	ErrProviderFailed    = "Grok API request failed"
	ErrParseFailed       = "Failed to parse Grok response as JSON"
	ErrInternalServer    = "Internal server error"
)

// ErrorResponseDTO 는 400 응답 형식이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"Missing required parameters"`
}

// ProviderErrorResponseDTO 는 프로바이더가 non-2xx 를 돌려줬을 때의 응답이다.
// 상태 코드는 프로바이더의 것을 그대로 전달한다.
type ProviderErrorResponseDTO struct {
	Error   string `json:"error" example:"Grok API request failed"`
	Details string `json:"details" example:"{\"error\":\"rate limited\"}"`
}

// ParseErrorResponseDTO 는 모델 응답이 JSON 객체가 아닐 때의 응답이다.
type ParseErrorResponseDTO struct {
	Error       string `json:"error" example:"Failed to parse Grok response as JSON"`
	RawResponse string `json:"raw_response"`
}

type InternalErrorResponseDTO struct {
	Error   string `json:"error" example:"Internal server error"`
	Message string `json:"message"`
}

type HealthResponseDTO struct {
	Status string `json:"status" example:"ok"`
}
