package dto

// AnalyzeRequestDTO 는 분석 요청 바디다. 누락 필드 검사는 서비스 계층에서 한다.
type AnalyzeRequestDTO struct {
	XHandle  string `json:"x_handle" example:"@elonmusk"`
	FromDate string `json:"from_date" example:"2025-01-01"`
	ToDate   string `json:"to_date" example:"2025-01-31"`
}

// AnalyzeResponseDTO 는 swagger 문서용 성공 응답 형식이다.
// 실제 응답은 모델이 생성한 객체에 token_usage 를 덧붙인 것이다.
type AnalyzeResponseDTO struct {
	AnalysisMetadata   map[string]any `json:"analysis_metadata"`
	QualitativeMetrics map[string]any `json:"qualitative_metrics"`
	PatternAnalysis    map[string]any `json:"pattern_analysis"`
	ExecutiveSummary   map[string]any `json:"executive_summary"`
	TokenUsage         TokenUsageDTO  `json:"token_usage"`
	Status             map[string]any `json:"status"`
}

type TokenUsageDTO struct {
	PromptTokens      int64 `json:"prompt_tokens"`
	CompletionTokens  int64 `json:"completion_tokens"`
	TotalTokens       int64 `json:"total_tokens"`
	SearchSourcesUsed int64 `json:"search_sources_used"`
}
