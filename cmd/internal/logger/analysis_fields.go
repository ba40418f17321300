package logger

// Stage 는 분석 파이프라인에서 실패가 난 단계다.
type Stage string

const (
	StageCredential Stage = "credential"
	StageProvider   Stage = "provider"
	StageParse      Stage = "parse"
	StageAugment    Stage = "augment"
	StagePanic      Stage = "panic"
)

// AnalysisFailure 는 분석 요청 실패 로그의 필드 집합이다.
// 비어 있는 값은 로그에 남기지 않는다.
type AnalysisFailure struct {
	RequestID string
	Handle    string
	Stage     Stage
	// Status 는 provider 가 돌려준 HTTP 상태 코드 (StageProvider)
	Status int
	// Details 는 provider 에러 본문 원문
	Details string
	Err     error
}

func (f AnalysisFailure) Fields() Fields {
	fields := Fields{"stage": string(f.Stage)}
	if f.RequestID != "" {
		fields["request_id"] = f.RequestID
	}
	if f.Handle != "" {
		fields["handle"] = f.Handle
	}
	if f.Status != 0 {
		fields["provider_status"] = f.Status
	}
	if f.Details != "" {
		fields["details"] = f.Details
	}
	if f.Err != nil {
		fields["error"] = f.Err.Error()
	}
	return fields
}

func LogAnalysisFailure(msg string, f AnalysisFailure) {
	if f.Stage == StageAugment || f.Stage == StageCredential {
		WarnWithFields(msg, f.Fields())
		return
	}
	ErrorWithFields(msg, f.Fields())
}
