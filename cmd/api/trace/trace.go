package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

// maxRequestIDLen 보다 긴 인바운드 X-Request-Id 는 버리고 새로 발급한다.
const maxRequestIDLen = 64

// Info 는 분석 요청 하나의 트레이싱 정보다.
// span 은 인바운드가 0 이고, 같은 요청 안의 provider 호출마다 1,2,3... 으로 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// newID 는 하이픈 없는 UUIDv4 를 반환한다.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Start 는 인바운드 요청의 트레이스를 span 0 으로 시작한다.
// incomingID 가 비었거나 로그에 그대로 남기기 어려운 값이면 새 ID 를 발급한다.
func Start(ctx context.Context, incomingID string) (context.Context, string) {
	requestID := strings.TrimSpace(incomingID)
	if !validRequestID(requestID) {
		requestID = newID()
	}
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID}), requestID
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpanID 는 현재 span 값을 증가 없이 반환한다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(atomic.LoadInt64(&info.spanSeq), 10)
}

// NextSpanID 는 span 을 1 증가시키고 (requestID, spanID) 를 반환한다.
// 미들웨어 밖에서 호출되면 새 requestID 와 span "1" 을 돌려준다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return newID(), "1"
	}
	return info.RequestID, strconv.FormatInt(atomic.AddInt64(&info.spanSeq, 1), 10)
}
