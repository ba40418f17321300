package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

var (
	// Log 는 전역 로거다. Init 전에도 info 레벨로 동작한다.
	Log         = newSlogLogger("info")
	serviceName string
)

// Init 은 레벨과 바이너리 이름으로 전역 로거를 교체한다.
// 레벨이 비어 있거나 알 수 없는 값이면 info 를 사용한다.
// SERVICE_NAME 환경변수가 있으면 service 보다 우선한다.
func Init(level, service string) {
	Log = newSlogLogger(normalizeLevel(level))
	serviceName = service
	if sn := os.Getenv("SERVICE_NAME"); sn != "" {
		serviceName = sn
	}
}

func normalizeLevel(level string) string {
	switch level = strings.ToLower(strings.TrimSpace(level)); level {
	case "debug", "info", "warn", "error":
		return level
	case "warning":
		return "warn"
	default:
		return "info"
	}
}

// newSlogLogger 는 stdout 에 datetime/level/message + Fields 만 쓰는 JSON 로거다.
func newSlogLogger(level string) *slog.Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{slog.FieldKeyDatetime, slog.FieldKeyLevel, slog.FieldKeyMessage}
		f.TimeFormat = "2006-01-02T15:04:05"
	}))
	return slog.NewWithHandlers(h)
}

func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok && serviceName != "" {
		fields["service_name"] = serviceName
	}
	return fields
}

func InfoWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(withServiceName(fields))).Info(msg)
}

func DebugWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(withServiceName(fields))).Debug(msg)
}

func WarnWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(withServiceName(fields))).Warn(msg)
}

func ErrorWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(withServiceName(fields))).Error(msg)
}
