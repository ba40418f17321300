package middleware

import (
	"github.com/gin-gonic/gin"

	"handle-analyzer/cmd/api/auth"
	"handle-analyzer/cmd/api/trace"
	"handle-analyzer/cmd/internal/logger"
)

const ContextKeySubject = "subject"

// RequireCredential 은 Authorization 헤더가 없으면 401 로 요청을 끊는다.
// verifier 가 주어지면 Bearer JWT 서명/만료까지 검증한다.
func RequireCredential(verifier *auth.JWTVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasCredential(c) {
			auth.AbortWithUnauthorized(c)
			return
		}
		if verifier == nil {
			c.Next()
			return
		}

		token, err := auth.ExtractBearerToken(c)
		if err == nil {
			var subject string
			subject, err = verifier.Verify(token)
			if err == nil {
				c.Set(ContextKeySubject, subject)
				c.Next()
				return
			}
		}

		logger.LogAnalysisFailure("credential rejected", logger.AnalysisFailure{
			RequestID: trace.RequestIDFromContext(c.Request.Context()),
			Stage:     logger.StageCredential,
			Err:       err,
		})
		auth.AbortWithUnauthorized(c)
	}
}
