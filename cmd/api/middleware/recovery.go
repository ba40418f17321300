package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"handle-analyzer/cmd/api/dto"
	"handle-analyzer/cmd/api/trace"
	"handle-analyzer/cmd/internal/logger"
)

// Recovery 는 핸들러 panic 을 잡아 InternalError JSON 으로 응답한다.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			message := fmt.Sprint(recovered)
			logger.LogAnalysisFailure("panic recovered", logger.AnalysisFailure{
				RequestID: trace.RequestIDFromContext(c.Request.Context()),
				Stage:     logger.StagePanic,
				Err:       errors.New(message),
			})
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalErrorResponseDTO{
				Error:   dto.ErrInternalServer,
				Message: message,
			})
		}()
		c.Next()
	}
}
