package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"handle-analyzer/analysis"
	"handle-analyzer/cmd/api/dto"
	"handle-analyzer/cmd/api/services"
)

// AnalyzeHandler godoc
// @Summary      X 핸들 분석
// @Description  핸들과 기간을 받아 Grok Live Search 로 게시물을 분석한 JSON 문서를 반환한다.
// @Tags         analysis
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AnalyzeRequestDTO  true  "analysis request"
// @Success      200   {object}  dto.AnalyzeResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {string}  string  "Unauthorized"
// @Failure      500   {object}  dto.ParseErrorResponseDTO    "모델 응답 파싱 실패"
// @Failure      default  {object}  dto.ProviderErrorResponseDTO "provider 가 돌려준 상태 코드를 그대로 전달"
// @Router       /api/v1/analyze [post]
func AnalyzeHandler(svc *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.AnalyzeRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusInternalServerError, dto.InternalErrorResponseDTO{
				Error:   dto.ErrInternalServer,
				Message: err.Error(),
			})
			return
		}

		result, analysisErr := svc.Analyze(c.Request.Context(), analysis.Request{
			Handle:   req.XHandle,
			FromDate: req.FromDate,
			ToDate:   req.ToDate,
		})
		if analysisErr != nil {
			writeAnalysisError(c, analysisErr)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func writeAnalysisError(c *gin.Context, analysisErr *services.AnalysisError) {
	switch analysisErr.Kind {
	case services.KindBadRequest:
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: dto.ErrMissingParameters})
	case services.KindProvider:
		c.JSON(analysisErr.StatusCode, dto.ProviderErrorResponseDTO{
			Error:   dto.ErrProviderFailed,
			Details: analysisErr.Details,
		})
	case services.KindInvalidResponse:
		c.JSON(http.StatusInternalServerError, dto.ParseErrorResponseDTO{
			Error:       dto.ErrParseFailed,
			RawResponse: analysisErr.RawResponse,
		})
	default:
		message := analysisErr.Error()
		if analysisErr.Cause != nil {
			message = analysisErr.Cause.Error()
		}
		c.JSON(http.StatusInternalServerError, dto.InternalErrorResponseDTO{
			Error:   dto.ErrInternalServer,
			Message: message,
		})
	}
}
