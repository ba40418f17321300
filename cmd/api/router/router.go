package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"handle-analyzer/cmd/api/auth"
	"handle-analyzer/cmd/api/handlers"
	"handle-analyzer/cmd/api/middleware"
	"handle-analyzer/cmd/api/services"
	_ "handle-analyzer/docs"
)

type Deps struct {
	AnalysisService *services.AnalysisService
	// Verifier 가 nil 이면 Authorization 헤더 존재 여부만 확인한다.
	Verifier *auth.JWTVerifier
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestTrace(), middleware.Recovery())

	r.GET("/health", handlers.HealthHandler())

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	analyze := handlers.AnalyzeHandler(deps.AnalysisService)
	requireCredential := middleware.RequireCredential(deps.Verifier)

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/analyze", requireCredential, analyze)
	}

	// edge function 호출 경로 호환
	r.POST("/", requireCredential, analyze)

	return r
}
