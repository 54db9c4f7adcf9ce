// Package server assembles the gin engine.
package server

import (
	"FashionScoring_EvaluationProject/internal/handler"
	"FashionScoring_EvaluationProject/internal/metrics"
	"FashionScoring_EvaluationProject/internal/middleware"

	_ "FashionScoring_EvaluationProject/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *zap.Logger
}

func NewRouter(h *handler.Handler, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), metrics.Middleware())

	config := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = opts.AllowedOrigins
	}
	router.Use(cors.New(config))

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws/history", h.HistoryFeed)

	api := router.Group("/api")
	{
		// 쓰기 요청만 제한
		writes := api.Group("/evaluations")
		if opts.RateLimitRPS > 0 {
			writes.Use(middleware.RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
		}
		if opts.MaxUploadBytes > 0 {
			writes.Use(middleware.BodyLimitMiddleware(opts.MaxUploadBytes))
		}
		writes.POST("", h.UploadEvaluations)
		writes.GET("/:token", h.GetEvaluation)
		writes.POST("/:token/save", h.SaveEvaluation)
		writes.DELETE("/:token", h.DiscardEvaluation)

		api.GET("/history", h.GetHistory)
		api.GET("/history/summary", h.GetSummary)
		api.GET("/history/:id", h.GetRecord)
		api.DELETE("/history/:id", h.DeleteRecord)
		api.GET("/media/:filename", h.StreamMedia)
	}
	return router
}
