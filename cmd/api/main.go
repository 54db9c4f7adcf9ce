package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FashionScoring_EvaluationProject/internal/app"
	"FashionScoring_EvaluationProject/internal/config"
	"FashionScoring_EvaluationProject/internal/handler"
	"FashionScoring_EvaluationProject/internal/logging"
	"FashionScoring_EvaluationProject/internal/notify"
	"FashionScoring_EvaluationProject/internal/server"
	"FashionScoring_EvaluationProject/internal/watcher"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Fashion Scoring Evaluation API
// @version         1.0
// @description     코디 사진/영상 채점, 구매자 점수 비교 및 평가 기록 관리 API
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg, logger, nil)
	if err != nil {
		logger.Fatal("failed to initialise application", zap.Error(err))
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := notify.NewHub(logger)
	defer hub.Close()

	if cfg.WatchUploads {
		uw, err := watcher.NewUploadWatcher(cfg.UploadDir, hub.Publish, logger)
		if err != nil {
			logger.Warn("upload watcher disabled", zap.Error(err))
		} else if err := uw.Start(ctx); err != nil {
			logger.Warn("upload watcher disabled", zap.Error(err))
		} else {
			defer uw.Stop()
		}
	}

	if err := a.Sweeper.Start(); err != nil {
		logger.Fatal("failed to start orphan sweeper", zap.Error(err))
	}
	defer a.Sweeper.Stop()

	h := handler.NewHandler(a.Sessions, a.Records, a.History, hub, logger)
	router := server.NewRouter(h, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.HTTPAddr), zap.String("upload_dir", cfg.UploadDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
