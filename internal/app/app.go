// Package app wires the stores and services shared by the API server and recordctl.
package app

import (
	"database/sql"
	"fmt"

	"FashionScoring_EvaluationProject/internal/archiver"
	"FashionScoring_EvaluationProject/internal/config"
	"FashionScoring_EvaluationProject/internal/history"
	"FashionScoring_EvaluationProject/internal/jobs"
	"FashionScoring_EvaluationProject/internal/scoring"
	"FashionScoring_EvaluationProject/internal/session"
	"FashionScoring_EvaluationProject/internal/storage"

	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *sql.DB
	Records  *storage.RecordStore
	Archiver *archiver.Archiver
	Sessions *session.Manager
	History  *history.Aggregator
	Sweeper  *jobs.OrphanSweeper
}

// New opens the database and upload directory and builds every service on top of them.
func New(cfg *config.Config, logger *zap.Logger, scorer scoring.Scorer) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		scorer = scoring.NewRandomScorer()
	}

	records, err := storage.NewRecordStore(cfg.UploadDir, storage.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	arch, err := archiver.NewArchiver(cfg.UploadDir, logger)
	if err != nil {
		return nil, err
	}
	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sessions := session.NewManager(storage.NewPendingStorage(db), records, arch, scorer, session.Config{
		PassingScore: cfg.PassingScore,
		Logger:       logger,
	})
	sweeper := jobs.NewOrphanSweeper(records, sessions, jobs.SweeperConfig{
		Schedule:    cfg.SweepSchedule,
		GracePeriod: cfg.OrphanGracePeriod,
		PendingTTL:  cfg.PendingTTL,
	}, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Records:  records,
		Archiver: arch,
		Sessions: sessions,
		History:  history.NewAggregator(records),
		Sweeper:  sweeper,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
