package jobs

import (
	"context"
	"fmt"
	"time"

	"FashionScoring_EvaluationProject/internal/metrics"
	"FashionScoring_EvaluationProject/internal/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RecordSweeper is the part of the record store the sweeper needs.
type RecordSweeper interface {
	SweepOrphans(olderThan time.Duration) (storage.SweepReport, error)
}

// PendingExpirer is the part of the session manager the sweeper needs.
type PendingExpirer interface {
	ExpireStale(ctx context.Context, ttl time.Duration) (int, error)
}

type SweeperConfig struct {
	Schedule    string        // cron spec, e.g. "@every 1h"
	GracePeriod time.Duration // how old an orphan must be before removal
	PendingTTL  time.Duration // how long an unsaved upload keeps its score
}

// OrphanSweeper periodically removes dangling metadata, stray media and expired pending uploads
type OrphanSweeper struct {
	records RecordSweeper
	pending PendingExpirer
	config  SweeperConfig
	cron    *cron.Cron
	logger  *zap.Logger
}

// SweepResult summarises one run.
type SweepResult struct {
	Files          storage.SweepReport
	ExpiredPending int
}

func NewOrphanSweeper(records RecordSweeper, pending PendingExpirer, config SweeperConfig, logger *zap.Logger) *OrphanSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrphanSweeper{
		records: records,
		pending: pending,
		config:  config,
		cron:    cron.New(),
		logger:  logger,
	}
}

func (s *OrphanSweeper) Start() error {
	if s.config.Schedule == "" {
		s.logger.Info("OrphanSweeper: no schedule configured, sweeper disabled")
		return nil
	}
	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("OrphanSweeper: sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule orphan sweep: %w", err)
	}
	s.cron.Start()
	s.logger.Info("OrphanSweeper: started", zap.String("schedule", s.config.Schedule))
	return nil
}

func (s *OrphanSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce performs a single sweep.
func (s *OrphanSweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	report, err := s.records.SweepOrphans(s.config.GracePeriod)
	if err != nil {
		return result, fmt.Errorf("sweep upload directory: %w", err)
	}
	result.Files = report
	metrics.FilesSwept("orphan_metadata", report.OrphanMetadata)
	metrics.FilesSwept("stray_media", report.StrayMedia)
	metrics.FilesSwept("temp", report.TempFiles)

	if s.pending != nil {
		expired, err := s.pending.ExpireStale(ctx, s.config.PendingTTL)
		if err != nil {
			return result, fmt.Errorf("expire pending uploads: %w", err)
		}
		result.ExpiredPending = expired
		metrics.FilesSwept("pending", expired)
	}

	s.logger.Info("OrphanSweeper: sweep finished",
		zap.Int("files_removed", report.Total()),
		zap.Int("pending_expired", result.ExpiredPending),
	)
	return result, nil
}
