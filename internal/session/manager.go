// Package session keeps the machine score of an upload stable until it is saved.
// Uploads are recognised by a fingerprint of their original name and size.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FashionScoring_EvaluationProject/internal/archiver"
	"FashionScoring_EvaluationProject/internal/metrics"
	"FashionScoring_EvaluationProject/internal/models"
	"FashionScoring_EvaluationProject/internal/scoring"
	"FashionScoring_EvaluationProject/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAlreadySaved      = errors.New("evaluation already saved")
	ErrInvalidBuyerScore = errors.New("buyer score must be between 0 and 100")
	ErrPendingNotFound   = storage.ErrPendingNotFound
)

// Upload is one file handed over by the upload endpoint.
type Upload struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
}

func Fingerprint(name string, size int64) string {
	return fmt.Sprintf("%s_%d", name, size)
}

type Config struct {
	PassingScore int
	Now          func() time.Time
	Logger       *zap.Logger
}

type Manager struct {
	pending  *storage.PendingStorage
	records  *storage.RecordStore
	archiver *archiver.Archiver
	scorer   scoring.Scorer

	passingScore int
	now          func() time.Time
	logger       *zap.Logger

	// serialises Begin/Save so identical uploads share one memo entry
	mu sync.Mutex
}

func NewManager(pending *storage.PendingStorage, records *storage.RecordStore, arch *archiver.Archiver, scorer scoring.Scorer, cfg Config) *Manager {
	m := &Manager{
		pending:      pending,
		records:      records,
		archiver:     arch,
		scorer:       scorer,
		passingScore: cfg.PassingScore,
		now:          cfg.Now,
		logger:       cfg.Logger,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

func (m *Manager) PassingScore() int { return m.passingScore }

// Begin returns the unsaved pending evaluation for the same upload, or scores and stages a new one.
// The bool result reports whether an existing entry was reused.
func (m *Manager) Begin(ctx context.Context, up Upload) (models.PendingEvaluation, bool, error) {
	info, err := archiver.DetectMedia(up.Name, up.MediaType, up.Data)
	if err != nil {
		return models.PendingEvaluation{}, false, err
	}
	size := up.Size
	if size <= 0 {
		size = int64(len(up.Data))
	}
	fingerprint := Fingerprint(up.Name, size)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.pending.GetByFingerprint(ctx, fingerprint)
	switch {
	case err == nil && !existing.Saved():
		m.logger.Debug("Manager.Begin(): reusing pending evaluation", zap.String("token", existing.Token))
		return existing, true, nil
	case err == nil:
		// same file uploaded again after it was saved: start a fresh evaluation
		if err := m.pending.Delete(ctx, existing.Token); err != nil && !errors.Is(err, storage.ErrPendingNotFound) {
			return models.PendingEvaluation{}, false, err
		}
	case !errors.Is(err, storage.ErrPendingNotFound):
		return models.PendingEvaluation{}, false, err
	}

	token := uuid.New().String()
	stagedPath, err := m.archiver.Stage(token, info.Ext, up.Data)
	if err != nil {
		return models.PendingEvaluation{}, false, &storage.StorageWriteError{Path: token + info.Ext, Err: err}
	}
	metrics.ObserveUpload(len(up.Data))

	assessment := m.scorer.Assess()
	pe := models.PendingEvaluation{
		Token:        token,
		Fingerprint:  fingerprint,
		OriginalName: up.Name,
		MediaType:    info.ContentType,
		StagedPath:   stagedPath,
		Size:         size,
		Score:        assessment.Score,
		Reason:       assessment.Reason,
		StartedAt:    m.now(),
	}
	if err := m.pending.Create(ctx, pe); err != nil {
		m.archiver.Discard(stagedPath)
		return models.PendingEvaluation{}, false, err
	}

	m.logger.Info("Manager.Begin(): new evaluation",
		zap.String("token", token),
		zap.String("fingerprint", fingerprint),
		zap.Int("score", pe.Score),
	)
	return pe, false, nil
}

// Get returns the pending evaluation for a token.
func (m *Manager) Get(ctx context.Context, token string) (models.PendingEvaluation, error) {
	return m.pending.GetByToken(ctx, token)
}

// Save writes the record for a pending evaluation. A second save of the same token returns
// ErrAlreadySaved together with the id of the first record.
func (m *Manager) Save(ctx context.Context, token string, buyerScore int) (string, error) {
	if buyerScore < 0 || buyerScore > scoring.MaxScore {
		return "", ErrInvalidBuyerScore
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pe, err := m.pending.GetByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if pe.Saved() {
		return pe.RecordID, ErrAlreadySaved
	}

	media, err := m.archiver.Load(pe.StagedPath)
	if err != nil {
		return "", fmt.Errorf("Manager.Save(): failed to read staged media: %w", err)
	}

	duration := m.now().Sub(pe.StartedAt).Seconds()
	if duration < 0 {
		duration = 0
	}
	id, err := m.records.Create(models.NewEvaluation{
		OriginalName: pe.OriginalName,
		Score:        pe.Score,
		BuyerScore:   buyerScore,
		PassingScore: m.passingScore,
		Reason:       pe.Reason,
		EvalDuration: &duration,
	}, media)
	if err != nil {
		return "", err
	}

	if err := m.pending.MarkSaved(ctx, token, id); err != nil {
		m.logger.Error("Manager.Save(): record saved but pending entry not updated", zap.String("token", token), zap.String("id", id), zap.Error(err))
	}
	if err := m.archiver.Discard(pe.StagedPath); err != nil {
		m.logger.Warn("Manager.Save(): failed to discard staged media", zap.String("path", pe.StagedPath), zap.Error(err))
	}
	return id, nil
}

// Discard drops an unsaved evaluation and its staged media.
func (m *Manager) Discard(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pe, err := m.pending.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := m.pending.Delete(ctx, token); err != nil {
		return err
	}
	return m.archiver.Discard(pe.StagedPath)
}

// ExpireStale removes pending entries older than ttl and staged files nothing refers to.
func (m *Manager) ExpireStale(ctx context.Context, ttl time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stale, err := m.pending.ListStartedBefore(ctx, m.now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, pe := range stale {
		if err := m.pending.Delete(ctx, pe.Token); err != nil && !errors.Is(err, storage.ErrPendingNotFound) {
			m.logger.Warn("Manager.ExpireStale(): failed to delete pending entry", zap.String("token", pe.Token), zap.Error(err))
			continue
		}
		m.archiver.Discard(pe.StagedPath)
		expired++
	}

	if _, err := m.archiver.Sweep(ttl, func(path string) bool {
		held, err := m.pending.HasStagedPath(ctx, path)
		return err != nil || held
	}); err != nil {
		m.logger.Warn("Manager.ExpireStale(): failed to sweep staging directory", zap.Error(err))
	}
	return expired, nil
}
