package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"FashionScoring_EvaluationProject/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPending(t *testing.T) *PendingStorage {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPendingStorage(db)
}

func samplePending(token, fingerprint string, started time.Time) models.PendingEvaluation {
	return models.PendingEvaluation{
		Token:        token,
		Fingerprint:  fingerprint,
		OriginalName: "look.png",
		MediaType:    "image/png",
		StagedPath:   "/tmp/.staging/" + token + ".png",
		Size:         1234,
		Score:        72,
		Reason:       "Bold choices!",
		StartedAt:    started,
	}
}

func TestPendingStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	p := newTestPending(t)
	started := time.Date(2025, 10, 17, 10, 0, 0, 123456789, time.UTC)
	want := samplePending("tok-1", "look.png_1234", started)

	require.NoError(t, p.Create(ctx, want))

	got, err := p.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, want.Fingerprint, got.Fingerprint)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Reason, got.Reason)
	assert.Equal(t, want.Size, got.Size)
	assert.True(t, got.StartedAt.Equal(started))
	assert.False(t, got.Saved())

	byFP, err := p.GetByFingerprint(ctx, "look.png_1234")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", byFP.Token)

	_, err = p.GetByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrPendingNotFound)
}

func TestPendingStorage_DuplicateFingerprint(t *testing.T) {
	ctx := context.Background()
	p := newTestPending(t)
	require.NoError(t, p.Create(ctx, samplePending("a", "fp", time.Now())))
	assert.ErrorIs(t, p.Create(ctx, samplePending("b", "fp", time.Now())), ErrFingerprintExists)
}

func TestPendingStorage_MarkSavedOnce(t *testing.T) {
	ctx := context.Background()
	p := newTestPending(t)
	require.NoError(t, p.Create(ctx, samplePending("a", "fp", time.Now())))

	require.NoError(t, p.MarkSaved(ctx, "a", "20251017_100000_abcdef"))
	assert.ErrorIs(t, p.MarkSaved(ctx, "a", "20251017_100001_abcdef"), ErrPendingSaved)
	assert.ErrorIs(t, p.MarkSaved(ctx, "missing", "x"), ErrPendingNotFound)

	got, err := p.GetByToken(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.Saved())
	assert.Equal(t, "20251017_100000_abcdef", got.RecordID)
}

func TestPendingStorage_Delete(t *testing.T) {
	ctx := context.Background()
	p := newTestPending(t)
	require.NoError(t, p.Create(ctx, samplePending("a", "fp", time.Now())))

	require.NoError(t, p.Delete(ctx, "a"))
	assert.ErrorIs(t, p.Delete(ctx, "a"), ErrPendingNotFound)
	// fingerprint is free again
	require.NoError(t, p.Create(ctx, samplePending("b", "fp", time.Now())))
}

func TestPendingStorage_ListStartedBefore(t *testing.T) {
	ctx := context.Background()
	p := newTestPending(t)
	base := time.Date(2025, 10, 17, 10, 0, 0, 0, time.UTC)
	require.NoError(t, p.Create(ctx, samplePending("old", "fp1", base.Add(-2*time.Hour))))
	require.NoError(t, p.Create(ctx, samplePending("older", "fp2", base.Add(-3*time.Hour))))
	require.NoError(t, p.Create(ctx, samplePending("new", "fp3", base.Add(-time.Minute))))

	stale, err := p.ListStartedBefore(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "older", stale[0].Token)
	assert.Equal(t, "old", stale[1].Token)
}

func TestPendingStorage_HasStagedPath(t *testing.T) {
	ctx := context.Background()
	p := newTestPending(t)
	pe := samplePending("a", "fp", time.Now())
	require.NoError(t, p.Create(ctx, pe))

	held, err := p.HasStagedPath(ctx, pe.StagedPath)
	require.NoError(t, err)
	assert.True(t, held)

	held, err = p.HasStagedPath(ctx, "/tmp/.staging/other.png")
	require.NoError(t, err)
	assert.False(t, held)
}
