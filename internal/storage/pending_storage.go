package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"FashionScoring_EvaluationProject/internal/models"

	"modernc.org/sqlite"
)

// sqlite extended result codes for UNIQUE and PRIMARY KEY violations
const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
)

// fixed width so started_at compares correctly as TEXT
const startedAtLayout = "2006-01-02T15:04:05.000000000Z"

const pendingColumns = `token, fingerprint, original_name, media_type, staged_path, size, score, reason, started_at, record_id`

// PendingStorage persists the per-upload score memo
type PendingStorage struct {
	db *sql.DB
}

func NewPendingStorage(db *sql.DB) *PendingStorage {
	return &PendingStorage{db: db}
}

func (p *PendingStorage) Create(ctx context.Context, pe models.PendingEvaluation) error {
	stmt, err := p.db.PrepareContext(ctx, "INSERT INTO pending_evaluations("+pendingColumns+") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		pe.Token, pe.Fingerprint, pe.OriginalName, pe.MediaType, pe.StagedPath,
		pe.Size, pe.Score, pe.Reason, pe.StartedAt.UTC().Format(startedAtLayout), nullString(pe.RecordID),
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			if code := sqliteErr.Code(); code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey {
				return ErrFingerprintExists
			}
		}
		return err
	}
	return nil
}

func (p *PendingStorage) GetByToken(ctx context.Context, token string) (models.PendingEvaluation, error) {
	row := p.db.QueryRowContext(ctx, "SELECT "+pendingColumns+" FROM pending_evaluations WHERE token = ?", token)
	return scanPending(row)
}

func (p *PendingStorage) GetByFingerprint(ctx context.Context, fingerprint string) (models.PendingEvaluation, error) {
	row := p.db.QueryRowContext(ctx, "SELECT "+pendingColumns+" FROM pending_evaluations WHERE fingerprint = ?", fingerprint)
	return scanPending(row)
}

// MarkSaved links the pending entry to the record created from it. Only the first save wins.
func (p *PendingStorage) MarkSaved(ctx context.Context, token, recordID string) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE pending_evaluations SET record_id = ? WHERE token = ? AND record_id IS NULL", recordID, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	if _, err := p.GetByToken(ctx, token); err != nil {
		return err
	}
	return ErrPendingSaved
}

func (p *PendingStorage) Delete(ctx context.Context, token string) error {
	res, err := p.db.ExecContext(ctx, "DELETE FROM pending_evaluations WHERE token = ?", token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPendingNotFound
	}
	return nil
}

// ListStartedBefore returns entries whose evaluation started before the cutoff.
func (p *PendingStorage) ListStartedBefore(ctx context.Context, cutoff time.Time) ([]models.PendingEvaluation, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT "+pendingColumns+" FROM pending_evaluations WHERE started_at < ? ORDER BY started_at",
		cutoff.UTC().Format(startedAtLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []models.PendingEvaluation
	for rows.Next() {
		pe, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, pe)
	}
	return pending, rows.Err()
}

// HasStagedPath reports whether any entry still points at the staged file.
func (p *PendingStorage) HasStagedPath(ctx context.Context, path string) (bool, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM pending_evaluations WHERE staged_path = ?", path).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPending(row rowScanner) (models.PendingEvaluation, error) {
	var pe models.PendingEvaluation
	var startedStr string
	var recordID sql.NullString

	if err := row.Scan(
		&pe.Token, &pe.Fingerprint, &pe.OriginalName, &pe.MediaType, &pe.StagedPath,
		&pe.Size, &pe.Score, &pe.Reason, &startedStr, &recordID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pe, ErrPendingNotFound
		}
		return pe, err
	}

	startedAt, err := time.Parse(startedAtLayout, startedStr)
	if err != nil {
		return pe, fmt.Errorf("scanPending(): bad started_at %q: %w", startedStr, err)
	}
	pe.StartedAt = startedAt
	if recordID.Valid {
		pe.RecordID = recordID.String
	}
	return pe, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
