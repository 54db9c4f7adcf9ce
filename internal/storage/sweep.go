package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"FashionScoring_EvaluationProject/internal/archiver"
	"FashionScoring_EvaluationProject/internal/models"

	"go.uber.org/zap"
)

// SweepReport counts what SweepOrphans removed.
type SweepReport struct {
	OrphanMetadata int `json:"orphan_metadata"`
	StrayMedia     int `json:"stray_media"`
	TempFiles      int `json:"temp_files"`
}

func (r SweepReport) Total() int { return r.OrphanMetadata + r.StrayMedia + r.TempFiles }

// SweepOrphans garbage-collects files older than the grace period:
// metadata whose media is gone, media that no metadata shares a stem with,
// and temp files left behind by interrupted writes.
func (s *RecordStore) SweepOrphans(olderThan time.Duration) (SweepReport, error) {
	var report SweepReport
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return report, err
	}
	cutoff := s.now().Add(-olderThan)

	stems := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, metadataExt) && ValidID(strings.TrimSuffix(name, metadataExt)) {
			stems[strings.TrimSuffix(name, metadataExt)] = true
		}
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		switch {
		case strings.HasPrefix(name, archiver.TempPrefix):
			if s.remove(name) {
				report.TempFiles++
			}
		case strings.HasPrefix(name, "."):
		case strings.HasSuffix(name, metadataExt):
			id := strings.TrimSuffix(name, metadataExt)
			if !ValidID(id) || !s.mediaMissing(id) {
				continue
			}
			if s.remove(name) {
				report.OrphanMetadata++
				delete(stems, id)
			}
		default:
			id := stem(name)
			if !ValidID(id) || stems[id] {
				continue
			}
			if s.remove(name) {
				report.StrayMedia++
			}
		}
	}

	if report.Total() > 0 {
		s.logger.Info("RecordStore.SweepOrphans(): removed dangling files",
			zap.Int("orphan_metadata", report.OrphanMetadata),
			zap.Int("stray_media", report.StrayMedia),
			zap.Int("temp_files", report.TempFiles),
		)
	}
	return report, nil
}

// mediaMissing is true only when the metadata parses and its media file does not exist.
// Corrupt metadata is left alone for an operator to inspect.
func (s *RecordStore) mediaMissing(id string) bool {
	data, err := os.ReadFile(filepath.Join(s.dir, id+metadataExt))
	if err != nil {
		return false
	}
	var rec models.EvaluationRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Filename == "" || filepath.Base(rec.Filename) != rec.Filename {
		return false
	}
	_, err = os.Stat(filepath.Join(s.dir, rec.Filename))
	return errors.Is(err, fs.ErrNotExist)
}

func (s *RecordStore) remove(name string) bool {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("RecordStore.SweepOrphans(): failed to remove file", zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}
