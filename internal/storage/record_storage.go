package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"FashionScoring_EvaluationProject/internal/archiver"
	"FashionScoring_EvaluationProject/internal/metrics"
	"FashionScoring_EvaluationProject/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const metadataExt = ".json"

// {YYYYMMDD_HHMMSS}_{6 hex}
var idPattern = regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{6}$`)

// RecordStore keeps one JSON metadata file per record next to its media file in a flat directory.
// The shared file stem is the record id and the only index.
type RecordStore struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
	suffix func() string
}

type Option func(*RecordStore)

func WithLogger(logger *zap.Logger) Option {
	return func(s *RecordStore) { s.logger = logger }
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *RecordStore) { s.now = now }
}

// WithSuffixSource overrides the random id suffix generator.
func WithSuffixSource(suffix func() string) Option {
	return func(s *RecordStore) { s.suffix = suffix }
}

func NewRecordStore(dir string, opts ...Option) (*RecordStore, error) {
	s := &RecordStore{
		dir:    dir,
		logger: zap.NewNop(),
		now:    time.Now,
		suffix: randomSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("NewRecordStore(): failed to create upload directory: %w", err)
	}
	return s, nil
}

func (s *RecordStore) Dir() string { return s.dir }

func randomSuffix() string {
	return uuid.New().String()[:6]
}

// ValidID reports whether id follows the record naming scheme.
func ValidID(id string) bool { return idPattern.MatchString(id) }

// Create persists a new record and its media, returning the generated id.
// Media is written first so a visible metadata file always has its media on disk.
func (s *RecordStore) Create(in models.NewEvaluation, media []byte) (string, error) {
	if err := validateNew(in); err != nil {
		return "", err
	}

	createdAt := s.now().Truncate(time.Second)
	stamp := createdAt.Format(models.TimestampLayout)
	id := stamp + "_" + s.suffix()
	if !ValidID(id) {
		return "", fmt.Errorf("%w: generated %q", ErrInvalidID, id)
	}

	metaName := id + metadataExt
	if _, err := os.Stat(filepath.Join(s.dir, metaName)); err == nil {
		return "", fmt.Errorf("%w: %s", ErrRecordExists, id)
	}

	mediaName := id + strings.ToLower(filepath.Ext(in.OriginalName))
	mediaPath := filepath.Join(s.dir, mediaName)
	if _, err := os.Stat(mediaPath); errors.Is(err, fs.ErrNotExist) {
		if len(media) == 0 {
			return "", fmt.Errorf("%w: no media bytes", ErrInvalidRecord)
		}
		if err := archiver.WriteFileAtomic(s.dir, mediaName, media); err != nil {
			return "", &StorageWriteError{Path: mediaPath, Err: err}
		}
	}

	diff := in.Score - in.BuyerScore
	if diff < 0 {
		diff = -diff
	}
	rec := models.EvaluationRecord{
		Filename:        mediaName,
		Score:           in.Score,
		BuyerScore:      in.BuyerScore,
		ScoreDifference: diff,
		PassingScore:    in.PassingScore,
		Passed:          in.Score >= in.PassingScore,
		Reason:          in.Reason,
		Timestamp:       stamp,
		EvalDuration:    in.EvalDuration,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := archiver.WriteFileAtomic(s.dir, metaName, data); err != nil {
		return "", &StorageWriteError{Path: filepath.Join(s.dir, metaName), Err: err}
	}

	metrics.RecordCreated()
	s.logger.Info("RecordStore.Create(): saved record",
		zap.String("id", id),
		zap.Int("score", rec.Score),
		zap.Int("buyer_score", rec.BuyerScore),
	)
	return id, nil
}

func validateNew(in models.NewEvaluation) error {
	switch {
	case in.Score < 0 || in.Score > 100:
		return fmt.Errorf("%w: score %d out of range", ErrInvalidRecord, in.Score)
	case in.BuyerScore < 0 || in.BuyerScore > 100:
		return fmt.Errorf("%w: buyer score %d out of range", ErrInvalidRecord, in.BuyerScore)
	case in.PassingScore < 0 || in.PassingScore > 100:
		return fmt.Errorf("%w: passing score %d out of range", ErrInvalidRecord, in.PassingScore)
	case in.EvalDuration != nil && *in.EvalDuration < 0:
		return fmt.Errorf("%w: negative evaluation duration", ErrInvalidRecord)
	case strings.EqualFold(filepath.Ext(in.OriginalName), metadataExt):
		return fmt.Errorf("%w: media cannot use the %s extension", ErrInvalidRecord, metadataExt)
	}
	return nil
}

// Records walks every persisted record whose media still exists. Corrupt metadata is skipped
// with a warning and orphans are skipped silently. Each call re-reads the directory.
func (s *RecordStore) Records() iter.Seq[models.EvaluationRecord] {
	return func(yield func(models.EvaluationRecord) bool) {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			s.logger.Warn("RecordStore.Records(): failed to read upload directory", zap.String("dir", s.dir), zap.Error(err))
			return
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, metadataExt) {
				continue
			}
			id := strings.TrimSuffix(name, metadataExt)
			if !ValidID(id) {
				s.logger.Debug("RecordStore.Records(): ignoring foreign json file", zap.String("file", name))
				continue
			}

			rec, err := s.load(id)
			switch {
			case err == nil:
			case errors.Is(err, ErrRecordNotFound):
				// deleted after the directory was listed
				continue
			case errors.Is(err, ErrOrphanRecord):
				metrics.RecordSkipped("orphan")
				s.logger.Debug("RecordStore.Records(): skipping orphan record", zap.String("id", id))
				continue
			default:
				metrics.RecordSkipped("corrupt")
				s.logger.Warn("RecordStore.Records(): skipping unreadable record", zap.String("id", id), zap.Error(err))
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Get loads a single live record.
func (s *RecordStore) Get(id string) (models.EvaluationRecord, error) {
	if !ValidID(id) {
		return models.EvaluationRecord{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return s.load(id)
}

func (s *RecordStore) load(id string) (models.EvaluationRecord, error) {
	var rec models.EvaluationRecord
	data, err := os.ReadFile(filepath.Join(s.dir, id+metadataExt))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rec, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		return rec, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, id, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, id, err)
	}
	if err := checkInvariants(id, &rec); err != nil {
		return rec, err
	}

	if _, err := os.Stat(filepath.Join(s.dir, rec.Filename)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rec, fmt.Errorf("%w: %s", ErrOrphanRecord, id)
		}
		return rec, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, id, err)
	}
	rec.ID = id
	return rec, nil
}

func checkInvariants(id string, rec *models.EvaluationRecord) error {
	if rec.Filename == "" || filepath.Base(rec.Filename) != rec.Filename ||
		stem(rec.Filename) != id || strings.HasSuffix(rec.Filename, metadataExt) {
		return fmt.Errorf("%w: %s: bad media reference %q", ErrCorruptRecord, id, rec.Filename)
	}
	createdAt, err := time.ParseInLocation(models.TimestampLayout, rec.Timestamp, time.Local)
	if err != nil {
		return fmt.Errorf("%w: %s: bad timestamp %q", ErrCorruptRecord, id, rec.Timestamp)
	}
	rec.CreatedAt = createdAt

	diff := rec.Score - rec.BuyerScore
	if diff < 0 {
		diff = -diff
	}
	if rec.ScoreDifference != diff || rec.Passed != (rec.Score >= rec.PassingScore) {
		return fmt.Errorf("%w: %s: derived fields do not match scores", ErrCorruptRecord, id)
	}
	return nil
}

// ReadMedia returns the media bytes of a live record.
func (s *RecordStore) ReadMedia(id string) ([]byte, error) {
	rec, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, rec.Filename))
}

// MediaPath resolves a media file name inside the upload directory for streaming.
func (s *RecordStore) MediaPath(filename string) (string, error) {
	clean := filepath.Base(filename)
	if clean != filename || strings.HasPrefix(clean, ".") || strings.HasSuffix(clean, metadataExt) {
		return "", fmt.Errorf("%w: %q", ErrMediaNotFound, filename)
	}
	path := filepath.Join(s.dir, clean)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrMediaNotFound, filename)
	}
	return path, nil
}

// Delete removes the metadata file, then its media. Missing media does not fail the delete.
// Deleting an unknown id returns ErrRecordNotFound.
func (s *RecordStore) Delete(id string) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	metaPath := filepath.Join(s.dir, id+metadataExt)
	mediaNames := s.mediaNamesFor(id, metaPath)

	if err := os.Remove(metaPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		return fmt.Errorf("RecordStore.Delete(): failed to remove metadata: %w", err)
	}

	for _, name := range mediaNames {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("RecordStore.Delete(): failed to remove media", zap.String("id", id), zap.String("file", name), zap.Error(err))
		}
	}

	metrics.RecordDeleted()
	s.logger.Info("RecordStore.Delete(): deleted record", zap.String("id", id))
	return nil
}

// mediaNamesFor returns the media referenced by the metadata, falling back to files
// sharing the id stem when the metadata cannot be parsed.
func (s *RecordStore) mediaNamesFor(id, metaPath string) []string {
	var rec models.EvaluationRecord
	if data, err := os.ReadFile(metaPath); err == nil && json.Unmarshal(data, &rec) == nil &&
		rec.Filename != "" && filepath.Base(rec.Filename) == rec.Filename && !strings.HasSuffix(rec.Filename, metadataExt) {
		return []string{rec.Filename}
	}
	matches, _ := filepath.Glob(filepath.Join(s.dir, id+"*"))
	var names []string
	for _, m := range matches {
		name := filepath.Base(m)
		if stem(name) == id && !strings.HasSuffix(name, metadataExt) {
			names = append(names, name)
		}
	}
	return names
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
