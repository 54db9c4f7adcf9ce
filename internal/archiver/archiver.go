package archiver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// StagingDirName은 저장 전 업로드 파일이 머무는 하위 디렉토리
const StagingDirName = ".staging"

// 임시 파일 prefix, 목록 조회 시 무시된다
const TempPrefix = ".tmp-"

var (
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrEmptyMedia       = errors.New("empty media")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".mp4":  true,
	".mov":  true,
	".avi":  true,
}

// MediaInfo describes an accepted upload.
type MediaInfo struct {
	Ext         string
	ContentType string
}

func (m MediaInfo) IsVideo() bool { return strings.HasPrefix(m.ContentType, "video/") }

// DetectMedia checks the file extension against the allow list and sniffs the content.
// The declared type is only trusted when sniffing cannot tell.
func DetectMedia(name, declaredType string, data []byte) (MediaInfo, error) {
	if len(data) == 0 {
		return MediaInfo{}, ErrEmptyMedia
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return MediaInfo{}, fmt.Errorf("%w: extension %q", ErrUnsupportedMedia, ext)
	}

	contentType := mimetype.Detect(data).String()
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !isImageOrVideo(contentType) {
		if !isImageOrVideo(declaredType) {
			return MediaInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType)
		}
		contentType = declaredType
	}
	return MediaInfo{Ext: ext, ContentType: contentType}, nil
}

func isImageOrVideo(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// Archiver stages uploaded media until the evaluation is saved
type Archiver struct {
	stagingDir string
	logger     *zap.Logger
}

func NewArchiver(uploadDir string, logger *zap.Logger) (*Archiver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	stagingDir := filepath.Join(uploadDir, StagingDirName)
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return nil, fmt.Errorf("NewArchiver(): failed to create staging directory: %w", err)
	}
	return &Archiver{stagingDir: stagingDir, logger: logger}, nil
}

func (a *Archiver) StagingDir() string { return a.stagingDir }

// Stage writes the upload under the staging directory and returns its path.
func (a *Archiver) Stage(token, ext string, data []byte) (string, error) {
	name := filepath.Base(token + ext)
	if err := WriteFileAtomic(a.stagingDir, name, data); err != nil {
		return "", err
	}
	path := filepath.Join(a.stagingDir, name)
	a.logger.Debug("Archiver.Stage(): staged upload", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

func (a *Archiver) Load(path string) ([]byte, error) {
	if err := a.checkPath(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Discard removes a staged file. A file that is already gone is not an error.
func (a *Archiver) Discard(path string) error {
	if err := a.checkPath(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Sweep removes staged files older than the cutoff that keep is not holding on to.
func (a *Archiver) Sweep(olderThan time.Duration, keep func(path string) bool) (int, error) {
	entries, err := os.ReadDir(a.stagingDir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(a.stagingDir, e.Name())
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if keep != nil && keep(path) {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("Archiver.Sweep(): failed to remove staged file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

func (a *Archiver) checkPath(path string) error {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(a.stagingDir) {
		return fmt.Errorf("Archiver: path %q is outside the staging directory", path)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file in dir and renames it over name,
// so readers never see a partially written file.
func WriteFileAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, TempPrefix+"*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		return err
	}
	committed = true
	return nil
}
