package archiver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestDetectMedia(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		declared string
		data     []byte
		wantExt  string
		wantType string
		wantErr  error
	}{
		{"png sniffed", "look.PNG", "", pngHeader, ".png", "image/png", nil},
		{"declared video fallback", "clip.mp4", "video/mp4", []byte("not really a video"), ".mp4", "video/mp4", nil},
		{"unsupported extension", "notes.txt", "text/plain", []byte("hello"), "", "", ErrUnsupportedMedia},
		{"text body with image name", "fake.jpg", "text/plain", []byte("hello"), "", "", ErrUnsupportedMedia},
		{"empty", "look.png", "image/png", nil, "", "", ErrEmptyMedia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := DetectMedia(tt.file, tt.declared, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, info.Ext)
			assert.Equal(t, tt.wantType, info.ContentType)
		})
	}
}

func TestArchiver_StageLoadDiscard(t *testing.T) {
	a, err := NewArchiver(t.TempDir(), nil)
	require.NoError(t, err)

	path, err := a.Stage("token-1", ".png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(a.StagingDir(), "token-1.png"), path)

	data, err := a.Load(path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, a.Discard(path))
	assert.NoFileExists(t, path)
	// already gone
	require.NoError(t, a.Discard(path))
}

func TestArchiver_RejectsPathsOutsideStaging(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArchiver(dir, nil)
	require.NoError(t, err)

	outside := filepath.Join(dir, "record.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	_, err = a.Load(outside)
	assert.Error(t, err)
	assert.Error(t, a.Discard(outside))
	assert.FileExists(t, outside)
}

func TestArchiver_Sweep(t *testing.T) {
	a, err := NewArchiver(t.TempDir(), nil)
	require.NoError(t, err)

	kept, err := a.Stage("kept", ".png", pngHeader)
	require.NoError(t, err)
	stale, err := a.Stage("stale", ".png", pngHeader)
	require.NoError(t, err)
	fresh, err := a.Stage("fresh", ".png", pngHeader)
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(kept, old, old))
	require.NoError(t, os.Chtimes(stale, old, old))

	removed, err := a.Sweep(time.Hour, func(path string) bool { return path == kept })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.FileExists(t, kept)
	assert.FileExists(t, fresh)
	assert.NoFileExists(t, stale)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFileAtomic(dir, "a.json", []byte("one")))
	require.NoError(t, WriteFileAtomic(dir, "a.json", []byte("two")))

	data, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
