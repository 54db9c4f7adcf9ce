package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"FashionScoring_EvaluationProject/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) publish(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) last() notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func startWatcher(t *testing.T) (string, *recorder) {
	t.Helper()
	dir := t.TempDir()
	rec := &recorder{}
	uw, err := NewUploadWatcher(dir, rec.publish, nil)
	require.NoError(t, err)
	require.NoError(t, uw.Start(context.Background()))
	t.Cleanup(uw.Stop)
	return dir, rec
}

func TestUploadWatcher_DebouncesMetadataChanges(t *testing.T) {
	dir, rec := startWatcher(t)

	for _, name := range []string{"20251017_100000_aaaaaa.json", "20251017_100001_bbbbbb.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.Eventually(t, func() bool { return rec.count() >= 1 }, 3*time.Second, 20*time.Millisecond)

	// burst collapses into a single event
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, notify.EventChanged, rec.last().Type)

	require.NoError(t, os.Remove(filepath.Join(dir, "20251017_100000_aaaaaa.json")))
	require.Eventually(t, func() bool { return rec.count() == 2 }, 3*time.Second, 20*time.Millisecond)
}

func TestUploadWatcher_IgnoresMediaAndHiddenFiles(t *testing.T) {
	dir, rec := startWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "20251017_100000_aaaaaa.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-123"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.json"), []byte("x"), 0644))

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestUploadWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	uw, err := NewUploadWatcher(dir, func(notify.Event) {}, nil)
	require.NoError(t, err)
	require.NoError(t, uw.Start(context.Background()))
	uw.Stop()
	uw.Stop()
}
