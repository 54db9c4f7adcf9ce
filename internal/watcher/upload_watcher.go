package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"FashionScoring_EvaluationProject/internal/notify"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// UploadWatcher watches the upload directory for metadata files appearing or disappearing,
// including edits made outside this process, and publishes a debounced "changed" event.
type UploadWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	publish  func(notify.Event)
	debounce time.Duration
	logger   *zap.Logger

	dirty     bool
	lastEvent time.Time
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewUploadWatcher(dir string, publish func(notify.Event), logger *zap.Logger) (*UploadWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadWatcher{
		watcher:  w,
		dir:      dir,
		publish:  publish,
		debounce: 250 * time.Millisecond,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start is non-blocking; events are processed on a background goroutine.
func (uw *UploadWatcher) Start(ctx context.Context) error {
	uw.mu.Lock()
	if uw.running {
		uw.mu.Unlock()
		return nil
	}
	uw.running = true
	uw.mu.Unlock()

	if err := uw.watcher.Add(uw.dir); err != nil {
		return err
	}
	uw.logger.Info("UploadWatcher: watching directory", zap.String("dir", uw.dir))
	go uw.run(ctx)
	return nil
}

func (uw *UploadWatcher) Stop() {
	uw.mu.Lock()
	if !uw.running {
		uw.mu.Unlock()
		return
	}
	uw.running = false
	uw.mu.Unlock()

	close(uw.stopCh)
	<-uw.doneCh
	if err := uw.watcher.Close(); err != nil {
		uw.logger.Warn("UploadWatcher: error closing watcher", zap.Error(err))
	}
}

func (uw *UploadWatcher) run(ctx context.Context) {
	defer close(uw.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-uw.stopCh:
			return
		case event, ok := <-uw.watcher.Events:
			if !ok {
				return
			}
			uw.handleEvent(event)
		case err, ok := <-uw.watcher.Errors:
			if !ok {
				return
			}
			uw.logger.Warn("UploadWatcher: watch error", zap.Error(err))
		case <-ticker.C:
			uw.flush()
		}
	}
}

func (uw *UploadWatcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
		return
	}
	uw.mu.Lock()
	uw.dirty = true
	uw.lastEvent = time.Now()
	uw.mu.Unlock()
}

func (uw *UploadWatcher) flush() {
	uw.mu.Lock()
	if !uw.dirty || time.Since(uw.lastEvent) < uw.debounce {
		uw.mu.Unlock()
		return
	}
	uw.dirty = false
	uw.mu.Unlock()

	uw.publish(notify.Event{Type: notify.EventChanged})
}
