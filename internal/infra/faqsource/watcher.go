package faqsource

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

const defaultDebounce = 500 * time.Millisecond

// Reloader rebuilds the matcher from its source.
type Reloader interface {
	Reload(ctx context.Context) (faq.ReloadResult, error)
}

// Watcher triggers a reload whenever the corpus file is written or replaced.
// The parent directory is watched so editors that save via rename are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	reloader Reloader
	logger   *slog.Logger
}

// NewWatcher constructs a watcher for path.
func NewWatcher(path string, debounce time.Duration, reloader Reloader, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		reloader: reloader,
		logger:   logger.With("component", "faqsource.watcher"),
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching faq corpus", "path", w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("faq watcher error", "error", err)
		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) reload(ctx context.Context) {
	result, err := w.reloader.Reload(ctx)
	if err != nil {
		w.logger.Error("faq reload failed, keeping previous corpus", "error", err)
		return
	}
	w.logger.Info("faq corpus reloaded", "questions", result.Stats.Questions, "duration_ms", result.DurationMs)
}
