package faqsource

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(context.Context) (faq.ReloadResult, error) {
	r.calls.Add(1)
	return faq.ReloadResult{}, r.err
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faqs.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	reloader := &countingReloader{}
	w := NewWatcher(path, 50*time.Millisecond, reloader, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`[{"question":"a","answer":"b"}]`), 0o644))
	}

	require.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), reloader.calls.Load(), "rapid writes should be debounced into one reload")

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faqs.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	reloader := &countingReloader{err: errors.New("should not be called")}
	w := NewWatcher(path, 20*time.Millisecond, reloader, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	require.NoError(t, <-done)
	require.Zero(t, reloader.calls.Load())
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope", "faqs.json"), 0, &countingReloader{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, w.Run(context.Background()))
}
