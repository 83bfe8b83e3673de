package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/watch"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) action(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, path)
	return nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestWatcherDebouncesWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "甲.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))

	rec := &recorder{}
	w, err := watch.New(&watch.Config{
		Paths:    []string{target},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.action,
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte(`{"姓名":"甲"}`), 0o600))
		require.NoError(t, os.WriteFile(other, []byte("{}"), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	w.Stop()

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, target, calls[0])
}

func TestWatcherKeepsRunningAfterActionError(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "乙.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))

	var mu sync.Mutex
	count := 0
	w, err := watch.New(&watch.Config{
		Paths:    []string{target},
		Debounce: 50 * time.Millisecond,
		OnChange: func(context.Context, string) error {
			mu.Lock()
			defer mu.Unlock()
			count++
			return errors.Internal("render failed")
		},
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	calls := func() int {
		mu.Lock()
		defer mu.Unlock()
		return count
	}

	require.NoError(t, os.WriteFile(target, []byte("1"), 0o600))
	require.Eventually(t, func() bool { return calls() == 1 }, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(target, []byte("2"), 0o600))
	require.Eventually(t, func() bool { return calls() == 2 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatcherStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "丙.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))

	w, err := watch.New(&watch.Config{
		Paths:    []string{target},
		OnChange: func(context.Context, string) error { return nil },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
	w.Stop()

	err = w.Start(context.Background())
	assert.True(t, errors.IsFailedPrecondition(err))
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := watch.New(&watch.Config{
		Paths:    []string{filepath.Join(t.TempDir(), "x.json")},
		OnChange: func(context.Context, string) error { return nil },
	})
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}

func TestPathsAreAbsoluteAndSorted(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := watch.New(&watch.Config{
		Paths:    []string{filepath.Join(dir, "b.json"), filepath.Join(dir, "a.json"), filepath.Join(dir, "a.json")},
		OnChange: func(context.Context, string) error { return nil },
	})
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, w.Paths())
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := watch.New(&watch.Config{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "Paths")
	assert.Contains(t, err.Error(), "OnChange")

	_, err = watch.New(nil)
	assert.True(t, errors.IsInvalidArgument(err))
}
