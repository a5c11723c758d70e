package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ycg/internal/slogutil"
)

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventCreate, "create"},
		{EventModify, "modify"},
		{EventDelete, "delete"},
		{EventRename, "rename"},
		{EventType(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}

func TestBatchDebouncerCoalesces(t *testing.T) {
	var (
		mu      sync.Mutex
		batches [][]Event
	)
	done := make(chan struct{}, 1)
	b := NewBatchDebouncer(30*time.Millisecond, func(events []Event) {
		mu.Lock()
		batches = append(batches, events)
		mu.Unlock()
		done <- struct{}{}
	})

	b.Add(Event{Type: EventModify, Path: "a"})
	b.Add(Event{Type: EventModify, Path: "a"})
	b.Add(Event{Type: EventCreate, Path: "b"})
	assert.Equal(t, 3, b.EventCount())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("batch was not emitted")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
}

func TestBatchDebouncerFlushAndCancel(t *testing.T) {
	var got []Event
	b := NewBatchDebouncer(time.Hour, func(events []Event) { got = events })

	b.Add(Event{Type: EventDelete, Path: "x"})
	b.Flush()
	require.Len(t, got, 1)
	assert.Equal(t, 0, b.EventCount())

	got = nil
	b.Add(Event{Type: EventDelete, Path: "y"})
	b.Cancel()
	assert.Equal(t, 0, b.EventCount())
	b.Flush()
	assert.Nil(t, got)
}

func TestNewRequiresFiles(t *testing.T) {
	_, err := New(Config{}, func(context.Context, []Event) {})
	assert.Error(t, err)
}

func TestTranslateFiltersUntrackedFiles(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "index.scip")
	require.NoError(t, os.WriteFile(index, []byte("x"), 0644))

	w, err := New(Config{Files: []string{index}, Logger: slogutil.NewDiscardLogger()}, func(context.Context, []Event) {})
	require.NoError(t, err)
	defer w.fsw.Close()

	ev, ok := w.translate(fsnotify.Event{Name: index, Op: fsnotify.Write})
	require.True(t, ok)
	assert.Equal(t, EventModify, ev.Type)

	_, ok = w.translate(fsnotify.Event{Name: filepath.Join(dir, "other.txt"), Op: fsnotify.Write})
	assert.False(t, ok)

	_, ok = w.translate(fsnotify.Event{Name: index, Op: fsnotify.Chmod})
	assert.False(t, ok)
}

func TestRunTriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "index.scip")
	require.NoError(t, os.WriteFile(index, []byte("v1"), 0644))

	calls := make(chan []Event, 4)
	w, err := New(Config{
		Files:    []string{index},
		Debounce: 20 * time.Millisecond,
		Logger:   slogutil.NewDiscardLogger(),
	}, func(_ context.Context, events []Event) {
		calls <- events
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- w.Run(ctx) }()

	// Let the loop reach select before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(index, []byte("v2"), 0644))

	select {
	case events := <-calls:
		require.NotEmpty(t, events)
		abs, _ := filepath.Abs(index)
		assert.Equal(t, abs, events[0].Path)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWaitsForInFlightHandler(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "index.scip")
	require.NoError(t, os.WriteFile(index, []byte("v1"), 0644))

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	w, err := New(Config{
		Files:    []string{index},
		Debounce: 20 * time.Millisecond,
		Logger:   slogutil.NewDiscardLogger(),
	}, func(_ context.Context, _ []Event) {
		once.Do(func() { close(started) })
		<-release
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(index, []byte("v2"), 0644))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case <-stopped:
		t.Fatal("Run returned while the handler was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the handler finished")
	}
}
