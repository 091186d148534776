package services

import (
	"bytes"
	"sync"
	"testing"

	"github.com/xvierd/lofi-cli/internal/adapters/storage"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/logging"
	"github.com/xvierd/lofi-cli/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.Storage, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { _ = store.Close() }
}

// fixedSource always draws the same value.
type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

// fakeAudio records every command it receives.
type fakeAudio struct {
	mu      sync.Mutex
	calls   []string
	loaded  []int
	playErr error
	ended   chan struct{}
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{ended: make(chan struct{}, 1)}
}

func (f *fakeAudio) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAudio) LoadTrack(index int) error {
	f.mu.Lock()
	f.loaded = append(f.loaded, index)
	f.mu.Unlock()
	f.record("load")
	return nil
}

func (f *fakeAudio) Play() error {
	f.record("play")
	return f.playErr
}

func (f *fakeAudio) Pause() error  { f.record("pause"); return nil }
func (f *fakeAudio) Rewind() error { f.record("rewind"); return nil }

func (f *fakeAudio) Ended() <-chan struct{} { return f.ended }

func (f *fakeAudio) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAudio) Loaded() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.loaded...)
}

// fakeNotifier counts completions per mode.
type fakeNotifier struct {
	mu    sync.Mutex
	modes []domain.Mode
}

func (f *fakeNotifier) SessionCompleted(mode domain.Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes = append(f.modes, mode)
	return nil
}

func (f *fakeNotifier) Modes() []domain.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Mode(nil), f.modes...)
}

type widgetFixture struct {
	widget   *Widget
	store    ports.Storage
	audio    *fakeAudio
	notifier *fakeNotifier
	logs     *bytes.Buffer
}

func newWidgetFixture(t *testing.T, workMin, breakMin int, track int) *widgetFixture {
	t.Helper()
	store, cleanup := setupTestStorage(t)
	t.Cleanup(cleanup)

	selector := domain.NewTrackSelector(domain.DefaultTrackPool(), fixedSource(track))
	timer := domain.NewSessionTimer(domain.TimerConfig{WorkMinutes: workMin, BreakMinutes: breakMin}, selector)

	logs := &bytes.Buffer{}
	audio := newFakeAudio()
	notifier := &fakeNotifier{}
	w := NewWidget(store, timer, audio, notifier, logging.NewWriterLogger(logs, logging.LevelDebug))

	return &widgetFixture{widget: w, store: store, audio: audio, notifier: notifier, logs: logs}
}
