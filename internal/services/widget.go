package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/logging"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// Widget owns the session timer and the checklist and applies the effects
// the timer emits. It is not safe for concurrent use: the TUI drives it from
// the Bubbletea update loop, headless mode through a Runner.
type Widget struct {
	timer     *domain.SessionTimer
	checklist *ChecklistService
	intervals ports.IntervalRepository
	audio     ports.AudioSink
	notifier  ports.Notifier
	logger    *logging.Logger
	render    func(domain.Snapshot)
	now       func() time.Time
}

// NewWidget wires a widget. audio and notifier may be nil.
func NewWidget(storage ports.Storage, timer *domain.SessionTimer, audio ports.AudioSink, notifier ports.Notifier, logger *logging.Logger) *Widget {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Widget{
		timer:     timer,
		checklist: NewChecklistService(storage),
		intervals: storage.Intervals(),
		audio:     audio,
		notifier:  notifier,
		logger:    logger.Component("widget"),
		now:       time.Now,
	}
}

// SetRenderSink registers the function called with a fresh snapshot after
// every render effect.
func (w *Widget) SetRenderSink(sink func(domain.Snapshot)) {
	w.render = sink
}

// State returns the timer counters.
func (w *Widget) State() domain.SessionState {
	return w.timer.State()
}

// Running reports whether the one-second tick should be active.
func (w *Widget) Running() bool {
	return w.timer.Running()
}

// AudioEnded exposes the sink's track-ended notifications, or nil.
func (w *Widget) AudioEnded() <-chan struct{} {
	if w.audio == nil {
		return nil
	}
	return w.audio.Ended()
}

// Start resumes the timer.
func (w *Widget) Start(ctx context.Context) error {
	w.logger.Info("timer started", "mode", w.timer.State().Mode)
	return w.apply(ctx, w.timer.Start())
}

// Tick advances the running session by one second.
func (w *Widget) Tick(ctx context.Context) error {
	return w.apply(ctx, w.timer.Tick())
}

// Pause stops the timer and the music.
func (w *Widget) Pause(ctx context.Context) error {
	w.logger.Info("timer paused", "elapsed", w.timer.State().ElapsedInSession)
	return w.apply(ctx, w.timer.Pause())
}

// Reset returns to the start of a work session.
func (w *Widget) Reset(ctx context.Context) error {
	w.logger.Info("timer reset")
	return w.apply(ctx, w.timer.Reset())
}

// SetWorkMinutes changes the work length. Values outside
// 1..domain.MaxDurationMinutes are rejected.
func (w *Widget) SetWorkMinutes(ctx context.Context, minutes int) error {
	if !domain.ValidMinutes(minutes) {
		return fmt.Errorf("work minutes %d: %w", minutes, domain.ErrInvalidDuration)
	}
	return w.apply(ctx, w.timer.SetWorkDuration(minutes))
}

// SetBreakMinutes changes the break length, bounded like SetWorkMinutes.
func (w *Widget) SetBreakMinutes(ctx context.Context, minutes int) error {
	if !domain.ValidMinutes(minutes) {
		return fmt.Errorf("break minutes %d: %w", minutes, domain.ErrInvalidDuration)
	}
	return w.apply(ctx, w.timer.SetBreakDuration(minutes))
}

// TrackEnded handles a playback-ended notification from the audio sink.
func (w *Widget) TrackEnded(ctx context.Context) error {
	return w.apply(ctx, w.timer.TrackEnded())
}

// AddItem appends a checklist item and redraws.
func (w *Widget) AddItem(ctx context.Context, text string) (*domain.ChecklistItem, error) {
	item, err := w.checklist.AddItem(ctx, text)
	if err != nil {
		return nil, err
	}
	return item, w.redraw(ctx)
}

// ToggleItem flips an item and redraws. Unknown ids are ignored.
func (w *Widget) ToggleItem(ctx context.Context, id string) error {
	if err := w.checklist.ToggleItem(ctx, id); err != nil {
		return err
	}
	return w.redraw(ctx)
}

// DeleteItem removes an item and redraws. Unknown ids are ignored.
func (w *Widget) DeleteItem(ctx context.Context, id string) error {
	if err := w.checklist.DeleteItem(ctx, id); err != nil {
		return err
	}
	return w.redraw(ctx)
}

// FindItem resolves an id or fuzzy text reference.
func (w *Widget) FindItem(ctx context.Context, ref string) (*domain.ChecklistItem, error) {
	return w.checklist.Find(ctx, ref)
}

// Items returns the checklist in display order.
func (w *Widget) Items(ctx context.Context) ([]*domain.ChecklistItem, error) {
	return w.checklist.List(ctx)
}

// History returns the most recent finished sessions.
func (w *Widget) History(ctx context.Context, limit int) ([]*domain.IntervalRecord, error) {
	records, err := w.intervals.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return records, nil
}

// Snapshot builds the current views.
func (w *Widget) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	items, err := w.checklist.List(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.NewSnapshot(w.timer, items), nil
}

func (w *Widget) redraw(ctx context.Context) error {
	return w.apply(ctx, []domain.Effect{{Kind: domain.EffectRender}})
}

// apply executes effects in order. Audio failures are logged and never
// fail the command. A storage failure is returned after the remaining
// effects have run, so audio and the display still follow the timer.
func (w *Widget) apply(ctx context.Context, effects []domain.Effect) error {
	render := false
	var errs []error

	for _, effect := range effects {
		switch effect.Kind {
		case domain.EffectLoadTrack:
			w.audioCall("load", w.loadTrack(effect.Track), "track", effect.Track)
		case domain.EffectPlay:
			w.audioCall("play", w.play())
		case domain.EffectPause:
			w.audioCall("pause", w.pause())
		case domain.EffectRewind:
			w.audioCall("rewind", w.rewind())
		case domain.EffectSessionCompleted:
			if err := w.sessionCompleted(ctx, effect); err != nil {
				w.logger.Error("session completion failed", "mode", effect.Mode, "error", err)
				errs = append(errs, err)
			}
		case domain.EffectRender:
			render = true
		}
	}

	if render && w.render != nil {
		snap, err := w.Snapshot(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			w.render(snap)
		}
	}
	return errors.Join(errs...)
}

func (w *Widget) sessionCompleted(ctx context.Context, effect domain.Effect) error {
	record := domain.NewIntervalRecord(effect.Mode, effect.Seconds, w.now())
	if err := w.intervals.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to record interval: %w", err)
	}
	w.logger.Info("session completed",
		"mode", effect.Mode,
		"seconds", effect.Seconds,
		"sessions", w.timer.State().SessionsCompleted,
	)

	if w.notifier != nil {
		if err := w.notifier.SessionCompleted(effect.Mode); err != nil {
			w.logger.Warn("notification failed", "error", err)
		}
	}
	return nil
}

func (w *Widget) audioCall(op string, err error, args ...any) {
	if err == nil {
		return
	}
	args = append(args, "op", op, "error", err)
	if errors.Is(err, domain.ErrAudioPlaybackRejected) {
		w.logger.Warn("audio playback rejected", args...)
		return
	}
	w.logger.Error("audio command failed", args...)
}

func (w *Widget) loadTrack(index int) error {
	if w.audio == nil {
		return nil
	}
	return w.audio.LoadTrack(index)
}

func (w *Widget) play() error {
	if w.audio == nil {
		return nil
	}
	return w.audio.Play()
}

func (w *Widget) pause() error {
	if w.audio == nil {
		return nil
	}
	return w.audio.Pause()
}

func (w *Widget) rewind() error {
	if w.audio == nil {
		return nil
	}
	return w.audio.Rewind()
}
