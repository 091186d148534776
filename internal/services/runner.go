package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/logging"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// ErrRunnerStopped is returned for commands submitted after Run has exited.
var ErrRunnerStopped = errors.New("runner stopped")

// DefaultTickInterval is the length of one timer tick.
const DefaultTickInterval = time.Second

// Runner serializes every command onto one goroutine that owns the Widget.
// The ticker is armed only while the timer is running.
type Runner struct {
	widget   *Widget
	logger   *logging.Logger
	interval time.Duration
	cmds     chan command
	done     chan struct{}

	mu      sync.Mutex
	subs    map[int]chan domain.Snapshot
	nextSub int
}

type command struct {
	fn    func(ctx context.Context, w *Widget) error
	reply chan error
}

// Ensure Runner implements ports.WidgetController.
var _ ports.WidgetController = (*Runner)(nil)

// NewRunner takes ownership of w. The widget must not be used directly
// afterwards.
func NewRunner(w *Widget, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	r := &Runner{
		widget:   w,
		logger:   logger.Component("runner"),
		interval: DefaultTickInterval,
		cmds:     make(chan command),
		done:     make(chan struct{}),
		subs:     make(map[int]chan domain.Snapshot),
	}
	w.SetRenderSink(r.publish)
	return r
}

// SetTickInterval changes the tick length. Call before Run.
func (r *Runner) SetTickInterval(d time.Duration) {
	r.interval = d
}

// Run processes commands, ticks and track-ended notifications until ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	arm := func() {
		running := r.widget.Running()
		switch {
		case running && ticker == nil:
			ticker = time.NewTicker(r.interval)
			tickC = ticker.C
		case !running && ticker != nil:
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	ended := r.widget.AudioEnded()
	r.logger.Info("runner started", "tick", r.interval.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return nil
		case c := <-r.cmds:
			c.reply <- c.fn(ctx, r.widget)
			arm()
		case <-tickC:
			if err := r.widget.Tick(ctx); err != nil {
				r.logger.Error("tick failed", "error", err)
			}
			arm()
		case <-ended:
			if err := r.widget.TrackEnded(ctx); err != nil {
				r.logger.Error("track advance failed", "error", err)
			}
		}
	}
}

// Do runs fn on the owner goroutine and waits for its result.
func (r *Runner) Do(ctx context.Context, fn func(ctx context.Context, w *Widget) error) error {
	c := command{fn: fn, reply: make(chan error, 1)}

	select {
	case r.cmds <- c:
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-c.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe streams snapshots after each render effect. Slow subscribers
// only see the latest snapshot.
func (r *Runner) Subscribe() (<-chan domain.Snapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	ch := make(chan domain.Snapshot, 1)
	r.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (r *Runner) publish(snap domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot in favour of the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (r *Runner) snapshotAfter(ctx context.Context, fn func(ctx context.Context, w *Widget) error) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := r.Do(ctx, func(ctx context.Context, w *Widget) error {
		if err := fn(ctx, w); err != nil {
			return err
		}
		var err error
		snap, err = w.Snapshot(ctx)
		return err
	})
	return snap, err
}

// Snapshot returns the current views.
func (r *Runner) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(context.Context, *Widget) error { return nil })
}

// Start resumes the timer.
func (r *Runner) Start(ctx context.Context) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(ctx context.Context, w *Widget) error {
		return w.Start(ctx)
	})
}

// Pause stops the timer.
func (r *Runner) Pause(ctx context.Context) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(ctx context.Context, w *Widget) error {
		return w.Pause(ctx)
	})
}

// Reset returns to the start of a work session.
func (r *Runner) Reset(ctx context.Context) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(ctx context.Context, w *Widget) error {
		return w.Reset(ctx)
	})
}

// SetWorkMinutes changes the work length.
func (r *Runner) SetWorkMinutes(ctx context.Context, minutes int) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(ctx context.Context, w *Widget) error {
		return w.SetWorkMinutes(ctx, minutes)
	})
}

// SetBreakMinutes changes the break length.
func (r *Runner) SetBreakMinutes(ctx context.Context, minutes int) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(ctx context.Context, w *Widget) error {
		return w.SetBreakMinutes(ctx, minutes)
	})
}

// AddItem appends a checklist item.
func (r *Runner) AddItem(ctx context.Context, text string) (*domain.ChecklistItem, error) {
	var item *domain.ChecklistItem
	err := r.Do(ctx, func(ctx context.Context, w *Widget) error {
		var err error
		item, err = w.AddItem(ctx, text)
		return err
	})
	return item, err
}

// ToggleItem flips an item.
func (r *Runner) ToggleItem(ctx context.Context, id string) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(ctx context.Context, w *Widget) error {
		return w.ToggleItem(ctx, id)
	})
}

// DeleteItem removes an item.
func (r *Runner) DeleteItem(ctx context.Context, id string) (domain.Snapshot, error) {
	return r.snapshotAfter(ctx, func(ctx context.Context, w *Widget) error {
		return w.DeleteItem(ctx, id)
	})
}

// FindItem resolves an id or fuzzy text reference.
func (r *Runner) FindItem(ctx context.Context, ref string) (*domain.ChecklistItem, error) {
	var item *domain.ChecklistItem
	err := r.Do(ctx, func(ctx context.Context, w *Widget) error {
		var err error
		item, err = w.FindItem(ctx, ref)
		return err
	})
	return item, err
}

// History returns recently finished sessions.
func (r *Runner) History(ctx context.Context, limit int) ([]*domain.IntervalRecord, error) {
	var records []*domain.IntervalRecord
	err := r.Do(ctx, func(ctx context.Context, w *Widget) error {
		var err error
		records, err = w.History(ctx, limit)
		return err
	})
	return records, err
}
