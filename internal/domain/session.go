package domain

// Mode is the kind of interval the timer is counting.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// Label returns the display name of the mode.
func (m Mode) Label() string {
	if m == ModeBreak {
		return "Break"
	}
	return "Work"
}

// TimerStatus is the state of the session timer state machine.
type TimerStatus string

const (
	StatusIdle         TimerStatus = "idle"
	StatusRunningWork  TimerStatus = "running_work"
	StatusRunningBreak TimerStatus = "running_break"
)

// Default durations in minutes.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// MaxDurationMinutes caps a single session at one day.
const MaxDurationMinutes = 24 * 60

// ValidMinutes reports whether minutes is an accepted session length.
func ValidMinutes(minutes int) bool {
	return minutes >= 1 && minutes <= MaxDurationMinutes
}

// TimerConfig holds the configurable session lengths.
type TimerConfig struct {
	WorkMinutes  int
	BreakMinutes int
}

// DefaultTimerConfig returns 25 minutes of work and 5 of break.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkMinutes:  DefaultWorkMinutes,
		BreakMinutes: DefaultBreakMinutes,
	}
}

// SessionState is a copy of the timer's counters.
type SessionState struct {
	Mode                 Mode
	ElapsedInSession     int
	WorkDurationSeconds  int
	BreakDurationSeconds int
	TotalWorkSeconds     int
	TotalBreakSeconds    int
	SessionsCompleted    int
	Running              bool
}

// ActiveDuration returns the length in seconds of the current mode.
func (s SessionState) ActiveDuration() int {
	if s.Mode == ModeBreak {
		return s.BreakDurationSeconds
	}
	return s.WorkDurationSeconds
}

// Remaining returns the seconds left in the current session.
func (s SessionState) Remaining() int {
	r := s.ActiveDuration() - s.ElapsedInSession
	if r < 0 {
		return 0
	}
	return r
}

// Status maps the counters onto the state machine states.
func (s SessionState) Status() TimerStatus {
	switch {
	case !s.Running:
		return StatusIdle
	case s.Mode == ModeBreak:
		return StatusRunningBreak
	default:
		return StatusRunningWork
	}
}

// SessionTimer is the work/break state machine. It is driven by Tick once
// per second while running and by user commands in between. Every
// transition returns the effects an adapter must apply, in order.
//
// A SessionTimer is not safe for concurrent use; it has a single owner.
type SessionTimer struct {
	state  SessionState
	tracks *TrackSelector
}

// NewSessionTimer creates an idle timer in Work mode.
func NewSessionTimer(cfg TimerConfig, tracks *TrackSelector) *SessionTimer {
	if tracks == nil {
		tracks = NewTrackSelector(DefaultTrackPool(), nil)
	}
	return &SessionTimer{
		state: SessionState{
			Mode:                 ModeWork,
			WorkDurationSeconds:  cfg.WorkMinutes * 60,
			BreakDurationSeconds: cfg.BreakMinutes * 60,
		},
		tracks: tracks,
	}
}

// State returns a copy of the current counters.
func (t *SessionTimer) State() SessionState {
	return t.state
}

// Tracks returns the selector the timer issues audio commands to.
func (t *SessionTimer) Tracks() *TrackSelector {
	return t.tracks
}

// Running reports whether the tick loop should be active.
func (t *SessionTimer) Running() bool {
	return t.state.Running
}

// Start resumes counting in the current mode. Starting into Work picks and
// plays a new random track. It is a no-op while already running.
func (t *SessionTimer) Start() []Effect {
	if t.state.Running {
		return nil
	}
	t.state.Running = true

	var effects []Effect
	if t.state.Mode == ModeWork {
		effects = append(effects, t.tracks.Advance()...)
	}
	return append(effects, Effect{Kind: EffectRender})
}

// Tick advances the running session by one second. When the session
// reaches its duration the mode flips and the elapsed counter restarts.
// At most one transition happens per tick.
func (t *SessionTimer) Tick() []Effect {
	if !t.state.Running {
		return nil
	}

	t.state.ElapsedInSession++
	if t.state.Mode == ModeWork {
		t.state.TotalWorkSeconds++
	} else {
		t.state.TotalBreakSeconds++
	}

	var effects []Effect
	if t.state.ElapsedInSession >= t.state.ActiveDuration() {
		finished := t.state.Mode
		completed := Effect{
			Kind:    EffectSessionCompleted,
			Mode:    finished,
			Seconds: t.state.ElapsedInSession,
		}
		t.state.ElapsedInSession = 0

		if finished == ModeWork {
			t.state.Mode = ModeBreak
			t.state.SessionsCompleted++
			effects = append(effects, completed, Effect{Kind: EffectPause})
		} else {
			t.state.Mode = ModeWork
			effects = append(effects, completed)
			effects = append(effects, t.tracks.Advance()...)
		}
	}

	return append(effects, Effect{Kind: EffectRender})
}

// Pause stops the tick and keeps every counter and the mode.
func (t *SessionTimer) Pause() []Effect {
	t.state.Running = false
	return []Effect{{Kind: EffectPause}, {Kind: EffectRender}}
}

// Reset stops the tick and returns to the start of a work session.
// Totals and the session count are kept.
func (t *SessionTimer) Reset() []Effect {
	t.state.Running = false
	t.state.ElapsedInSession = 0
	t.state.Mode = ModeWork

	effects := t.tracks.Reset()
	return append(effects, Effect{Kind: EffectRender})
}

// SetWorkDuration changes the work length. When idle the timer is reset.
// Non-positive values are accepted; callers are expected to guard.
func (t *SessionTimer) SetWorkDuration(minutes int) []Effect {
	t.state.WorkDurationSeconds = minutes * 60
	return t.afterDurationChange()
}

// SetBreakDuration changes the break length. When idle the timer is reset.
func (t *SessionTimer) SetBreakDuration(minutes int) []Effect {
	t.state.BreakDurationSeconds = minutes * 60
	return t.afterDurationChange()
}

func (t *SessionTimer) afterDurationChange() []Effect {
	if !t.state.Running {
		return t.Reset()
	}
	return []Effect{{Kind: EffectRender}}
}

// TrackEnded forwards a playback-ended notification to the selector.
func (t *SessionTimer) TrackEnded() []Effect {
	return t.tracks.OnTrackEnded(t.state.Running, t.state.Mode)
}
