package domain

import "fmt"

// EffectKind identifies a side effect requested by a state transition.
type EffectKind string

const (
	EffectLoadTrack        EffectKind = "load_track"
	EffectPlay             EffectKind = "play"
	EffectPause            EffectKind = "pause"
	EffectRewind           EffectKind = "rewind"
	EffectRender           EffectKind = "render"
	EffectSessionCompleted EffectKind = "session_completed"
)

// Effect is a command emitted by the core and applied by an adapter.
// Track is set for EffectLoadTrack. Mode and Seconds describe the interval
// that just finished for EffectSessionCompleted.
type Effect struct {
	Kind    EffectKind
	Track   int
	Mode    Mode
	Seconds int
}

// LoadTrack returns an effect loading the track at index.
func LoadTrack(index int) Effect {
	return Effect{Kind: EffectLoadTrack, Track: index}
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectLoadTrack:
		return fmt.Sprintf("LoadTrack(%d)", e.Track)
	case EffectSessionCompleted:
		return fmt.Sprintf("SessionCompleted(%s)", e.Mode)
	default:
		return string(e.Kind)
	}
}

// HasEffect reports whether effects contains one of the given kind.
func HasEffect(effects []Effect, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
