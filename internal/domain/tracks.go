package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Track pool defaults.
const (
	TotalTracks   = 7
	ExcludedTrack = 6
	DefaultTrack  = 1
)

// RandomSource supplies uniform integers in [0, n).
// *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// TrackPool describes the set of background tracks.
type TrackPool struct {
	Total    int
	Excluded int
	Default  int
}

// DefaultTrackPool returns the seven-track pool with track 6 reserved.
func DefaultTrackPool() TrackPool {
	return TrackPool{
		Total:    TotalTracks,
		Excluded: ExcludedTrack,
		Default:  DefaultTrack,
	}
}

// TrackFileName returns the asset name for a track index.
func TrackFileName(index int) string {
	return fmt.Sprintf("lofimusic_part%d.mp3", index)
}

// Selectable reports whether index can be returned by PickRandomTrack.
func (p TrackPool) Selectable(index int) bool {
	return index >= 0 && index < p.Total && index != p.Excluded
}

// PickRandomTrack samples [0, totalTracks) until it draws something other
// than excludedIndex. It returns -1 when no index is eligible.
func PickRandomTrack(rng RandomSource, totalTracks, excludedIndex int) int {
	if totalTracks <= 0 || (totalTracks == 1 && excludedIndex == 0) {
		return -1
	}
	for {
		n := rng.Intn(totalTracks)
		if n != excludedIndex {
			return n
		}
	}
}

// TrackSelector owns the current track selection. It never performs I/O;
// its choices are observable only through LoadTrack effects.
type TrackSelector struct {
	pool     TrackPool
	rng      RandomSource
	current  int
	selected bool
}

// NewTrackSelector creates a selector. A nil rng uses a time-seeded source.
func NewTrackSelector(pool TrackPool, rng RandomSource) *TrackSelector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TrackSelector{pool: pool, rng: rng}
}

// Pool returns the track pool the selector draws from.
func (s *TrackSelector) Pool() TrackPool {
	return s.pool
}

// Current returns the selected track, if any.
func (s *TrackSelector) Current() (int, bool) {
	return s.current, s.selected
}

// Advance picks a new random track and asks for it to be loaded and played.
func (s *TrackSelector) Advance() []Effect {
	idx := PickRandomTrack(s.rng, s.pool.Total, s.pool.Excluded)
	if idx < 0 {
		return nil
	}
	s.current = idx
	s.selected = true
	return []Effect{LoadTrack(idx), {Kind: EffectPlay}}
}

// OnTrackEnded advances only while a work session is running.
// Break playback does not auto-advance.
func (s *TrackSelector) OnTrackEnded(running bool, mode Mode) []Effect {
	if !running || mode != ModeWork {
		return nil
	}
	return s.Advance()
}

// Reset clears the selection and cues the default track.
func (s *TrackSelector) Reset() []Effect {
	s.current = 0
	s.selected = false
	return []Effect{
		{Kind: EffectPause},
		{Kind: EffectRewind},
		LoadTrack(s.pool.Default),
	}
}
