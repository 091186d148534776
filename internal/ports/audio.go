package ports

import "github.com/xvierd/lofi-cli/internal/domain"

// AudioSink plays background tracks.
// This is a driven port (implemented by adapters).
type AudioSink interface {
	// LoadTrack cues the track at index without playing it.
	LoadTrack(index int) error

	// Play starts or resumes the loaded track. It must not block.
	// A refusal is reported as domain.ErrAudioPlaybackRejected.
	Play() error

	// Pause halts playback, keeping the position.
	Pause() error

	// Rewind moves the loaded track back to its start.
	Rewind() error

	// Ended delivers a value whenever the playing track finishes on its own.
	// A sink that never reports may return nil.
	Ended() <-chan struct{}
}

// Notifier tells the user a session has finished.
// This is a driven port (implemented by adapters).
type Notifier interface {
	SessionCompleted(mode domain.Mode) error
}
