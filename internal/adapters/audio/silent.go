package audio

import "github.com/xvierd/lofi-cli/internal/ports"

// Silent is an AudioSink that ignores every command. It is used when audio
// is disabled in the configuration.
type Silent struct{}

// Ensure Silent implements ports.AudioSink.
var _ ports.AudioSink = Silent{}

func (Silent) LoadTrack(int) error    { return nil }
func (Silent) Play() error            { return nil }
func (Silent) Pause() error           { return nil }
func (Silent) Rewind() error          { return nil }
func (Silent) Ended() <-chan struct{} { return nil }
