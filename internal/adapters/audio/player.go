// Package audio implements the audio sink by running a local media player
// for each track.
package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/xvierd/lofi-cli/internal/config"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/logging"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// ErrNoPlayer means no supported media player was found on PATH.
var ErrNoPlayer = errors.New("no audio player found")

// playerSpec builds the command line for one media player.
type playerSpec struct {
	Name string
	// Args returns the arguments to play file starting at offset.
	Args func(file string, offset time.Duration) []string
	// Seeks is false for players that always start from the beginning.
	Seeks bool
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64)
}

// knownPlayers is searched in order when no player is configured.
var knownPlayers = []playerSpec{
	{
		Name:  "mpv",
		Seeks: true,
		Args: func(file string, offset time.Duration) []string {
			return []string{"--no-video", "--really-quiet", "--start=" + seconds(offset), file}
		},
	},
	{
		Name:  "ffplay",
		Seeks: true,
		Args: func(file string, offset time.Duration) []string {
			return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-ss", seconds(offset), file}
		},
	},
	{
		Name: "afplay",
		Args: func(file string, _ time.Duration) []string { return []string{file} },
	},
	{
		Name: "paplay",
		Args: func(file string, _ time.Duration) []string { return []string{file} },
	},
}

func specFor(name string) playerSpec {
	for _, spec := range knownPlayers {
		if spec.Name == name {
			return spec
		}
	}
	return playerSpec{
		Name: name,
		Args: func(file string, _ time.Duration) []string { return []string{file} },
	}
}

// Player is an AudioSink backed by an external process. Play never blocks:
// the process runs in the background and its natural exit is reported on
// Ended.
type Player struct {
	dir    string
	bin    string
	spec   playerSpec
	logger *logging.Logger

	mu      sync.Mutex
	track   int
	loaded  bool
	cmd     *exec.Cmd
	gen     int
	started time.Time
	offset  time.Duration
	ended   chan struct{}
}

// Ensure Player implements ports.AudioSink.
var _ ports.AudioSink = (*Player)(nil)

// NewPlayer resolves the configured player, or the first known one on PATH.
// A Player without a binary still works; Play reports every attempt as
// rejected.
func NewPlayer(cfg config.AudioConfig, logger *logging.Logger) *Player {
	if logger == nil {
		logger = logging.NopLogger()
	}
	p := &Player{
		dir:    cfg.MusicDir,
		logger: logger.Component("audio"),
		ended:  make(chan struct{}, 1),
	}

	candidates := knownPlayers
	if cfg.Player != "" {
		candidates = []playerSpec{specFor(cfg.Player)}
	}
	for _, spec := range candidates {
		if bin, err := exec.LookPath(spec.Name); err == nil {
			p.bin = bin
			p.spec = spec
			break
		}
	}

	if p.bin == "" {
		p.logger.Warn("no audio player available", "configured", cfg.Player)
	} else {
		p.logger.Debug("audio player selected", "player", p.bin)
	}
	return p
}

func newPlayerWithSpec(dir, bin string, spec playerSpec) *Player {
	return &Player{
		dir:    dir,
		bin:    bin,
		spec:   spec,
		logger: logging.NopLogger(),
		ended:  make(chan struct{}, 1),
	}
}

// Name returns the selected player binary, or "" when none was found.
func (p *Player) Name() string {
	return p.bin
}

// TrackPath returns the file for a track index.
func (p *Player) TrackPath(index int) string {
	return filepath.Join(p.dir, domain.TrackFileName(index))
}

// LoadTrack cues a track from the start. Anything playing is stopped.
func (p *Player) LoadTrack(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.track = index
	p.loaded = true
	p.offset = 0
	return nil
}

// Play starts the loaded track in the background. It is a no-op while the
// track is already playing.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return nil
	}
	if !p.loaded {
		return fmt.Errorf("no track loaded: %w", domain.ErrAudioPlaybackRejected)
	}
	if p.bin == "" {
		return fmt.Errorf("%w: %w", ErrNoPlayer, domain.ErrAudioPlaybackRejected)
	}

	file := p.TrackPath(p.track)
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("track %s: %v: %w", file, err, domain.ErrAudioPlaybackRejected)
	}

	offset := p.offset
	if !p.spec.Seeks {
		offset = 0
	}
	cmd := exec.Command(p.bin, p.spec.Args(file, offset)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %v: %w", p.bin, err, domain.ErrAudioPlaybackRejected)
	}

	p.gen++
	p.cmd = cmd
	p.started = time.Now()
	p.offset = offset
	go p.wait(cmd, p.gen)
	return nil
}

// wait reaps the process and reports a natural finish on Ended.
func (p *Player) wait(cmd *exec.Cmd, gen int) {
	err := cmd.Wait()

	p.mu.Lock()
	current := gen == p.gen && p.cmd == cmd
	if current {
		p.cmd = nil
		p.offset = 0
	}
	p.mu.Unlock()

	if !current {
		// Stopped by Pause, Rewind or LoadTrack.
		return
	}
	if err != nil {
		p.logger.Warn("player exited with error", "error", err)
		return
	}

	select {
	case p.ended <- struct{}{}:
	default:
	}
}

// Pause stops the process and remembers the position.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		p.offset += time.Since(p.started)
	}
	p.stopLocked()
	return nil
}

// Rewind moves back to the start of the track.
func (p *Player) Rewind() error {
	p.mu.Lock()
	playing := p.cmd != nil
	p.stopLocked()
	p.offset = 0
	p.mu.Unlock()

	if playing {
		return p.Play()
	}
	return nil
}

// Ended reports tracks that played to the end.
func (p *Player) Ended() <-chan struct{} {
	return p.ended
}

// Playing reports whether a player process is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// Close stops playback.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

func (p *Player) stopLocked() {
	if p.cmd == nil {
		return
	}
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
	p.gen++
}
