package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xvierd/lofi-cli/internal/adapters/client"
	"github.com/xvierd/lofi-cli/internal/domain"
)

// remoteError wraps a client failure, pointing at "lofi serve" when no
// server answered.
func remoteError(action string, err error) error {
	if errors.Is(err, client.ErrServerUnavailable) {
		return fmt.Errorf("%w (start one with \"lofi serve\")", err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// parseMinutes reads a positive whole number of minutes.
func parseMinutes(arg string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q: %w", arg, domain.ErrInvalidDuration)
	}
	if !domain.ValidMinutes(minutes) {
		return 0, fmt.Errorf("minutes %d: %w", minutes, domain.ErrInvalidDuration)
	}
	return minutes, nil
}

// printSession writes the snapshot after a timer command, with a one-line
// confirmation in text mode.
func printSession(snap domain.Snapshot, format string, a ...any) error {
	if app.ui.Structured() {
		return app.ui.Encode(snap.Session)
	}
	app.ui.Success(format, a...)
	return app.ui.Snapshot(snap)
}
