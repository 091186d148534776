package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/lofi-cli/internal/config"
	"github.com/xvierd/lofi-cli/internal/services"
)

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < bigTimeMinWidth {
		return 80
	}
	return w
}

// Run shows the widget fullscreen and blocks until the user quits or ctx
// is cancelled. It returns the storage error that stopped the program, if any.
func Run(ctx context.Context, w *services.Widget, theme *config.ThemeConfig) error {
	model := NewModel(ctx, w, theme)
	model.width = getTerminalWidth()
	if err := model.Err(); err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
