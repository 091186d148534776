package output

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xvierd/lofi-cli/internal/adapters/audio"
	"github.com/xvierd/lofi-cli/internal/domain"
)

// barWidth is the widest progress bar drawn in text mode.
const barWidth = 30

// ModeColor colors a mode label: work magenta, break green, idle faint.
func ModeColor(session domain.SessionView) string {
	switch {
	case !session.Running:
		return faint(session.Label + " (paused)")
	case session.Mode == domain.ModeBreak:
		return green(session.Label)
	default:
		return magenta(session.Label)
	}
}

// Bar draws a fraction in [0,1] as a text progress bar.
func Bar(fraction float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (u *UI) barWidth() int {
	return max(10, min(barWidth, TerminalWidth(80)-20))
}

// Snapshot prints the timer, stats and checklist.
func (u *UI) Snapshot(snap domain.Snapshot) error {
	if u.Structured() {
		return u.Encode(snap)
	}

	session := snap.Session
	fmt.Fprintf(u.Out, "%s  %s\n", ModeColor(session), bold(session.Remaining))
	fmt.Fprintf(u.Out, "%s %d%%\n", Bar(session.Progress, u.barWidth()), int(session.Progress*100+0.5))
	if session.Track != nil {
		fmt.Fprintf(u.Out, "♪ %s\n", domain.TrackFileName(*session.Track))
	}
	fmt.Fprintf(u.Out, "%s\n", faint(fmt.Sprintf("work %dm · break %dm",
		session.WorkDurationSeconds/60, session.BreakDurationSeconds/60)))
	fmt.Fprintln(u.Out)

	u.stats(snap.Stats)
	fmt.Fprintln(u.Out)
	return u.checklist(snap.Checklist, snap.Stats)
}

func (u *UI) stats(stats domain.StatsView) {
	fmt.Fprintf(u.Out, "%s %s  %s %s  %s %s  %s %d\n",
		faint("Work"), stats.WorkTime,
		faint("Break"), stats.BreakTime,
		faint("Total"), stats.TotalTime,
		faint("Sessions"), stats.SessionsCompleted)
}

func (u *UI) checklist(list domain.ChecklistView, stats domain.StatsView) error {
	if list.Empty {
		fmt.Fprintln(u.Out, faint(domain.EmptyChecklistMessage))
		return nil
	}
	if err := u.itemsTable(list.Items); err != nil {
		return err
	}
	fmt.Fprintf(u.Out, "\n%s %d/%d done (%d%%)\n",
		Bar(float64(stats.Percentage)/100, u.barWidth()), stats.CompletedItems, stats.TotalItems, stats.Percentage)
	return nil
}

// Items prints the checklist view.
func (u *UI) Items(list domain.ChecklistView, stats domain.StatsView) error {
	if u.Structured() {
		return u.Encode(list)
	}
	return u.checklist(list, stats)
}

func (u *UI) itemsTable(items []domain.ChecklistItem) error {
	table := u.Table([]string{"#", "Done", "Item", "ID"})
	for i, item := range items {
		box, text := "[ ]", item.Text
		if item.Completed {
			box, text = green("[x]"), faint(item.Text)
		}
		if err := table.Append([]string{strconv.Itoa(i + 1), box, text, faint(item.ID)}); err != nil {
			return fmt.Errorf("failed to render items: %w", err)
		}
	}
	return table.Render()
}

// Item prints a single checklist item.
func (u *UI) Item(item *domain.ChecklistItem) error {
	if u.Structured() {
		return u.Encode(item)
	}
	box := "[ ]"
	if item.Completed {
		box = green("[x]")
	}
	fmt.Fprintf(u.Out, "%s %s %s\n", box, item.Text, faint(item.ID))
	return nil
}

// History prints finished sessions, newest first.
func (u *UI) History(records []*domain.IntervalRecord) error {
	if u.Structured() {
		if records == nil {
			records = []*domain.IntervalRecord{}
		}
		return u.Encode(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(u.Out, faint("No finished sessions yet."))
		return nil
	}

	table := u.Table([]string{"Ended", "Mode", "Length"})
	for _, rec := range records {
		mode := magenta(rec.Mode.Label())
		if rec.Mode == domain.ModeBreak {
			mode = green(rec.Mode.Label())
		}
		row := []string{
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			mode,
			domain.FormatDuration(rec.DurationSeconds),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render history: %w", err)
		}
	}
	return table.Render()
}

// Tracks prints the track pool and which files are present.
func (u *UI) Tracks(tracks []audio.TrackInfo) error {
	if u.Structured() {
		return u.Encode(tracks)
	}

	table := u.Table([]string{"#", "File", "Status"})
	for _, t := range tracks {
		status := green("ok")
		switch {
		case t.Excluded:
			status = faint("excluded")
		case !t.Present:
			status = yellow("missing")
		}
		name := filepath.Base(t.File)
		if t.Default {
			name += " " + cyan("(default)")
		}
		if err := table.Append([]string{strconv.Itoa(t.Index), name, status}); err != nil {
			return fmt.Errorf("failed to render tracks: %w", err)
		}
	}
	return table.Render()
}
