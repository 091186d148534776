package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/lofi-cli/internal/domain"
)

func TestWidget_StartPlaysRandomTrack(t *testing.T) {
	f := newWidgetFixture(t, 25, 5, 4)
	ctx := context.Background()

	require.NoError(t, f.widget.Start(ctx))

	assert.True(t, f.widget.Running())
	assert.Equal(t, []string{"load", "play"}, f.audio.Calls())
	assert.Equal(t, []int{4}, f.audio.Loaded())
}

func TestWidget_PlaybackRejectionIsLogged(t *testing.T) {
	f := newWidgetFixture(t, 25, 5, 2)
	f.audio.playErr = fmt.Errorf("no player: %w", domain.ErrAudioPlaybackRejected)

	require.NoError(t, f.widget.Start(context.Background()))

	assert.True(t, f.widget.Running(), "rejected playback must not stop the timer")
	assert.Contains(t, f.logs.String(), "audio playback rejected")
	assert.Contains(t, f.logs.String(), `"level":"WARN"`)
}

func TestWidget_WorkSessionCompletes(t *testing.T) {
	f := newWidgetFixture(t, 1, 5, 3)
	ctx := context.Background()

	require.NoError(t, f.widget.Start(ctx))
	for i := 0; i < 60; i++ {
		require.NoError(t, f.widget.Tick(ctx))
	}

	state := f.widget.State()
	assert.Equal(t, domain.ModeBreak, state.Mode)
	assert.Equal(t, 1, state.SessionsCompleted)
	assert.Equal(t, 60, state.TotalWorkSeconds)

	calls := f.audio.Calls()
	assert.Equal(t, "pause", calls[len(calls)-1])
	assert.Equal(t, []domain.Mode{domain.ModeWork}, f.notifier.Modes())

	history, err := f.widget.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ModeWork, history[0].Mode)
	assert.Equal(t, 60, history[0].DurationSeconds)
}

func TestWidget_ResetKeepsTotals(t *testing.T) {
	f := newWidgetFixture(t, 1, 5, 3)
	ctx := context.Background()

	require.NoError(t, f.widget.Start(ctx))
	for i := 0; i < 90; i++ {
		require.NoError(t, f.widget.Tick(ctx))
	}
	before := f.widget.State()

	require.NoError(t, f.widget.Reset(ctx))
	after := f.widget.State()

	assert.Equal(t, 0, after.ElapsedInSession)
	assert.Equal(t, domain.ModeWork, after.Mode)
	assert.False(t, after.Running)
	assert.Equal(t, before.TotalWorkSeconds, after.TotalWorkSeconds)
	assert.Equal(t, before.TotalBreakSeconds, after.TotalBreakSeconds)
	assert.Equal(t, before.SessionsCompleted, after.SessionsCompleted)

	loaded := f.audio.Loaded()
	assert.Equal(t, domain.DefaultTrack, loaded[len(loaded)-1])
}

func TestWidget_SetMinutesGuard(t *testing.T) {
	f := newWidgetFixture(t, 25, 5, 3)
	ctx := context.Background()

	assert.ErrorIs(t, f.widget.SetWorkMinutes(ctx, 0), domain.ErrInvalidDuration)
	assert.ErrorIs(t, f.widget.SetBreakMinutes(ctx, -3), domain.ErrInvalidDuration)
	assert.Equal(t, 1500, f.widget.State().WorkDurationSeconds)

	require.NoError(t, f.widget.SetWorkMinutes(ctx, 50))
	require.NoError(t, f.widget.SetBreakMinutes(ctx, 10))
	assert.Equal(t, 3000, f.widget.State().WorkDurationSeconds)
	assert.Equal(t, 600, f.widget.State().BreakDurationSeconds)
}

func TestWidget_SetMinutesUpperBound(t *testing.T) {
	f := newWidgetFixture(t, 25, 5, 3)
	ctx := context.Background()
	require.NoError(t, f.widget.Start(ctx))

	assert.ErrorIs(t, f.widget.SetWorkMinutes(ctx, math.MaxInt64/30), domain.ErrInvalidDuration)
	assert.ErrorIs(t, f.widget.SetWorkMinutes(ctx, domain.MaxDurationMinutes+1), domain.ErrInvalidDuration)
	assert.ErrorIs(t, f.widget.SetBreakMinutes(ctx, math.MaxInt), domain.ErrInvalidDuration)

	require.NoError(t, f.widget.Tick(ctx))
	state := f.widget.State()
	assert.Equal(t, 1500, state.WorkDurationSeconds)
	assert.Equal(t, 300, state.BreakDurationSeconds)
	assert.Equal(t, domain.ModeWork, state.Mode, "rejected length must not end the session")

	require.NoError(t, f.widget.SetWorkMinutes(ctx, domain.MaxDurationMinutes))
	assert.Equal(t, domain.MaxDurationMinutes*60, f.widget.State().WorkDurationSeconds)
}

func TestWidget_FailedIntervalSaveStillAppliesEffects(t *testing.T) {
	f := newWidgetFixture(t, 1, 5, 3)
	ctx := context.Background()

	require.NoError(t, f.widget.Start(ctx))
	for i := 0; i < 59; i++ {
		require.NoError(t, f.widget.Tick(ctx))
	}
	require.NoError(t, f.store.Close())

	err := f.widget.Tick(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record interval")

	state := f.widget.State()
	assert.Equal(t, domain.ModeBreak, state.Mode)
	assert.Equal(t, 1, state.SessionsCompleted)

	calls := f.audio.Calls()
	assert.Equal(t, "pause", calls[len(calls)-1], "music must stop when work ends")
	assert.Contains(t, f.logs.String(), "session completion failed")
}

func TestWidget_RenderSink(t *testing.T) {
	f := newWidgetFixture(t, 25, 5, 3)
	ctx := context.Background()

	var frames []domain.Snapshot
	f.widget.SetRenderSink(func(s domain.Snapshot) { frames = append(frames, s) })

	_, err := f.widget.AddItem(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Empty(t, frames, "rejected input must not redraw")

	item, err := f.widget.AddItem(ctx, "stretch")
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, 1, frames[0].Stats.TotalItems)

	require.NoError(t, f.widget.ToggleItem(ctx, item.ID))
	require.Len(t, frames, 2)
	assert.Equal(t, 100, frames[1].Stats.Percentage)

	require.NoError(t, f.widget.DeleteItem(ctx, item.ID))
	require.Len(t, frames, 3)
	assert.True(t, frames[2].Checklist.Empty)

	require.NoError(t, f.widget.Start(ctx))
	require.NoError(t, f.widget.Tick(ctx))
	assert.Len(t, frames, 5)
	assert.Equal(t, "24:59", frames[4].Session.Remaining)
}

func TestWidget_TrackEnded(t *testing.T) {
	f := newWidgetFixture(t, 25, 5, 5)
	ctx := context.Background()

	require.NoError(t, f.widget.TrackEnded(ctx))
	assert.Empty(t, f.audio.Calls(), "idle timer must not advance the playlist")

	require.NoError(t, f.widget.Start(ctx))
	require.NoError(t, f.widget.TrackEnded(ctx))
	assert.Equal(t, []string{"load", "play", "load", "play"}, f.audio.Calls())
}

func TestWidget_NilCollaborators(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	w := NewWidget(store, domain.NewSessionTimer(domain.DefaultTimerConfig(), nil), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Pause(ctx))
	assert.Nil(t, w.AudioEnded())
}
