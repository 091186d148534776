package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/lofi-cli/internal/adapters/audio"
	"github.com/xvierd/lofi-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func newTestUI(format Format) (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Format: format, Out: out, ErrOut: errOut}, out, errOut
}

func testSnapshot(items ...string) domain.Snapshot {
	list := make([]*domain.ChecklistItem, 0, len(items))
	for _, text := range items {
		item, _ := domain.NewChecklistItem(text)
		list = append(list, item)
	}
	selector := domain.NewTrackSelector(domain.DefaultTrackPool(), nil)
	timer := domain.NewSessionTimer(domain.DefaultTimerConfig(), selector)
	return domain.NewSnapshot(timer, list)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMessagesSilencedWhenStructured(t *testing.T) {
	u, out, errOut := newTestUI(FormatJSON)
	u.Success("added %s", "x")
	u.Info("note")
	assert.Empty(t, out.String())

	u.Warning("careful")
	assert.Contains(t, errOut.String(), "careful")
}

func TestSuccessText(t *testing.T) {
	u, out, _ := newTestUI(FormatText)
	u.Success("done %d", 42)
	assert.Contains(t, out.String(), "done 42")
}

func TestEncodeJSON(t *testing.T) {
	u, out, _ := newTestUI(FormatJSON)
	require.NoError(t, u.Snapshot(testSnapshot("a")))

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, "25:00", snap.Session.Remaining)
	assert.Len(t, snap.Checklist.Items, 1)
}

func TestEncodeYAMLUsesJSONKeys(t *testing.T) {
	u, out, _ := newTestUI(FormatYAML)
	require.NoError(t, u.Snapshot(testSnapshot("a")))

	text := out.String()
	assert.Contains(t, text, "remaining_seconds: 1500")
	assert.NotContains(t, text, "{", "YAML should be block style")

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &parsed))
	assert.Contains(t, parsed, "session")
	assert.Contains(t, parsed, "checklist")
}

func TestSnapshotText(t *testing.T) {
	u, out, _ := newTestUI(FormatText)
	require.NoError(t, u.Snapshot(testSnapshot()))

	text := out.String()
	assert.Contains(t, text, "Work (paused)")
	assert.Contains(t, text, "25:00")
	assert.Contains(t, text, domain.EmptyChecklistMessage)
}

func TestItemsTable(t *testing.T) {
	u, out, _ := newTestUI(FormatText)
	snap := testSnapshot("buy milk", "call mom")
	require.NoError(t, u.Items(snap.Checklist, snap.Stats))

	text := out.String()
	assert.Contains(t, text, "buy milk")
	assert.Contains(t, text, "call mom")
	assert.Contains(t, text, "0/2 done (0%)")
}

func TestHistory(t *testing.T) {
	u, out, _ := newTestUI(FormatText)
	require.NoError(t, u.History(nil))
	assert.Contains(t, out.String(), "No finished sessions yet.")

	out.Reset()
	records := []*domain.IntervalRecord{
		domain.NewIntervalRecord(domain.ModeWork, 1500, time.Now()),
		domain.NewIntervalRecord(domain.ModeBreak, 300, time.Now()),
	}
	require.NoError(t, u.History(records))
	text := out.String()
	assert.Contains(t, text, "25m 0s")
	assert.Contains(t, text, "5m 0s")
	assert.Contains(t, text, "Break")
}

func TestHistoryJSONEmptyArray(t *testing.T) {
	u, out, _ := newTestUI(FormatJSON)
	require.NoError(t, u.History(nil))
	assert.Equal(t, "[]", strings.TrimSpace(out.String()))
}

func TestTracks(t *testing.T) {
	u, out, _ := newTestUI(FormatText)
	tracks := audio.Catalog(t.TempDir(), domain.DefaultTrackPool())
	require.NoError(t, u.Tracks(tracks))

	text := out.String()
	assert.Contains(t, text, "lofimusic_part1.mp3 (default)")
	assert.Contains(t, text, "excluded")
	assert.Contains(t, text, "missing")
}

func TestBar(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{0, "[░░░░]"},
		{0.5, "[██░░]"},
		{1, "[████]"},
		{2, "[████]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bar(tt.fraction, 4))
	}
}
