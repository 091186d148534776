package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/lofi-cli/internal/adapters/storage"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/services"
)

type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

func newTestServer(t *testing.T) (*Server, *services.Runner) {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	selector := domain.NewTrackSelector(domain.DefaultTrackPool(), fixedSource(4))
	timer := domain.NewSessionTimer(domain.TimerConfig{WorkMinutes: 25, BreakMinutes: 5}, selector)
	runner := services.NewRunner(services.NewWidget(store, timer, nil, nil, nil), nil)
	runner.SetTickInterval(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return NewServer(runner), runner
}

// toolResult is the decoded tools/call response.
type toolResult struct {
	Text    string
	IsError bool
}

// callTool dispatches through HandleMessage so registration is exercised too.
func callTool(t *testing.T, s *Server, name string, args map[string]any) toolResult {
	t.Helper()
	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	}
	reqJSON, err := json.Marshal(req)
	require.NoError(t, err)

	respMsg := s.MCPServer().HandleMessage(context.Background(), reqJSON)
	require.NotNil(t, respMsg)
	respBytes, err := json.Marshal(respMsg)
	require.NoError(t, err)

	var rpcResp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &rpcResp))
	require.Nil(t, rpcResp.Error, "unexpected protocol error: %s", respBytes)

	var b strings.Builder
	for _, c := range rpcResp.Result.Content {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	return toolResult{Text: b.String(), IsError: rpcResp.Result.IsError}
}

func resultJSON(t *testing.T, result toolResult, target any) {
	t.Helper()
	require.False(t, result.IsError, result.Text)
	require.NoError(t, json.Unmarshal([]byte(result.Text), target), "failed to parse result JSON: %s", result.Text)
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer(t)

	reqJSON := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	respMsg := s.MCPServer().HandleMessage(context.Background(), reqJSON)
	require.NotNil(t, respMsg)

	respBytes, err := json.Marshal(respMsg)
	require.NoError(t, err)

	var rpcResp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &rpcResp))

	names := make(map[string]bool)
	for _, tool := range rpcResp.Result.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{
		"get_state", "start_timer", "pause_timer", "reset_timer",
		"set_work_minutes", "set_break_minutes", "add_item", "toggle_item",
		"delete_item", "list_items", "get_history",
	} {
		assert.True(t, names[name], "expected tool %q to be registered", name)
	}
}

func TestTimerTools(t *testing.T) {
	s, _ := newTestServer(t)

	var session domain.SessionView
	result := callTool(t, s, "start_timer", nil)
	require.False(t, result.IsError)
	resultJSON(t, result, &session)
	assert.True(t, session.Running)
	require.NotNil(t, session.Track)
	assert.Equal(t, 4, *session.Track)

	resultJSON(t, callTool(t, s, "pause_timer", nil), &session)
	assert.False(t, session.Running)

	resultJSON(t, callTool(t, s, "reset_timer", nil), &session)
	assert.Nil(t, session.Track)
	assert.Equal(t, "25:00", session.Remaining)
}

func TestSetMinutesTools(t *testing.T) {
	s, _ := newTestServer(t)

	var session domain.SessionView
	resultJSON(t, callTool(t, s, "set_work_minutes", map[string]any{"minutes": 40}), &session)
	assert.Equal(t, 2400, session.WorkDurationSeconds)

	resultJSON(t, callTool(t, s, "set_break_minutes", map[string]any{"minutes": 15}), &session)
	assert.Equal(t, 900, session.BreakDurationSeconds)

	result := callTool(t, s, "set_break_minutes", map[string]any{"minutes": 0})
	assert.True(t, result.IsError)
	assert.Contains(t, result.Text, "between 1 and 1440 minutes")

	result = callTool(t, s, "set_work_minutes", nil)
	assert.True(t, result.IsError)
}

func TestSetMinutesToolsRejectFractionsAndOverflow(t *testing.T) {
	s, runner := newTestServer(t)

	tests := []struct {
		name    string
		tool    string
		minutes any
		want    string
	}{
		{"fraction", "set_work_minutes", 1.5, "whole number"},
		{"just under one", "set_break_minutes", 0.9, "whole number"},
		{"over a day", "set_work_minutes", domain.MaxDurationMinutes + 1, "between 1 and 1440 minutes"},
		{"huge", "set_break_minutes", 1e30, "between 1 and 1440 minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, tt.tool, map[string]any{"minutes": tt.minutes})
			assert.True(t, result.IsError)
			assert.Contains(t, result.Text, tt.want)
		})
	}

	snap, err := runner.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500, snap.Session.WorkDurationSeconds)
	assert.Equal(t, 300, snap.Session.BreakDurationSeconds)
}

func TestItemTools(t *testing.T) {
	s, runner := newTestServer(t)

	var item domain.ChecklistItem
	resultJSON(t, callTool(t, s, "add_item", map[string]any{"text": "refactor parser"}), &item)
	assert.Equal(t, "refactor parser", item.Text)

	result := callTool(t, s, "toggle_item", map[string]any{"query": "parser"})
	require.False(t, result.IsError, result.Text)

	snap, err := runner.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Checklist.Items, 1)
	assert.True(t, snap.Checklist.Items[0].Completed)

	var list struct {
		Items      []domain.ChecklistItem `json:"items"`
		Percentage int                    `json:"percentage"`
	}
	resultJSON(t, callTool(t, s, "list_items", nil), &list)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 100, list.Percentage)

	result = callTool(t, s, "delete_item", map[string]any{"id": item.ID})
	require.False(t, result.IsError)

	snap, err = runner.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Checklist.Empty)
}

func TestItemToolErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"empty text", "add_item", map[string]any{"text": "  "}, "Please enter an item"},
		{"missing text", "add_item", nil, "text is required"},
		{"no reference", "toggle_item", nil, "id or query is required"},
		{"no match", "delete_item", map[string]any{"query": "nothing here"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, tt.tool, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, result.Text, tt.want)
		})
	}
}

func TestListItemsEmpty(t *testing.T) {
	s, _ := newTestServer(t)
	text := callTool(t, s, "list_items", nil).Text
	assert.Contains(t, text, domain.EmptyChecklistMessage)
}

func TestGetHistory(t *testing.T) {
	s, _ := newTestServer(t)

	var history struct {
		Sessions      []domain.IntervalRecord `json:"sessions"`
		TotalSessions int                     `json:"total_sessions"`
	}
	resultJSON(t, callTool(t, s, "get_history", map[string]any{"limit": 5}), &history)
	assert.Equal(t, 0, history.TotalSessions)

	result := callTool(t, s, "get_history", map[string]any{"limit": -1})
	assert.True(t, result.IsError)
}
