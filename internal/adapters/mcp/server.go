// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server exposes the widget as MCP tools.
type Server struct {
	server *server.MCPServer
	ctrl   ports.WidgetController
}

// NewServer creates a new MCP server instance.
func NewServer(ctrl ports.WidgetController) *Server {
	s := &Server{ctrl: ctrl}
	s.server = server.NewMCPServer(
		"lofi",
		Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool("get_state",
			mcp.WithDescription("Get the lofi widget state: timer session, checklist and stats"),
		),
		s.handleGetState,
	)

	s.server.AddTool(
		mcp.NewTool("start_timer",
			mcp.WithDescription("Start or resume the work/break timer. Starting a work session plays a random track"),
		),
		s.snapshotTool(s.ctrl.Start),
	)

	s.server.AddTool(
		mcp.NewTool("pause_timer",
			mcp.WithDescription("Pause the timer and the music"),
		),
		s.snapshotTool(s.ctrl.Pause),
	)

	s.server.AddTool(
		mcp.NewTool("reset_timer",
			mcp.WithDescription("Stop the timer and return to the start of a work session. Totals are kept"),
		),
		s.snapshotTool(s.ctrl.Reset),
	)

	s.server.AddTool(
		mcp.NewTool("set_work_minutes",
			mcp.WithDescription("Set the work session length in minutes"),
			mcp.WithNumber("minutes", mcp.Required(), mcp.Description("Work length, 1 to 1440")),
		),
		s.minutesTool(s.ctrl.SetWorkMinutes),
	)

	s.server.AddTool(
		mcp.NewTool("set_break_minutes",
			mcp.WithDescription("Set the break length in minutes"),
			mcp.WithNumber("minutes", mcp.Required(), mcp.Description("Break length, 1 to 1440")),
		),
		s.minutesTool(s.ctrl.SetBreakMinutes),
	)

	s.server.AddTool(
		mcp.NewTool("add_item",
			mcp.WithDescription("Append an item to the checklist"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Item text")),
		),
		s.handleAddItem,
	)

	s.server.AddTool(
		mcp.NewTool("toggle_item",
			mcp.WithDescription("Mark a checklist item done or not done"),
			mcp.WithString("id", mcp.Description("Item ID")),
			mcp.WithString("query", mcp.Description("Fuzzy match on item text, used when id is empty")),
		),
		s.itemTool(s.ctrl.ToggleItem),
	)

	s.server.AddTool(
		mcp.NewTool("delete_item",
			mcp.WithDescription("Remove a checklist item"),
			mcp.WithString("id", mcp.Description("Item ID")),
			mcp.WithString("query", mcp.Description("Fuzzy match on item text, used when id is empty")),
		),
		s.itemTool(s.ctrl.DeleteItem),
	)

	s.server.AddTool(
		mcp.NewTool("list_items",
			mcp.WithDescription("List the checklist in order with completion stats"),
		),
		s.handleListItems,
	)

	s.server.AddTool(
		mcp.NewTool("get_history",
			mcp.WithDescription("List recently finished work and break sessions, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum records to return (default 20)")),
		),
		s.handleGetHistory,
	)
}

// ServeStdio serves MCP over stdin/stdout until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.server)
	return stdio.Listen(ctx, in, out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError turns user mistakes into tool error results and keeps storage
// failures as protocol errors.
func toolError(action string, err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return mcp.NewToolResultError("Please enter an item"), nil
	case errors.Is(err, domain.ErrInvalidDuration), errors.Is(err, domain.ErrItemNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err)), nil
	default:
		return nil, fmt.Errorf("failed to %s: %w", action, err)
	}
}

func (s *Server) handleGetState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return toolError("get state", err)
	}
	return jsonResult(snap)
}

func (s *Server) snapshotTool(fn func(context.Context) (domain.Snapshot, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := fn(ctx)
		if err != nil {
			return toolError(strings.ReplaceAll(request.Params.Name, "_", " "), err)
		}
		return jsonResult(snap.Session)
	}
}

func (s *Server) minutesTool(fn func(context.Context, int) (domain.Snapshot, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		action := strings.ReplaceAll(request.Params.Name, "_", " ")
		minutes, err := request.RequireFloat("minutes")
		if err != nil {
			return mcp.NewToolResultError("minutes is required: " + err.Error()), nil
		}
		if minutes != math.Trunc(minutes) {
			return mcp.NewToolResultError(fmt.Sprintf("minutes must be a whole number, got %v", minutes)), nil
		}
		// Range-check before converting; int() of an out-of-range float is undefined.
		if minutes < 1 || minutes > domain.MaxDurationMinutes {
			return toolError(action, fmt.Errorf("minutes %v: %w", minutes, domain.ErrInvalidDuration))
		}
		snap, err := fn(ctx, int(minutes))
		if err != nil {
			return toolError(action, err)
		}
		return jsonResult(snap.Session)
	}
}

func (s *Server) handleAddItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}
	item, err := s.ctrl.AddItem(ctx, text)
	if err != nil {
		return toolError("add item", err)
	}
	return jsonResult(item)
}

// resolveItem returns the id argument, or the id of the best fuzzy match
// for query.
func (s *Server) resolveItem(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	if id := strings.TrimSpace(request.GetString("id", "")); id != "" {
		return id, nil
	}
	query := strings.TrimSpace(request.GetString("query", ""))
	if query == "" {
		return "", domain.ErrEmptyInput
	}
	item, err := s.ctrl.FindItem(ctx, query)
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

func (s *Server) itemTool(fn func(context.Context, string) (domain.Snapshot, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		action := strings.ReplaceAll(request.Params.Name, "_", " ")
		id, err := s.resolveItem(ctx, request)
		if errors.Is(err, domain.ErrEmptyInput) {
			return mcp.NewToolResultError("id or query is required"), nil
		}
		if err != nil {
			return toolError(action, err)
		}
		snap, err := fn(ctx, id)
		if err != nil {
			return toolError(action, err)
		}
		return jsonResult(map[string]any{
			"id":        id,
			"checklist": snap.Checklist,
			"stats":     snap.Stats,
		})
	}
}

func (s *Server) handleListItems(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return toolError("list items", err)
	}
	result := map[string]any{
		"items":           snap.Checklist.Items,
		"total_count":     snap.Stats.TotalItems,
		"completed_count": snap.Stats.CompletedItems,
		"percentage":      snap.Stats.Percentage,
	}
	if snap.Checklist.Empty {
		result["message"] = domain.EmptyChecklistMessage
	}
	return jsonResult(result)
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 0))
	if limit < 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	records, err := s.ctrl.History(ctx, limit)
	if err != nil {
		return toolError("get history", err)
	}
	return jsonResult(map[string]any{
		"sessions":       records,
		"total_sessions": len(records),
	})
}
