// Package client talks to a running `lofi serve` over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// defaultTimeout is the per-request timeout.
const defaultTimeout = 10 * time.Second

// ErrServerUnavailable is returned when nothing answers at the address.
var ErrServerUnavailable = errors.New("lofi server is not running")

// APIError is a non-2xx response. It unwraps to the matching domain error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// Unwrap maps the response back onto the domain sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return domain.ErrItemNotFound
	case e.Status == http.StatusBadRequest && strings.Contains(e.Message, "enter an item"):
		return domain.ErrEmptyInput
	case e.Status == http.StatusBadRequest && strings.Contains(e.Message, domain.ErrInvalidDuration.Error()):
		return domain.ErrInvalidDuration
	default:
		return nil
	}
}

// Client implements ports.WidgetController against a remote server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure Client implements ports.WidgetController.
var _ ports.WidgetController = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for addr, which may be host:port or a full URL.
func New(addr string, opts ...ClientOption) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w at %s: %v", ErrServerUnavailable, c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) snapshot(ctx context.Context, method, path string, body any) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := c.do(ctx, method, path, body, &snap)
	return snap, err
}

// Ping checks that the server answers its heartbeat.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Snapshot returns the current views.
func (c *Client) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodGet, "/api/state", nil)
}

// Start resumes the timer.
func (c *Client) Start(ctx context.Context) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/api/timer/start", nil)
}

// Pause stops the timer.
func (c *Client) Pause(ctx context.Context) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/api/timer/pause", nil)
}

// Reset returns to the start of a work session.
func (c *Client) Reset(ctx context.Context) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/api/timer/reset", nil)
}

// SetWorkMinutes changes the work length.
func (c *Client) SetWorkMinutes(ctx context.Context, minutes int) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPut, "/api/timer/work", map[string]int{"minutes": minutes})
}

// SetBreakMinutes changes the break length.
func (c *Client) SetBreakMinutes(ctx context.Context, minutes int) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPut, "/api/timer/break", map[string]int{"minutes": minutes})
}

// AddItem appends a checklist item.
func (c *Client) AddItem(ctx context.Context, text string) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	if err := c.do(ctx, http.MethodPost, "/api/items", map[string]string{"text": text}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleItem flips an item.
func (c *Client) ToggleItem(ctx context.Context, id string) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/api/items/"+url.PathEscape(id)+"/toggle", nil)
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id string) (domain.Snapshot, error) {
	return c.snapshot(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil)
}

// FindItem resolves an id or fuzzy text reference.
func (c *Client) FindItem(ctx context.Context, query string) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	path := "/api/items/find?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// History returns recently finished sessions.
func (c *Client) History(ctx context.Context, limit int) ([]*domain.IntervalRecord, error) {
	path := "/api/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var records []*domain.IntervalRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Watch streams snapshots from /ws until ctx is cancelled or the server
// closes the stream. The channel is closed when the stream ends.
func (c *Client) Watch(ctx context.Context) (<-chan domain.Snapshot, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w at %s: %v", ErrServerUnavailable, c.baseURL, err)
	}

	updates := make(chan domain.Snapshot, 1)
	go func() {
		defer close(updates)
		defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()
		for {
			var snap domain.Snapshot
			if err := wsjson.Read(ctx, conn, &snap); err != nil {
				return
			}
			select {
			case updates <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()
	return updates, nil
}

// Subscribe wraps Watch for the controller interface. A failed dial yields
// a closed channel.
func (c *Client) Subscribe() (<-chan domain.Snapshot, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	updates, err := c.Watch(ctx)
	if err != nil {
		closed := make(chan domain.Snapshot)
		close(closed)
		return closed, cancel
	}
	return updates, cancel
}
