package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// writeTimeout bounds a single snapshot push.
const writeTimeout = 5 * time.Second

// Stream upgrades to a WebSocket, sends the current snapshot and then one
// snapshot per render until the client goes away.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.Error("failed to accept websocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			h.logger.Debug("failed to close websocket", "error", closeErr)
		}
	}()

	updates, cancel := h.ctrl.Subscribe()
	defer cancel()

	// Reads are only used to notice the client closing.
	ctx := ws.CloseRead(r.Context())
	h.logger.Info("websocket connected", "remote", r.RemoteAddr)

	snap, err := h.ctrl.Snapshot(ctx)
	if err != nil {
		h.logger.Error("failed to load snapshot", "error", err)
		return
	}
	if err := h.push(ctx, ws, snap); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("websocket disconnected", "remote", r.RemoteAddr)
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.push(ctx, ws, snap); err != nil {
				return
			}
		}
	}
}

func (h *Handler) push(ctx context.Context, ws *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := wsjson.Write(ctx, ws, v)
	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Debug("websocket write failed", "error", err)
	}
	return err
}
