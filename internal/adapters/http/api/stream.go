package api

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/logger"
)

// StreamHandler pushes frames, cues and scroll offsets to the presentation layer.
type StreamHandler struct {
	deps         Dependencies
	origins      []string
	writeTimeout time.Duration
	log          logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps Dependencies, cfg serverConfig) *StreamHandler {
	return &StreamHandler{
		deps:         deps,
		origins:      cfg.origins,
		writeTimeout: cfg.writeTimeout,
		log:          cfg.log,
	}
}

// HandleStream handles GET /session/stream WebSocket upgrades. The current
// frame, when a session exists, is sent first. Client messages are ignored.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		h.log.Warn(r.Context(), "stream upgrade failed", logger.Error(WrapKind(op, ErrStream, err)))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream ended")

	messages, unsubscribe := h.deps.Subscribe(r.Context())
	defer unsubscribe()
	ctx := conn.CloseRead(r.Context())

	if frame, err := h.deps.Frame(ctx); err == nil {
		if err := h.write(ctx, conn, types.FrameMessage(frame)); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-messages:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "service stopped")
				return
			}
			if err := h.write(ctx, conn, m); err != nil {
				h.log.Debug(ctx, "stream client gone", logger.Error(WrapKind(op, ErrStream, err)))
				return
			}
		}
	}
}

func (h *StreamHandler) write(ctx context.Context, conn *websocket.Conn, m types.Message) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, m)
}
