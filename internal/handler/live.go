package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// GetLive handles GET /live as a server-sent event stream of positions.
// The stream ends when the client disconnects, or after ?limit=n events.
func (s *Server) GetLive(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	rc := http.NewResponseController(w)
	// The server-wide write timeout would cut a long-lived stream short.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sent := 0
	for p := range s.tracker.Track(ctx) {
		data, err := json.Marshal(p)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: position\ndata: %s\n\n", data); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
		sent++
		if limit > 0 && sent >= limit {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	// Any origin may subscribe; the stream carries no per-user data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GetLiveWS handles GET /live/ws: the position stream over a WebSocket, one
// JSON position per text message. The client sends nothing; closing the
// socket stops the tracker.
func (s *Server) GetLiveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WarnContext(r.Context(), "live: websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads only detect the close; a hijacked connection does not cancel
	// r.Context() on its own.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.DebugContext(ctx, "live: websocket read", "error", err)
				}
				return
			}
		}
	}()

	for p := range s.tracker.Track(ctx) {
		if err := conn.WriteJSON(p); err != nil {
			return
		}
	}
}
