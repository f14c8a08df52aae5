package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ==========================================
// LIVE PREVIEW (WEBSOCKET)
// ==========================================
// previewHub streams rendered frames to the control page so the browser
// shows exactly what the ring shows. Slow or gone clients get dropped
// rather than ever blocking the control loop.

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The preview carries no secrets and the device runs on a LAN.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type previewHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
	log     zerolog.Logger
}

func newPreviewHub(log zerolog.Logger) *previewHub {
	return &previewHub{
		clients: make(map[*websocket.Conn]chan []byte),
		log:     log.With().Str("component", "preview").Logger(),
	}
}

func (h *previewHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	send := make(chan []byte, 4)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("preview client connected")

	go h.writer(conn, send)
	go h.reader(conn)
}

func (h *previewHub) writer(conn *websocket.Conn, send chan []byte) {
	defer conn.Close()
	for msg := range send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(conn)
			return
		}
	}
}

// reader discards incoming messages and detects disconnects.
func (h *previewHub) reader(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(conn)
			return
		}
	}
}

func (h *previewHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()
}

// Broadcast fans the frame out to every connected client. A client whose
// buffer is full skips this frame; the next one catches it up.
func (h *previewHub) Broadcast(f Frame) {
	h.mu.Lock()
	if len(h.clients) == 0 {
		h.mu.Unlock()
		return
	}
	msg, err := json.Marshal(map[string]interface{}{"pixels": f[:]})
	if err != nil {
		h.mu.Unlock()
		return
	}
	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
		}
	}
	h.mu.Unlock()
}
