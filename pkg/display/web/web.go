// Package web streams a running core's framebuffer to browser clients
// over a websocket and relays their button presses back, grounded in the
// teacher's pkg/display/web hub/client pattern (register/unregister
// channels, per-client read/write pumps) but scoped down to a single
// GameBoy rather than the teacher's multi-player matchmaking hub.
package web

import (
	"image"
	"image/jpeg"
	"bytes"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/pkg/display"
	"github.com/thelolagemann/gbcore/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client input byte codes, matching the teacher's single-byte message
// tagging scheme.
const (
	msgPress   = 1
	msgRelease = 2
)

var inputKeys = []joypad.Button{
	joypad.ButtonA, joypad.ButtonB, joypad.ButtonSelect, joypad.ButtonStart,
	joypad.ButtonRight, joypad.ButtonLeft, joypad.ButtonUp, joypad.ButtonDown,
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts frames to every connected client and accumulates their
// button transitions for the next Poll.
type Hub struct {
	log log.Logger

	mu      sync.Mutex
	clients map[*client]bool

	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	inputMu  sync.Mutex
	pressed  []joypad.Button
	released []joypad.Button
}

// NewHub constructs a Hub. Call ListenAndServe to start accepting
// connections and Run to pump the broadcast loop.
func NewHub() *Hub {
	return &Hub{
		log:        log.New(),
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 8),
	}
}

// ListenAndServe registers the websocket upgrade handler on addr and
// serves it in a background goroutine.
func (h *Hub) ListenAndServe(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleUpgrade)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			h.log.Errorf("web: server exited: %v", err)
		}
	}()
}

func (h *Hub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c
	go h.readPump(c)
	go h.writePump(c)
}

// Run services register/unregister/broadcast until stopped; call it in
// its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer func() { h.unregister <- c }()
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if len(msg) < 2 || int(msg[1]) >= len(inputKeys) {
			continue
		}
		button := inputKeys[msg[1]]
		h.inputMu.Lock()
		switch msg[0] {
		case msgPress:
			h.pressed = append(h.pressed, button)
		case msgRelease:
			h.released = append(h.released, button)
		}
		h.inputMu.Unlock()
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Present JPEG-encodes frame and broadcasts it to every connected client.
// Satisfies display.FrameSink.
func (h *Hub) Present(frame *image.RGBA) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 85}); err != nil {
		return err
	}
	select {
	case h.broadcast <- buf.Bytes():
	default:
	}
	return nil
}

// Poll satisfies display.InputSource; web clients never ask to exit the
// process they're attached to.
func (h *Hub) Poll() (display.Inputs, bool) {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	in := display.Inputs{Pressed: h.pressed, Released: h.released}
	h.pressed = nil
	h.released = nil
	return in, false
}
