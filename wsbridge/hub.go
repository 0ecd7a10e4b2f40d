// Package wsbridge streams a hanami engine to browser clients over
// websockets. The Hub is the engine's Stage: every frame it broadcasts the
// transform of each live element as JSON.
package wsbridge

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/hanami"
)

const writeTimeout = 200 * time.Millisecond

// Element is the wire form of one animated element.
type Element struct {
	ID       uint32      `json:"id"`
	Kind     hanami.Kind `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Rotation float64     `json:"rot"`
	Progress float64     `json:"progress"`
	Visible  bool        `json:"visible"`
}

// Frame is the message broadcast to clients once per tick.
type Frame struct {
	T        int64     `json:"t"`
	FrameID  uint64    `json:"frame_id"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Elements []Element `json:"elements"`
	Haiku    [3]string `json:"haiku"`
}

// Hub implements hanami.Stage and hanami.TextSink. Element state is owned by
// the frame pump goroutine; only the client set and counters are shared with
// HTTP handlers.
type Hub struct {
	viewport hanami.Viewport

	// pump goroutine only
	elements map[uint32]*elementSink
	nextID   uint32
	haiku    [3]string

	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	frameID   uint64
	live      int
	startTime time.Time
}

// NewHub creates a hub reporting vp's size to clients.
func NewHub(vp hanami.Viewport) *Hub {
	return &Hub{
		viewport:  vp,
		elements:  make(map[uint32]*elementSink),
		clients:   make(map[*websocket.Conn]bool),
		startTime: time.Now(),
	}
}

type elementSink struct {
	hub     *Hub
	el      Element
	removed bool
}

func (s *elementSink) Render(f hanami.Frame) error {
	if s.removed {
		return hanami.ErrTargetGone
	}
	s.el.X = f.X
	s.el.Y = f.Y
	s.el.Rotation = f.Rotation
	s.el.Progress = f.Progress
	s.el.Visible = true
	return nil
}

func (s *elementSink) Complete() { s.hub.remove(s) }

// Create implements hanami.Stage.
func (h *Hub) Create(kind hanami.Kind) (hanami.Sink, error) {
	h.nextID++
	s := &elementSink{hub: h, el: Element{ID: h.nextID, Kind: kind}}
	h.elements[s.el.ID] = s
	return s, nil
}

// Remove implements hanami.Stage.
func (h *Hub) Remove(sink hanami.Sink) {
	if s, ok := sink.(*elementSink); ok {
		h.remove(s)
	}
}

func (h *Hub) remove(s *elementSink) {
	if s.removed {
		return
	}
	s.removed = true
	delete(h.elements, s.el.ID)
}

// SetLine implements hanami.TextSink.
func (h *Hub) SetLine(index int, text string) {
	if index >= 0 && index < len(h.haiku) {
		h.haiku[index] = text
	}
}

// Len returns the number of live elements.
func (h *Hub) Len() int { return len(h.elements) }

// Snapshot builds the next frame message. Elements are ordered by ID.
func (h *Hub) Snapshot() Frame {
	w, ht := h.viewport.Size()
	els := make([]Element, 0, len(h.elements))
	for _, s := range h.elements {
		els = append(els, s.el)
	}
	sort.Slice(els, func(i, j int) bool { return els[i].ID < els[j].ID })

	h.mu.Lock()
	h.frameID++
	h.live = len(els)
	id := h.frameID
	h.mu.Unlock()

	return Frame{
		T:        time.Now().UnixNano(),
		FrameID:  id,
		Width:    w,
		Height:   ht,
		Elements: els,
		Haiku:    h.haiku,
	}
}

// Broadcast sends a snapshot to every connected client.
func (h *Hub) Broadcast() {
	b, err := json.Marshal(h.Snapshot())
	if err != nil {
		hanami.Logger().Warn().Err(err).Msg("encode frame")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			hanami.Logger().Debug().Err(err).Msg("write frame")
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleFrames upgrades the request and streams frames until the client
// disconnects.
func (h *Hub) HandleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		hanami.Logger().Debug().Err(err).Msg("websocket upgrade")
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	hanami.Logger().Info().Str("remote", r.RemoteAddr).Msg("client connected")

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			hanami.Logger().Info().Str("remote", r.RemoteAddr).Msg("client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth reports frame counters as JSON.
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"live":     h.live,
		"clients":  len(h.clients),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
