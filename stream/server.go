// Package stream serves the particle positions to browser clients over
// websocket and feeds their pointer and visibility events back into the
// simulation.
package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/swirl/input"
	"github.com/pthm-cable/swirl/systems"
)

// Message is a client event.
//
//	{"type":"pointer","x":0.2,"y":-0.4}   NDC pointer position
//	{"type":"visibility","visible":false} page visibility change
type Message struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Visible bool    `json:"visible,omitempty"`
}

// Message types.
const (
	TypePointer    = "pointer"
	TypeVisibility = "visibility"
)

// Config holds hub timing.
type Config struct {
	Path         string
	SendInterval time.Duration
	WriteTimeout time.Duration
}

// Hub broadcasts position frames and relays client events.
// It implements systems.InputSource.
//
// Each client reports its own visibility. The sink sees the hub as visible
// while no clients are connected or at least one of them is visible, so a
// closing tab cannot freeze the field for everyone else.
type Hub struct {
	cfg      Config
	buf      *systems.RenderBuffer
	proj     *input.Projector
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sink     systems.InputSink
	clients  map[*websocket.Conn]bool // conn -> visible
	reported bool                     // last visibility sent to sink
	done     chan struct{}
}

// NewHub creates a hub streaming buf and projecting pointers through proj.
func NewHub(cfg Config, buf *systems.RenderBuffer, proj *input.Projector) *Hub {
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	if cfg.SendInterval <= 0 {
		cfg.SendInterval = 33 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Second
	}
	return &Hub{
		cfg:  cfg,
		buf:  buf,
		proj: proj,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:  make(map[*websocket.Conn]bool),
		reported: true,
		done:     make(chan struct{}),
	}
}

// Attach starts relaying client events to sink. The returned func stops
// relaying and disconnects every client.
func (h *Hub) Attach(sink systems.InputSink) func() {
	h.mu.Lock()
	h.sink = sink
	h.reported = true
	h.syncVisibilityLocked()
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(h.detach)
	}
}

func (h *Hub) detach() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*websocket.Conn]bool)
	h.syncVisibilityLocked()
	h.sink = nil
	close(h.done)
	h.mu.Unlock()

	for c := range clients {
		c.Close()
	}
}

// visibleLocked combines the clients' visibility.
func (h *Hub) visibleLocked() bool {
	if len(h.clients) == 0 {
		return true
	}
	for _, v := range h.clients {
		if v {
			return true
		}
	}
	return false
}

// syncVisibilityLocked tells the sink when the combined visibility changed.
// Called with h.mu held so updates reach the sink in order.
func (h *Hub) syncVisibilityLocked() {
	v := h.visibleLocked()
	if h.sink == nil || v == h.reported {
		return
	}
	h.reported = v
	h.sink.SetVisible(v)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var hs websocket.HandshakeError
		if !errors.As(err, &hs) {
			slog.Warn("websocket upgrade failed", "error", err)
		}
		return
	}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}
	h.clients[conn] = true
	h.mu.Unlock()

	slog.Info("stream client connected", "remote", r.RemoteAddr)

	quit := make(chan struct{})
	go h.writeLoop(conn, quit)
	h.readLoop(conn)
	close(quit)

	h.mu.Lock()
	delete(h.clients, conn)
	h.syncVisibilityLocked()
	h.mu.Unlock()
	conn.Close()

	slog.Info("stream client disconnected", "remote", r.RemoteAddr)
}

// readLoop applies client events until the connection fails.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("stream read failed", "error", err)
			}
			return
		}
		h.apply(conn, msg)
	}
}

func (h *Hub) apply(conn *websocket.Conn, msg Message) {
	switch msg.Type {
	case TypePointer:
		h.mu.Lock()
		sink := h.sink
		h.mu.Unlock()
		if sink == nil {
			return
		}
		ray, err := h.proj.Ray(msg.X, msg.Y)
		if err != nil {
			slog.Warn("dropping pointer event", "error", err)
			return
		}
		sink.SetPointer(ray)
	case TypeVisibility:
		h.mu.Lock()
		if _, ok := h.clients[conn]; ok {
			h.clients[conn] = msg.Visible
			h.syncVisibilityLocked()
		}
		h.mu.Unlock()
	default:
		slog.Debug("unknown stream message", "type", msg.Type)
	}
}

// writeLoop sends a frame whenever the buffer was republished.
func (h *Hub) writeLoop(conn *websocket.Conn, quit <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.SendInterval)
	defer ticker.Stop()

	var snap []float32
	var frame []byte
	sent := ^uint64(0)

	for {
		select {
		case <-quit:
			return
		case <-h.done:
			return
		case <-ticker.C:
		}

		var version uint64
		snap, version = h.buf.Snapshot(snap)
		if version == sent {
			continue
		}

		frame = EncodeFrame(frame[:0], snap)
		conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			slog.Debug("stream write failed", "error", err)
			conn.Close()
			return
		}
		sent = version
	}
}

// EncodeFrame appends positions as little-endian float32 to dst.
func EncodeFrame(dst []byte, positions []float32) []byte {
	for _, v := range positions {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// DecodeFrame parses a frame produced by EncodeFrame.
func DecodeFrame(frame []byte) []float32 {
	out := make([]float32, len(frame)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(frame[4*i:]))
	}
	return out
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(h.cfg.Path, h)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("stream listening", "addr", addr, "path", h.cfg.Path)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
