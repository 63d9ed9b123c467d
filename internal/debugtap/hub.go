// ABOUTME: Debug note fan-out hub with WebSocket and HTTP endpoints
// ABOUTME: Slow clients are dropped rather than allowed to block the engine
package debugtap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/engine"
)

const (
	// AudioPath streams notes
	AudioPath = "/debug/audio"
	// StatePath serves a snapshot
	StatePath = "/debug/state"

	clientBuffer  = 64
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Source is the engine surface the hub observes
type Source interface {
	SetDebugCallback(fn engine.DebugFunc)
	State() audio.State
	Stats() engine.Stats
	ContextID() string
	AmbientCount() int
}

// Event is one streamed note
type Event struct {
	Time  time.Time `json:"time"`
	Note  string    `json:"note"`
	State string    `json:"state"`
}

// Snapshot is the /debug/state document
type Snapshot struct {
	State     string       `json:"state"`
	ContextID string       `json:"context_id"`
	Ambient   int          `json:"ambient"`
	Clients   int          `json:"clients"`
	Stats     engine.Stats `json:"stats"`
}

type client struct {
	conn   *websocket.Conn
	remote string
	send   chan Event
	once   sync.Once
	done   chan struct{}
}

func (c *client) drop() {
	c.once.Do(func() { close(c.done) })
}

// Hub fans engine notes out to subscribers
type Hub struct {
	src      Source
	log      *logrus.Entry
	upgrader websocket.Upgrader
	now      func() time.Time

	mu      sync.Mutex
	clients map[*client]struct{}
	subs    map[int]func(string)
	nextSub int
	closed  bool

	wg sync.WaitGroup
}

// New creates a hub and attaches it to src
func New(src Source, log *logrus.Entry) *Hub {
	if log == nil {
		log = logrus.WithField("component", "debugtap")
	}
	h := &Hub{
		src: src,
		log: log,
		now: time.Now,
		upgrader: websocket.Upgrader{
			// Debug tooling for the local network, any origin may watch
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		subs:    make(map[int]func(string)),
	}
	src.SetDebugCallback(h.publish)
	return h
}

// publish is the engine observer. It never blocks.
func (h *Hub) publish(note string) {
	ev := Event{Time: h.now(), Note: note, State: h.src.State().String()}

	h.mu.Lock()
	subs := make([]func(string), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.log.WithField("remote", c.remote).Warn("Dropping slow debug client")
			delete(h.clients, c)
			c.drop()
		}
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(note)
	}
}

// Subscribe adds an in-process listener and returns its removal func
func (h *Hub) Subscribe(fn func(note string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Clients returns the number of connected WebSocket clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Snapshot captures the engine state
func (h *Hub) Snapshot() Snapshot {
	return Snapshot{
		State:     h.src.State().String(),
		ContextID: h.src.ContextID(),
		Ambient:   h.src.AmbientCount(),
		Clients:   h.Clients(),
		Stats:     h.src.Stats(),
	}
}

// Handler returns the HTTP handler serving both endpoints
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(AudioPath, h.handleWebSocket)
	mux.HandleFunc(StatePath, h.handleState)
	return mux
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Snapshot()); err != nil {
		h.log.WithError(err).Debug("Failed to write state snapshot")
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade error")
		return
	}

	c := &client{
		conn:   conn,
		remote: r.RemoteAddr,
		send:   make(chan Event, clientBuffer),
		done:   make(chan struct{}),
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.wg.Add(1)
	h.mu.Unlock()

	h.log.WithField("remote", r.RemoteAddr).Info("Debug client connected")
	defer h.wg.Done()

	go h.readLoop(c)
	h.writeLoop(c)

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	conn.Close()
	h.log.WithField("remote", r.RemoteAddr).Info("Debug client disconnected")
}

// readLoop discards client messages and notices disconnects
func (h *Hub) readLoop(c *client) {
	defer c.drop()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("Debug client read error")
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteJSON(ev); err != nil {
				h.log.WithError(err).Debug("Debug client write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// Serve listens on addr until ctx is done
func (h *Hub) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("debug tap listen: %w", err)
	}
	return h.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done
func (h *Hub) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	h.log.WithField("addr", ln.Addr().String()).Info("Debug tap listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close detaches from the engine and disconnects every client
func (h *Hub) Close() {
	h.src.SetDebugCallback(nil)

	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		c.drop()
	}
	clear(h.subs)
	h.mu.Unlock()

	h.wg.Wait()
}
