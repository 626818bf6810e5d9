package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/sim"
	"github.com/zeusync/rigid2d/pkg/generic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Hub streams simulation frames to websocket clients and forwards their
// control messages to the simulation.
type Hub struct {
	cfg       Config
	submitter sim.Submitter
	logger    log.Log
	buffers   *generic.Pool[*bytes.Buffer]

	subs []bus.Subscription

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool

	// pending holds at most one frame; a newer frame replaces an unsent one.
	pending chan *sim.Frame
	notices chan Message
	latest  atomic.Pointer[[]byte]

	dropped atomic.Uint64
}

// NewHub subscribes the hub to frame and cull events on cfg.Topic.
func NewHub(eventBus bus.EventBus, submitter sim.Submitter, cfg Config, logger log.Log) (*Hub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Hub{
		cfg:       cfg,
		submitter: submitter,
		logger:    logger.With(log.String("component", "hub")),
		buffers: generic.NewHotPool(func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, 4096))
		}, 4).WithReset(func(b *bytes.Buffer) { b.Reset() }),
		clients: make(map[*client]struct{}),
		pending: make(chan *sim.Frame, 1),
		notices: make(chan Message, 16),
	}

	frames, err := eventBus.SubscribeTopic(cfg.Topic, sim.EventFrame, h.onFrame)
	if err != nil {
		return nil, err
	}
	culled, err := eventBus.SubscribeTopic(cfg.Topic, sim.EventCulled, h.onCulled)
	if err != nil {
		_ = frames.Cancel()
		return nil, err
	}
	h.subs = []bus.Subscription{frames, culled}

	return h, nil
}

// onFrame runs on the simulation goroutine and never blocks.
func (h *Hub) onFrame(e bus.Event) error {
	frame, ok := sim.FrameOf(e)
	if !ok {
		return ErrInvalidMessage
	}

	select {
	case h.pending <- frame:
		return nil
	default:
	}
	select {
	case <-h.pending:
	default:
	}
	select {
	case h.pending <- frame:
	default:
	}
	return nil
}

func (h *Hub) onCulled(e bus.Event) error {
	ids := sim.CulledIDs(e)
	if len(ids) == 0 {
		return nil
	}
	select {
	case h.notices <- Message{Type: MessageCulled, Tick: e.Tick(), Culled: ids}:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// Run encodes pending frames and notices and fans them out until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-h.pending:
			data, err := h.encode(Message{Type: MessageFrame, Tick: frame.Tick, Frame: frame})
			if err != nil {
				h.logger.Error("Failed to encode frame", log.Uint64("tick", frame.Tick), log.Error(err))
				continue
			}
			h.latest.Store(&data)
			h.broadcast(data)
		case notice := <-h.notices:
			data, err := h.encode(notice)
			if err != nil {
				h.logger.Error("Failed to encode notice", log.String("type", notice.Type), log.Error(err))
				continue
			}
			h.broadcast(data)
		}
	}
}

// encode returns an immutable copy that may be shared by every client.
func (h *Hub) encode(msg Message) ([]byte, error) {
	buf := h.buffers.Get()
	defer h.buffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}
	return bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})), nil
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.enqueue(data) {
			h.dropped.Add(1)
		}
	}
}

// ServeHTTP upgrades the request to a websocket and serves the client until
// it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Token != "" && r.URL.Query().Get("token") != h.cfg.Token {
		http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	h.mu.RLock()
	full, closed := len(h.clients) >= h.cfg.MaxClients, h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	if full {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", log.String("remote", r.RemoteAddr), log.Error(err))
		return
	}

	c := newClient(conn, h.cfg.SendBuffer)
	if err = h.register(c); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(h.cfg.WriteTimeout))
		_ = conn.Close()
		return
	}
	defer h.unregister(c)

	h.logger.Info("Client connected", log.String("client_id", c.id), log.String("remote", r.RemoteAddr))

	if welcome, err := h.encode(Message{Type: MessageWelcome, ClientID: c.id}); err == nil {
		c.enqueue(welcome)
	}
	if latest := h.latest.Load(); latest != nil {
		c.enqueue(*latest)
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrServerClosed
	}
	if len(h.clients) >= h.cfg.MaxClients {
		return ErrMaxClientsReached
	}
	h.clients[c] = struct{}{}
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	c.close()
	if ok {
		h.logger.Info("Client disconnected", log.String("client_id", c.id))
	}
}

func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(h.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.ClientTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.ClientTimeout))
	})

	for {
		var msg ControlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				h.reject(c, ErrInvalidMessage)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Client read failed", log.String("client_id", c.id), log.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.ClientTimeout))

		cmd, err := msg.Command()
		if err == nil {
			err = h.submitter.Submit(cmd)
		}
		if err != nil {
			h.reject(c, err)
		}
	}
}

func (h *Hub) reject(c *client, err error) {
	h.logger.Debug("Control message rejected", log.String("client_id", c.id), log.Error(err))
	if data, encErr := h.encode(Message{Type: MessageError, Error: err.Error()}); encErr == nil {
		c.enqueue(data)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.cfg.WriteTimeout))
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("Client write failed", log.String("client_id", c.id), log.Error(err))
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded for slow clients.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Close cancels bus subscriptions and disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	var errs []error
	for _, sub := range h.subs {
		if err := sub.Cancel(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range clients {
		c.close()
	}
	return errors.Join(errs...)
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn, buffer int) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks; it reports false when the client is behind or gone.
func (c *client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}
