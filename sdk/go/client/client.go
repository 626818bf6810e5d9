// Package client provides a Go client for the rigid2d websocket server
package client

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/server"
	"github.com/zeusync/rigid2d/internal/sim"
)

// Client represents a connection to a simulation server
type Client struct {
	conn *websocket.Conn

	// Client state
	id     atomic.Pointer[string]
	latest atomic.Pointer[sim.Frame]

	// Event handlers
	frameHandlers []FrameHandler
	eventHandlers map[EventType][]EventHandler
	handlerMutex  sync.RWMutex

	// Lifecycle
	connected atomic.Bool
	closed    atomic.Bool
	writeMu   sync.Mutex

	// Configuration and logging
	config Config
	logger log.Log

	// Background workers
	workerGroup sync.WaitGroup
}

// Config holds configuration for the client
type Config struct {
	// Connection settings
	ServerURL      string
	Token          string
	ConnectTimeout time.Duration

	// Message settings
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() Config {
	return Config{
		ServerURL:      "ws://localhost:8080/ws",
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   5 * time.Second,
		MaxMessageSize: 4 * 1024 * 1024,
	}
}

// FrameHandler receives every frame in tick order.
type FrameHandler func(frame *sim.Frame)

// EventHandler defines a function type for handling client events
type EventHandler func(event Event)

// EventType represents different types of client events
type EventType string

const (
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeCulled       EventType = "culled"
	EventTypeError        EventType = "error"
)

// Event represents a client event
type Event struct {
	Type      EventType
	Timestamp time.Time
	Tick      uint64
	Culled    []uuid.UUID
	Error     string
}

// NewClient creates a new client
func NewClient(config Config, logger log.Log) *Client {
	return &Client{
		eventHandlers: make(map[EventType][]EventHandler),
		config:        config,
		logger:        logger.With(log.String("component", "client")),
	}
}

// Connect dials the server and waits for its welcome message.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	if c.connected.Load() {
		return ErrAlreadyConnected
	}

	target, err := url.Parse(c.config.ServerURL)
	if err != nil {
		return ErrInvalidConfig
	}
	if c.config.Token != "" {
		query := target.Query()
		query.Set("token", c.config.Token)
		target.RawQuery = query.Encode()
	}

	c.logger.Info("Connecting to server", log.String("url", c.config.ServerURL))

	connectCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(connectCtx, target.String(), nil)
	if err != nil {
		c.logger.Error("Failed to connect to server", log.String("url", c.config.ServerURL), log.Error(err))
		return err
	}
	conn.SetReadLimit(c.config.MaxMessageSize)

	var welcome server.Message
	_ = conn.SetReadDeadline(time.Now().Add(c.config.ConnectTimeout))
	if err = conn.ReadJSON(&welcome); err != nil || welcome.Type != server.MessageWelcome {
		_ = conn.Close()
		return ErrInvalidMessage
	}
	_ = conn.SetReadDeadline(time.Time{})

	c.conn = conn
	c.id.Store(&welcome.ClientID)
	c.connected.Store(true)

	c.logger.Info("Connected to server", log.String("client_id", welcome.ClientID))

	c.workerGroup.Add(1)
	go func() {
		defer c.workerGroup.Done()
		c.messageReceiver()
	}()

	c.emitEvent(Event{Type: EventTypeConnected, Timestamp: time.Now()})

	return nil
}

// Disconnect closes the connection to the server
func (c *Client) Disconnect() error {
	if !c.connected.CompareAndSwap(true, false) {
		return ErrNotConnected
	}

	c.logger.Info("Disconnecting from server")

	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.config.WriteTimeout))
	c.writeMu.Unlock()
	_ = c.conn.Close()

	c.workerGroup.Wait()

	return nil
}

// Close closes the client and releases all resources
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	if c.connected.Load() {
		_ = c.Disconnect()
	}

	c.logger.Info("Client closed")

	return nil
}

// Spawn asks the server to drop a new dynamic body at (x, y).
func (c *Client) Spawn(shape string, x, y float64) error {
	return c.send(server.ControlMessage{Action: "spawn", Shape: shape, X: x, Y: y})
}

// SpawnCircle spawns a circle with an explicit radius.
func (c *Client) SpawnCircle(radius, x, y float64) error {
	return c.send(server.ControlMessage{Action: "spawn", Shape: "circle", Radius: radius, X: x, Y: y})
}

// Nudge teleports a dynamic body and clears its velocity.
func (c *Client) Nudge(id uuid.UUID, x, y float64) error {
	return c.send(server.ControlMessage{Action: "nudge", ID: id.String(), X: x, Y: y})
}

// Remove deletes a body.
func (c *Client) Remove(id uuid.UUID) error {
	return c.send(server.ControlMessage{Action: "remove", ID: id.String()})
}

func (c *Client) send(msg server.ControlMessage) error {
	if !c.connected.Load() {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	return c.conn.WriteJSON(msg)
}

// OnFrame registers a frame handler
func (c *Client) OnFrame(handler FrameHandler) {
	c.handlerMutex.Lock()
	defer c.handlerMutex.Unlock()
	c.frameHandlers = append(c.frameHandlers, handler)
}

// OnEvent registers an event handler
func (c *Client) OnEvent(eventType EventType, handler EventHandler) {
	c.handlerMutex.Lock()
	defer c.handlerMutex.Unlock()
	c.eventHandlers[eventType] = append(c.eventHandlers[eventType], handler)
}

// ID returns the id assigned by the server, or "" before Connect.
func (c *Client) ID() string {
	if id := c.id.Load(); id != nil {
		return *id
	}
	return ""
}

// Latest returns the most recent frame received.
func (c *Client) Latest() *sim.Frame { return c.latest.Load() }

// IsConnected returns true if client is connected
func (c *Client) IsConnected() bool { return c.connected.Load() }

// IsClosed returns true if client is closed
func (c *Client) IsClosed() bool { return c.closed.Load() }

// messageReceiver handles incoming messages
func (c *Client) messageReceiver() {
	c.logger.Debug("Message receiver started")
	defer c.logger.Debug("Message receiver stopped")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.connected.CompareAndSwap(true, false) {
				c.logger.Warn("Connection lost", log.Error(err))
				_ = c.conn.Close()
			}
			c.emitEvent(Event{Type: EventTypeDisconnected, Timestamp: time.Now()})
			return
		}

		var msg server.Message
		if err = json.Unmarshal(data, &msg); err != nil {
			c.logger.Error("Failed to decode message", log.Error(err))
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage processes an incoming message
func (c *Client) handleMessage(msg server.Message) {
	switch msg.Type {
	case server.MessageFrame:
		if msg.Frame == nil {
			return
		}
		c.latest.Store(msg.Frame)

		c.handlerMutex.RLock()
		handlers := c.frameHandlers
		c.handlerMutex.RUnlock()
		for _, handler := range handlers {
			handler(msg.Frame)
		}
	case server.MessageCulled:
		c.emitEvent(Event{Type: EventTypeCulled, Timestamp: time.Now(), Tick: msg.Tick, Culled: msg.Culled})
	case server.MessageError:
		c.emitEvent(Event{Type: EventTypeError, Timestamp: time.Now(), Error: msg.Error})
	default:
		c.logger.Debug("Ignoring message", log.String("type", msg.Type))
	}
}

// emitEvent emits an event to registered handlers
func (c *Client) emitEvent(event Event) {
	c.handlerMutex.RLock()
	handlers := c.eventHandlers[event.Type]
	c.handlerMutex.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
