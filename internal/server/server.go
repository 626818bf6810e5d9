package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/sim"
)

// Simulation is the part of the runner the server talks to.
type Simulation interface {
	sim.Submitter
	Stats() sim.Stats
}

// Server exposes a running simulation over HTTP and websockets.
//
//	GET /ws       frame stream and control messages
//	GET /stats    runner, bus and client statistics
//	GET /healthz  liveness
type Server struct {
	hub        *Hub
	simulation Simulation
	httpServer *http.Server
	listener   net.Listener

	// Server state
	running atomic.Bool
	closed  atomic.Bool

	// Configuration and logging
	config Config
	logger log.Log

	// Background workers
	workerGroup sync.WaitGroup
	stopHub     context.CancelFunc
}

// Stats contains server statistics
type Stats struct {
	Running     bool      `json:"running"`
	ClientCount int       `json:"client_count"`
	Dropped     uint64    `json:"dropped"`
	Simulation  sim.Stats `json:"simulation"`
}

// NewServer creates a server that streams frames published on eventBus.
func NewServer(eventBus bus.EventBus, simulation Simulation, config Config, logger log.Log) (*Server, error) {
	hub, err := NewHub(eventBus, simulation, config, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		hub:        hub,
		simulation: simulation,
		config:     config,
		logger:     logger.With(log.String("component", "server")),
	}

	mux := http.NewServeMux()
	mux.Handle("GET /ws", hub)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients))

	return s, nil
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}

	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	s.logger.Info("Starting server")

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		s.running.Store(false)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = listener

	hubCtx, cancel := context.WithCancel(context.Background())
	s.stopHub = cancel

	s.workerGroup.Add(2)
	go func() {
		defer s.workerGroup.Done()
		_ = s.hub.Run(hubCtx)
	}()
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))

	return nil
}

// Stop gracefully shuts down the HTTP server and disconnects clients.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")

	// Hijacked websocket connections are not tracked by Shutdown.
	err := s.hub.Close()
	err = errors.Join(err, s.httpServer.Shutdown(ctx))

	s.stopHub()
	s.workerGroup.Wait()

	s.logger.Info("Server stopped")

	return err
}

// Close closes the server and releases all resources
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	if s.running.Load() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(ctx)
	}
	return s.hub.Close()
}

// Serve starts the server, blocks until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// GetStats returns server statistics
func (s *Server) GetStats() Stats {
	return Stats{
		Running:     s.running.Load(),
		ClientCount: s.hub.Clients(),
		Dropped:     s.hub.Dropped(),
		Simulation:  s.simulation.Stats(),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.GetStats()); err != nil {
		s.logger.Warn("Failed to write stats", log.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.running.Load() {
		http.Error(w, ErrServerNotRunning.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
