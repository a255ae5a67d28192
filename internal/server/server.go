package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/joybind/internal/discovery"
	"github.com/muurk/joybind/internal/logging"
	"github.com/muurk/joybind/internal/version"
)

// Config holds the agent server configuration.
type Config struct {
	Host     string
	Port     int
	LogLevel string

	// Announce advertises the agent over mDNS so binders can find it
	// without configuration.
	Announce bool

	// DetectCountdown is how long a detection pass waits for a first input.
	// CollectWindow is how long it keeps collecting after one arrives.
	// Zero values take the defaults.
	DetectCountdown time.Duration
	CollectWindow   time.Duration
}

const (
	defaultDetectCountdown = 10 * time.Second
	defaultCollectWindow   = 1000 * time.Millisecond
)

// Server is the joybind input agent: it owns a device backend and serves
// enumeration plus the detection event stream to binder clients.
type Server struct {
	config   *Config
	backend  Backend
	hub      *hub
	httpSrv  *http.Server
	listener net.Listener
	mdns     *zeroconf.Server

	cancelStream context.CancelFunc
	wg           sync.WaitGroup
}

// New creates a new Server instance over the given backend.
func New(config *Config, backend Backend) (*Server, error) {
	// Initialize logging
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	countdown := config.DetectCountdown
	if countdown <= 0 {
		countdown = defaultDetectCountdown
	}
	window := config.CollectWindow
	if window <= 0 {
		window = defaultCollectWindow
	}

	s := &Server{
		config:  config,
		backend: backend,
		hub:     newHub(countdown, window),
	}
	s.httpSrv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Start starts the agent and blocks until shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	logging.Info("Starting joybind input agent",
		zap.String("addr", listener.Addr().String()),
		zap.Int("devices", len(s.backend.Devices())),
		zap.String("log_level", s.config.LogLevel),
	)

	if s.config.Announce {
		port := listener.Addr().(*net.TCPAddr).Port
		mdns, err := discovery.Announce(port, len(s.backend.Devices()), version.Version)
		if err != nil {
			logging.Warn("mDNS announcement failed, agent reachable by address only", zap.Error(err))
		} else {
			s.mdns = mdns
			logging.Info("Announcing agent over mDNS",
				zap.String("service", discovery.ServiceType),
				zap.Int("port", port),
			)
		}
	}

	// Pump the backend stream into the hub for the server's lifetime.
	streamCtx, cancel := context.WithCancel(context.Background())
	s.cancelStream = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.backend.Stream(streamCtx, s.hub.onBackendEvent); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Backend stream ended", zap.Error(err))
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpSrv.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping agent...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Addr returns the bound address, useful when Port was 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the agent.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down agent...")

	if s.mdns != nil {
		s.mdns.Shutdown()
	}
	if s.cancelStream != nil {
		s.cancelStream()
	}
	s.hub.closeAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down http server", zap.Error(err))
	}

	// Wait for the backend pump with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("Agent stopped gracefully")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	// Sync logger
	logging.Sync()

	return nil
}
