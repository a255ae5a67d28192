package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/joybind/internal/logging"
)

// routes builds the agent's HTTP surface: device enumeration, a health
// probe, and the websocket event stream.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/devices", s.handleDevices)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/events", s.hub.handleEvents)
	return mux
}

// handleDevices serves the backend's current enumeration as JSON, in
// enumeration order. Clients build their auto slot tables from this list,
// so the order is part of the contract.
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	devices := s.backend.Devices()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(devices); err != nil {
		logging.Error("Failed to encode device list",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
	}
	logging.Debug("Served device list",
		zap.String("remote_addr", r.RemoteAddr),
		zap.Int("count", len(devices)),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
