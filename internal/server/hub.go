package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/joybind/internal/agent"
	"github.com/muurk/joybind/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Per-client send queue; a client that falls this far behind the event
	// stream starts losing events rather than stalling the hub.
	sendQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// hub fans backend events out to every connected event stream client and
// gates them behind the detection session: events flow only while a client
// has detection started, tagged with that session's id.
type hub struct {
	countdown time.Duration
	window    time.Duration

	mu      sync.Mutex
	clients map[*hubClient]struct{}

	// session is the active detection session id, empty when idle. The
	// newest start_detection wins; the previous session's countdown and
	// window die with it.
	session        string
	seenInput      bool
	countdownTimer *time.Timer
	windowTimer    *time.Timer
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(countdown, window time.Duration) *hub {
	return &hub{
		countdown: countdown,
		window:    window,
		clients:   make(map[*hubClient]struct{}),
	}
}

// handleEvents upgrades the connection and services it until it drops.
func (h *hub) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	remoteAddr := conn.RemoteAddr().String()
	logging.LogConnection(remoteAddr, "event_stream_opened")

	c := &hubClient{conn: conn, send: make(chan []byte, sendQueueSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c, remoteAddr)

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	logging.LogConnection(remoteAddr, "event_stream_closed")
}

func (h *hub) readLoop(c *hubClient, remoteAddr string) {
	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := agent.Decode(data)
		if err != nil {
			logging.Warn("Dropping malformed client message",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			continue
		}

		switch msg.Type {
		case agent.TypeStartDetection:
			h.startDetection(msg.SessionID)
		case agent.TypeStopDetection:
			h.stopDetection(msg.SessionID)
		}
	}
}

func (h *hub) writeLoop(c *hubClient) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	_ = c.conn.Close()
}

// startDetection opens a detection pass for the session. Events observed
// before the countdown elapses are reported; the first event narrows the
// countdown to the fixed collection window.
func (h *hub) startDetection(sessionID string) {
	if sessionID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clearSessionLocked()
	h.session = sessionID
	h.seenInput = false
	logging.Debug("Detection started", zap.String("session_id", sessionID))

	h.countdownTimer = time.AfterFunc(h.countdown, func() {
		h.completeDetection(sessionID)
	})
}

// stopDetection ends the pass without a completion signal; the client asked
// for the stop and is not waiting on one.
func (h *hub) stopDetection(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != sessionID {
		return
	}
	h.clearSessionLocked()
	logging.Debug("Detection stopped", zap.String("session_id", sessionID))
}

// completeDetection broadcasts detection_complete and goes idle.
func (h *hub) completeDetection(sessionID string) {
	h.mu.Lock()
	if h.session != sessionID {
		h.mu.Unlock()
		return
	}
	h.clearSessionLocked()
	h.mu.Unlock()

	h.broadcast(agent.Message{Type: agent.TypeDetectionComplete, SessionID: sessionID})
	logging.Debug("Detection complete", zap.String("session_id", sessionID))
}

// onBackendEvent receives every raw event from the backend stream. Events
// outside a detection pass are dropped at the source.
func (h *hub) onBackendEvent(ev agent.DetectedInput) {
	h.mu.Lock()
	sessionID := h.session
	if sessionID != "" && !h.seenInput {
		// First event of the pass: the remaining countdown collapses to
		// the collection window.
		h.seenInput = true
		stopHubTimer(h.countdownTimer)
		h.windowTimer = time.AfterFunc(h.window, func() {
			h.completeDetection(sessionID)
		})
	}
	h.mu.Unlock()

	if sessionID == "" {
		return
	}
	h.broadcast(agent.Message{Type: agent.TypeDetectedInput, SessionID: sessionID, Input: &ev})
}

// broadcast sends a message to every connected client. A client with a full
// queue loses the message; the capture engine tolerates gaps, a stalled hub
// would be worse.
func (h *hub) broadcast(msg agent.Message) {
	data, err := agent.Encode(msg)
	if err != nil {
		logging.Error("Failed to encode broadcast", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logging.Warn("Dropping event for slow client",
				zap.String("type", msg.Type),
			)
		}
	}
}

// closeAll disconnects every client, for shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearSessionLocked()
	for c := range h.clients {
		_ = c.conn.Close()
	}
}

// clearSessionLocked stops timers and forgets the active session. Callers
// hold h.mu. Timer stops are idempotent; multiple exit paths race to clear
// the same session.
func (h *hub) clearSessionLocked() {
	h.session = ""
	h.seenInput = false
	stopHubTimer(h.countdownTimer)
	stopHubTimer(h.windowTimer)
	h.countdownTimer = nil
	h.windowTimer = nil
}

func stopHubTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
