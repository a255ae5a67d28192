package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/joybind/internal/capture"
	"github.com/muurk/joybind/internal/device"
	"github.com/muurk/joybind/internal/logging"
)

const (
	// dialTimeout bounds the websocket dial to the agent.
	dialTimeout = 5 * time.Second

	// writeWait bounds each control message write.
	writeWait = 5 * time.Second
)

// Client talks to a joybind agent: device enumeration over HTTP and the
// input event stream over websocket. It implements capture.Source, so the
// capture engine arms it like any other listener.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the agent at baseURL ("http://host:port").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the agent address this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Devices fetches the agent's current device enumeration, in enumeration
// order. The slot resolver's auto table is built from this list.
func (c *Client) Devices(ctx context.Context) ([]device.Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/devices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build devices request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach agent at %s: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent returned %s for device list", resp.Status)
	}

	var devices []device.Info
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("failed to parse device list: %w", err)
	}
	return devices, nil
}

// Start implements capture.Source. It dials the agent's event stream, asks
// it to begin detection for the session, and forwards every tagged event to
// sink until stopped.
func (c *Client) Start(sessionID string, sink func(capture.RawEvent)) (func(), error) {
	wsURL, err := websocketURL(c.baseURL)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to agent event stream: %w", err)
	}

	start, err := Encode(Message{Type: TypeStartDetection, SessionID: sessionID})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, start); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to start detection: %w", err)
	}

	go c.readLoop(conn, sessionID, sink)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			stopMsg, err := Encode(Message{Type: TypeStopDetection, SessionID: sessionID})
			if err == nil {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.TextMessage, stopMsg)
			}
			_ = conn.Close()
		})
	}
	return stop, nil
}

// readLoop pumps the event stream into the sink until the connection drops.
// Malformed frames are logged and skipped; the capture engine handles stale
// session ids itself.
func (c *Client) readLoop(conn *websocket.Conn, sessionID string, sink func(capture.RawEvent)) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logging.Debug("Agent event stream closed",
				zap.String("agent_url", c.baseURL),
				zap.Error(err),
			)
			return
		}

		msg, err := Decode(data)
		if err != nil {
			logging.Warn("Dropping malformed agent message",
				zap.String("agent_url", c.baseURL),
				zap.Error(err),
			)
			continue
		}
		logging.LogAgentMessage(c.baseURL, msg.Type, len(data))

		// The agent tags events with the session it is detecting for;
		// untagged events default to the session this stream was opened for.
		id := msg.SessionID
		if id == "" {
			id = sessionID
		}

		switch msg.Type {
		case TypeDetectedInput:
			ev := msg.Input.DeviceEvent()
			sink(capture.RawEvent{SessionID: id, Device: &ev})
		case TypeDetectionComplete:
			sink(capture.RawEvent{SessionID: id, Complete: true})
		}
	}
}

// websocketURL converts the agent's HTTP base URL to its event stream URL.
func websocketURL(baseURL string) (string, error) {
	switch {
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/api/events", nil
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/api/events", nil
	}
	return "", fmt.Errorf("agent url %q must start with http:// or https://", baseURL)
}
