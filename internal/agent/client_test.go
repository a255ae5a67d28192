package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/joybind/internal/capture"
	"github.com/muurk/joybind/internal/device"
	"github.com/muurk/joybind/internal/input"
)

// fakeAgent is a minimal agent: one devices endpoint and an event stream
// that replays scripted messages once detection starts.
func fakeAgent(t *testing.T, devices []device.Info, script []Message) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/devices", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(devices)
	})
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		// Wait for start_detection, then replay the script tagged with the
		// requested session id.
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		start, err := Decode(data)
		if err != nil || start.Type != TypeStartDetection {
			return
		}
		for _, msg := range script {
			msg.SessionID = start.SessionID
			out, err := Encode(msg)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
		// Hold the connection open until the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientDevices(t *testing.T) {
	want := []device.Info{
		{UUID: "231d:0200", Name: "VKB Gladiator", Class: input.ClassJoystick, Connected: true},
		{UUID: "xinput_0", Name: "Xbox Controller", Class: input.ClassGamepad, Connected: true},
	}
	srv := fakeAgent(t, want, nil)

	c := NewClient(srv.URL)
	got, err := c.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	if len(got) != 2 || got[0].UUID != "231d:0200" || got[1].Class != input.ClassGamepad {
		t.Errorf("Devices() = %v", got)
	}
}

func TestClientDevicesAgentDown(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	if _, err := c.Devices(context.Background()); err == nil {
		t.Error("Devices() against a dead agent should fail")
	}
}

func TestClientEventStream(t *testing.T) {
	srv := fakeAgent(t, nil, []Message{
		{Type: TypeDetectedInput, Input: &DetectedInput{Input: "js1_button3", DeviceUUID: "231d:0200"}},
		{Type: TypeDetectionComplete},
	})

	c := NewClient(srv.URL)

	events := make(chan capture.RawEvent, 8)
	stop, err := c.Start("sess42", func(ev capture.RawEvent) { events <- ev })
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stop()

	var got []capture.RawEvent
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("only %d events arrived", len(got))
		}
	}

	if got[0].Device == nil || got[0].Device.Raw != "js1_button3" {
		t.Errorf("first event = %+v, want device js1_button3", got[0])
	}
	if got[0].SessionID != "sess42" {
		t.Errorf("event session id = %q, want sess42", got[0].SessionID)
	}
	if !got[1].Complete {
		t.Errorf("second event = %+v, want completion signal", got[1])
	}

	// stop is idempotent.
	stop()
	stop()
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://localhost:7411", want: "ws://localhost:7411/api/events"},
		{in: "https://bindhost:7411", want: "wss://bindhost:7411/api/events"},
		{in: "localhost:7411", wantErr: true},
	}
	for _, tt := range tests {
		got, err := websocketURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("websocketURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("websocketURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
