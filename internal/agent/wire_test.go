package agent

import (
	"testing"

	"github.com/muurk/joybind/internal/input"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		verify  func(t *testing.T, msg Message)
	}{
		{
			name: "detected input",
			data: `{"type":"detected_input","session_id":"abc123","input":{"input":"js1_button3","device_uuid":"231d:0200","modifiers":["lalt"],"display_name":"Button 3"}}`,
			verify: func(t *testing.T, msg Message) {
				if msg.SessionID != "abc123" {
					t.Errorf("session id = %q", msg.SessionID)
				}
				if msg.Input.Input != "js1_button3" {
					t.Errorf("input = %q", msg.Input.Input)
				}
			},
		},
		{
			name: "detection complete",
			data: `{"type":"detection_complete","session_id":"abc123"}`,
			verify: func(t *testing.T, msg Message) {
				if msg.Type != TypeDetectionComplete {
					t.Errorf("type = %q", msg.Type)
				}
			},
		},
		{
			name: "device list",
			data: `{"type":"devices","devices":[{"uuid":"231d:0200","name":"VKB Gladiator","device_type":"joystick"}]}`,
			verify: func(t *testing.T, msg Message) {
				if len(msg.Devices) != 1 || msg.Devices[0].UUID != "231d:0200" {
					t.Errorf("devices = %v", msg.Devices)
				}
			},
		},
		{
			name:    "missing type",
			data:    `{"session_id":"abc123"}`,
			wantErr: true,
		},
		{
			name:    "detected input without payload",
			data:    `{"type":"detected_input","session_id":"abc123"}`,
			wantErr: true,
		},
		{
			name:    "detected input with empty input string",
			data:    `{"type":"detected_input","input":{"input":""}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `garbage`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.verify != nil {
				tt.verify(t, msg)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	axis := 0.75
	msg := Message{
		Type:      TypeDetectedInput,
		SessionID: "abc123",
		Input: &DetectedInput{
			Input:       "js2_axis5_positive",
			DeviceUUID:  "044f:0402",
			Modifiers:   []string{"rctrl"},
			AxisValue:   &axis,
			HIDAxisName: "Rz",
			DisplayName: "Twist +",
		},
	}

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Input.Input != msg.Input.Input || got.Input.HIDAxisName != "Rz" {
		t.Errorf("round trip lost fields: %+v", got.Input)
	}
	if got.Input.AxisValue == nil || *got.Input.AxisValue != axis {
		t.Errorf("axis value = %v", got.Input.AxisValue)
	}
}

func TestEncodeRejectsUntyped(t *testing.T) {
	if _, err := Encode(Message{SessionID: "abc"}); err == nil {
		t.Error("Encode() should reject a message without a type")
	}
}

func TestDetectedInputDeviceEvent(t *testing.T) {
	hat := 2
	d := DetectedInput{
		Input:       "js1_axis9",
		DeviceUUID:  "231d:0200",
		Modifiers:   []string{"LALT", "bogus", "rshift"},
		HIDAxisName: "Hat switch",
		HatValue:    &hat,
		DisplayName: "Hat",
		DeviceName:  "VKB Gladiator",
	}

	ev := d.DeviceEvent()
	if ev.Raw != "js1_axis9" || ev.DeviceUUID != "231d:0200" {
		t.Errorf("event = %+v", ev)
	}
	// Unknown modifier names are dropped, known ones parse case-insensitively.
	if len(ev.Held) != 2 || ev.Held[0] != input.ModLAlt || ev.Held[1] != input.ModRShift {
		t.Errorf("held = %v", ev.Held)
	}
	if ev.HatValue == nil || *ev.HatValue != 2 {
		t.Errorf("hat value = %v", ev.HatValue)
	}
}
