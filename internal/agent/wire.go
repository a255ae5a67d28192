package agent

import (
	"encoding/json"
	"fmt"

	"github.com/muurk/joybind/internal/device"
	"github.com/muurk/joybind/internal/input"
)

// Message types exchanged with the input agent over the event stream.
const (
	// Client -> agent
	TypeStartDetection = "start_detection"
	TypeStopDetection  = "stop_detection"

	// Agent -> client
	TypeDetectedInput      = "detected_input"
	TypeDetectionComplete  = "detection_complete"
	TypeDeviceList         = "devices"
	TypeDetectionCancelled = "detection_cancelled"
)

// Message is the envelope for every frame on the event stream. Type selects
// which optional field is populated.
type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`

	Input   *DetectedInput `json:"input,omitempty"`
	Devices []device.Info  `json:"devices,omitempty"`
}

// DetectedInput is one raw input event as the agent reports it. The agent
// formats Input with its own enumeration-order prefix; the client re-resolves
// the prefix by UUID before matching.
type DetectedInput struct {
	Input       string   `json:"input"`
	DeviceUUID  string   `json:"device_uuid,omitempty"`
	Modifiers   []string `json:"modifiers,omitempty"`
	AxisValue   *float64 `json:"axis_value,omitempty"`
	HIDAxisName string   `json:"hid_axis_name,omitempty"`
	HatValue    *int     `json:"hat_value,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	DeviceName  string   `json:"device_name,omitempty"`
}

// DeviceEvent converts the wire form to the normalizer's event type. Unknown
// modifier names are dropped rather than failing the event.
func (d DetectedInput) DeviceEvent() input.DeviceEvent {
	var held []input.Modifier
	for _, name := range d.Modifiers {
		if m, ok := input.ParseModifier(name); ok {
			held = append(held, m)
		}
	}
	return input.DeviceEvent{
		DeviceUUID:  d.DeviceUUID,
		Raw:         d.Input,
		Held:        held,
		AxisValue:   d.AxisValue,
		HIDAxisName: d.HIDAxisName,
		HatValue:    d.HatValue,
		DisplayName: d.DisplayName,
		DeviceName:  d.DeviceName,
	}
}

// Encode marshals a message for the wire.
func Encode(msg Message) ([]byte, error) {
	if msg.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}
	return json.Marshal(msg)
}

// Decode parses one frame from the event stream. Messages without a type, or
// typed messages missing their payload, are rejected so a malformed frame
// never turns into an empty event downstream.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to parse agent message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("agent message has no type")
	}
	if msg.Type == TypeDetectedInput {
		if msg.Input == nil || msg.Input.Input == "" {
			return Message{}, fmt.Errorf("detected_input message has no input payload")
		}
	}
	return msg, nil
}
