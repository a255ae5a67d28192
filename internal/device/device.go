package device

import (
	"fmt"

	"github.com/muurk/joybind/internal/input"
)

// Info describes one enumerated input device as reported by the agent.
type Info struct {
	// UUID is the stable hardware identifier. HID devices report
	// "vvvv:pppp" (vendor:product); XInput slots report "xinput_N".
	UUID string `json:"uuid"`

	// Name is the product name, including manufacturer when known.
	Name string `json:"name"`

	Class input.DeviceClass `json:"device_type"`

	ButtonCount int  `json:"button_count"`
	AxisCount   int  `json:"axis_count"`
	HatCount    int  `json:"hat_count"`
	Connected   bool `json:"is_connected"`
}

// String returns a human-readable description of the device.
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.UUID, i.Class)
}
