package device

import (
	"strings"

	"github.com/muurk/joybind/internal/input"
)

// joystickIndicators are name fragments that mark a device as a joystick or
// HOTAS. These are checked before the gamepad indicators: several HOTAS
// products embed "controller" in their names and would otherwise
// misclassify.
var joystickIndicators = []string{
	"joystick",
	"hotas",
	"throttle",
	"gladiator",
	"warthog",
	"t16000",
	"vkb",
	"vkbsim",
	"virpil",
	"thrustmaster",
	"saitek",
	"x52",
	"x56",
}

// gamepadIndicators are name fragments that mark a device as a gamepad.
var gamepadIndicators = []string{
	"xbox",
	"playstation",
	"dualshock",
	"dualsense",
	"ps3",
	"ps4",
	"ps5",
	"controller for windows",
	"gamepad",
	"xinput",
}

// Classify determines the device class from its product name. Joystick
// indicators win over gamepad indicators, and unrecognized devices default
// to joystick: in this domain an unknown HID game controller is far more
// likely a stick than a pad.
func Classify(name string) input.DeviceClass {
	lower := strings.ToLower(name)

	for _, ind := range joystickIndicators {
		if strings.Contains(lower, ind) {
			return input.ClassJoystick
		}
	}
	for _, ind := range gamepadIndicators {
		if strings.Contains(lower, ind) {
			return input.ClassGamepad
		}
	}
	return input.ClassJoystick
}
