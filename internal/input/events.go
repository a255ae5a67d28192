package input

// DeviceClass categorizes the physical source of an input.
type DeviceClass string

const (
	ClassKeyboard DeviceClass = "keyboard"
	ClassMouse    DeviceClass = "mouse"
	ClassJoystick DeviceClass = "joystick"
	ClassGamepad  DeviceClass = "gamepad"
	ClassUnknown  DeviceClass = "unknown"
)

// KeyEvent is a raw keyboard event as delivered by the terminal or UI layer.
type KeyEvent struct {
	// Code is the platform key code (e.g. "KeyA", "AltLeft", "Numpad1").
	Code string

	// Name is the printable key value, used as a fallback when Code is
	// not in the key table.
	Name string

	// Held lists the modifier keys that were down when the event fired.
	// May include the event's own key when that key is a modifier.
	Held []Modifier
}

// MouseEvent is a raw mouse button event.
type MouseEvent struct {
	// Button is the zero-based button index (0 = left, 1 = middle, 2 = right).
	Button int

	Held []Modifier
}

// DeviceEvent is a raw event from the device backend (joystick, HOTAS,
// gamepad). The backend already formats Raw as "<prefix>_<token>" using its
// own enumeration-order prefix; normalization re-resolves the prefix by UUID.
type DeviceEvent struct {
	// DeviceUUID is the stable hardware identifier ("vvvv:pppp" for HID
	// devices, "xinput_N" for XInput slots). May be empty.
	DeviceUUID string

	// Raw is the backend input string, e.g. "js2_button3", "js1_axis5_positive",
	// "gp1_hat1_up".
	Raw string

	Held []Modifier

	// AxisValue is the normalized axis position (-1..1) when the event is an
	// axis movement, nil otherwise.
	AxisValue *float64

	// HIDAxisName is the axis name from the HID descriptor ("X", "Rz",
	// "Hat switch", ...). Empty for buttons and non-HID backends.
	HIDAxisName string

	// HatValue is the raw 8-way hat position (0..7, 8/15 centered) when the
	// backend delivered a hat state on a generic axis channel.
	HatValue *int

	// DisplayName is the backend's human-readable description of the input.
	DisplayName string

	// DeviceName is the product name of the device, used for classification
	// when the backend did not provide one.
	DeviceName string
}

// Detected is one normalized input: the canonical string plus the metadata
// the capture session and matcher need. Two Detected values with equal
// Canonical fields denote the same physical input.
type Detected struct {
	Canonical  string
	DeviceUUID string

	// Modifiers are the held modifiers in canonical precedence order.
	Modifiers []Modifier

	AxisValue   *float64
	DisplayName string
	Class       DeviceClass

	// IsModifier is true when the base token itself is a modifier key
	// (e.g. binding "Left Alt alone"). The capture session uses this for
	// the held-modifier chord exception.
	IsModifier bool
}
