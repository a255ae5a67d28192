package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://muurk.github.io/joybind/

// AgentSetup is the agent installation and setup guide, covering
// installation on the gaming machine, firewall rules, and autostart.
const AgentSetup = "https://muurk.github.io/joybind/agent/setup/"

// CaptureGuide is the comprehensive guide for the interactive capture
// wizard, including chords, multi-candidate selection, and conflicts.
const CaptureGuide = "https://muurk.github.io/joybind/binding/capture/"

// DeviceSlots explains joystick slot assignment and how to pin a device
// to a fixed slot with a registry override.
const DeviceSlots = "https://muurk.github.io/joybind/binding/device-slots/"

// TroubleshootingGuide provides solutions to common issues encountered
// with discovery, agents, and unrecognized devices.
const TroubleshootingGuide = "https://muurk.github.io/joybind/troubleshooting/"

// GettingStarted is the quick start guide for new users.
const GettingStarted = "https://muurk.github.io/joybind/getting-started/overview/"
