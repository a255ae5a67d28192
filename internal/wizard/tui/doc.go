// Package tui implements the interactive capture wizard using the Bubble Tea
// framework.
//
// # Architecture
//
// The wizard follows the Elm architecture (Model-Update-View) with a
// top-level AppModel that coordinates between screens:
//
//   - DiscoveryModel: scans the network for agents over mDNS, with manual
//     address entry as a fallback
//   - ActionsModel: a filterable list of every bindable action in the
//     profile, showing current bindings
//   - CaptureModel: drives one capture session, mirroring the engine's
//     state machine for rendering
//
// Screen transitions are driven by flags the child models expose (Selected,
// Back) rather than by messages, so the coordinator inspects children after
// delegating each update.
//
// # Input routing
//
// While a capture session is live, the terminal's own key and mouse presses
// are forwarded into the session through a push source, which makes the
// binder machine's keyboard bindable alongside the agent's joysticks and
// gamepads. Only esc (cancel) and ctrl+c are reserved; every other key is
// input to capture. The program runs with mouse reporting enabled so mouse
// buttons can be bound too.
//
// # Usage
//
//	err := tui.Run(tui.AppConfig{
//	    Store:    store,
//	    Registry: registry,
//	    AgentURL: agentURL, // optional, skips discovery
//	})
package tui
