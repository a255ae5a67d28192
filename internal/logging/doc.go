// Package logging provides structured logging for joybind.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the binder. It provides both general logging
// functions and specialized functions for capture-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (detected inputs, dropped events, transitions)
//   - Info: Normal operations (agent connections, session lifecycle)
//   - Warn: Non-fatal issues (agent stream drops, retries)
//   - Error: Fatal issues (startup failures, persistence errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Agent connected",
//	    zap.String("agent_url", "ws://127.0.0.1:7740/events"),
//	    zap.Int("devices", 3),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
//	logging.LogDetectedInput(sessionID, "js1_button3", "044f:b10a", nil)
//	logging.LogSessionTransition(sessionID, "collecting", "confirming")
//	logging.LogStaleEvent(gotID, activeID, "js1_button3")
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Logging is silent unless JOYBIND_LOG_LEVEL is set. The capture wizard
// owns the terminal, so all output goes to stderr.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
