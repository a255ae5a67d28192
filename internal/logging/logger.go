package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "JOYBIND_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks JOYBIND_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode). Silent by default
// matters here: the capture wizard owns the terminal and stray log lines
// corrupt the TUI.
func Initialize(level string) error {
	// If no level provided, check environment variable
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	// If still no level, use silent mode (nop logger)
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	// Customize encoder for better readability
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the JOYBIND_LOG_LEVEL
// environment variable. This is the recommended way to initialize logging
// for CLI commands that want silent mode by default.
func InitializeFromEnv() error {
	return Initialize("")
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		// This ensures no unexpected log output in CLI commands
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogDetectedInput logs a single detected input event.
func LogDetectedInput(sessionID, canonical, deviceUUID string, modifiers []string) {
	Debug("Input detected",
		zap.String("session_id", sessionID),
		zap.String("canonical", canonical),
		zap.String("device_uuid", deviceUUID),
		zap.Strings("modifiers", modifiers),
	)
}

// LogSessionTransition logs a capture session state change.
func LogSessionTransition(sessionID, from, to string) {
	Debug("Session transition",
		zap.String("session_id", sessionID),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogStaleEvent logs an event that was dropped because its session id
// did not match the active session. Dropped events are expected during
// session turnover, so this is debug-only.
func LogStaleEvent(gotSessionID, activeSessionID, canonical string) {
	Debug("Stale event dropped",
		zap.String("event_session_id", gotSessionID),
		zap.String("active_session_id", activeSessionID),
		zap.String("canonical", canonical),
	)
}

// LogConnection logs a client connection lifecycle event on the agent side.
func LogConnection(remoteAddr, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogAgentMessage logs a message received from the input agent stream.
func LogAgentMessage(agentURL, messageType string, length int) {
	Debug("Agent message",
		zap.String("agent_url", agentURL),
		zap.String("message_type", messageType),
		zap.Int("length", length),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
