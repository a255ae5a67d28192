// Package ui provides terminal UI components for the joybind CLI.
//
// This package uses Lipgloss (plus the Bubbles progress bar) to render
// polished terminal output for CLI commands. Unlike the interactive capture
// wizard, these components follow a "run once and exit" pattern - they render
// output compellingly but don't require user interaction.
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure boxes with styled information
//   - AgentLog: Raw agent message box for verbose mode
//
// These components are orchestrated by the Runner, which manages the
// header, progress, and result flow for command execution.
//
// # Usage Pattern
//
// Commands use this package by:
//
//  1. Creating a Runner with command metadata
//  2. Calling Run() with their operation function
//  3. The operation reports progress via a step callback
//  4. Runner handles all UI rendering automatically
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "Input Capture",
//	    Command:    "joybind capture",
//	    Params:     map[string]string{"Agent": "192.168.1.20:7411"},
//	    TotalSteps: 4,
//	    Verbose:    verbose,
//	})
//
//	err := runner.Run(ctx, func(onStep ui.StepCallback) error {
//	    onStep(1, "Connecting to agent", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "Connecting to agent", ui.StepComplete, "")
//	    return nil
//	})
//
// # Logging Integration
//
// This package expects logging to be controlled via the JOYBIND_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly. Set JOYBIND_LOG_LEVEL to
// "debug", "info", "warn", or "error" to enable logging output.
//
// # Verbose Mode
//
// When --verbose is passed to commands that talk to an agent, the AgentLog
// component displays the raw JSON messages exchanged over the event stream
// in a styled box after the result. This is useful for debugging detection
// issues and seeing exactly what the agent reported.
package ui
