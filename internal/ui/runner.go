package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/joybind/internal/urls"
)

// RunnerConfig holds configuration for a multi-step command execution
type RunnerConfig struct {
	Title      string            // Command title (e.g., "Input Capture")
	Command    string            // Full command (e.g., "joybind capture")
	Params     map[string]string // Parameters to display in header
	TotalSteps int               // Total number of steps (for progress)
	StepNames  []string          // Names for each step
	Verbose    bool              // Whether to show agent message traffic
	Output     io.Writer         // Output writer (default: os.Stdout)
}

// Runner orchestrates the UI for a multi-step command execution.
// It manages the header, progress, and result flow and provides
// callbacks for reporting progress.
type Runner struct {
	config    RunnerConfig
	header    *Header
	progress  *Progress
	output    io.Writer
	agentLog  string
	startTime time.Time
	width     int
}

// NewRunner creates a new runner for a multi-step command
func NewRunner(config RunnerConfig) *Runner {
	// Set defaults
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	// Create header
	header := NewHeader(config.Title, config.Command, config.Params)
	header.SetWidth(width)

	// Create progress tracker
	var progress *Progress
	if config.TotalSteps > 0 {
		progress = NewProgress("", config.TotalSteps)
		progress.SetWidth(width)
		if len(config.StepNames) > 0 {
			progress.SetStepNames(config.StepNames)
		}
	}

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Operation is the function signature for the actual command operation.
// The operation receives a StepCallback to report progress.
type Operation func(onStep StepCallback) error

// Run executes the operation with UI updates.
// It displays the header, tracks progress, and shows the result.
func (r *Runner) Run(ctx context.Context, operation Operation) error {
	r.startTime = time.Now()

	// Print header
	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	// Create step callback
	stepCallback := r.createStepCallback()

	// Execute the operation
	err := operation(stepCallback)
	duration := time.Since(r.startTime)

	// Print final result
	if err != nil {
		r.printFailure(err, duration)
	} else {
		r.printSuccess(duration)
	}

	return err
}

// RunWithResult executes the operation and allows custom result handling.
// Returns the result details that were displayed.
func (r *Runner) RunWithResult(ctx context.Context, operation func(onStep StepCallback) (map[string]string, error)) (map[string]string, error) {
	r.startTime = time.Now()

	// Print header
	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	// Create step callback
	stepCallback := r.createStepCallback()

	// Execute the operation
	details, err := operation(stepCallback)
	duration := time.Since(r.startTime)

	// Print final result
	if err != nil {
		r.printFailure(err, duration)
	} else {
		r.printSuccessWithDetails(details, duration)
	}

	return details, err
}

// SetAgentLog stores agent message traffic for verbose display
func (r *Runner) SetAgentLog(output string) {
	r.agentLog = output
}

// createStepCallback creates the step callback function
func (r *Runner) createStepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil {
			return
		}

		// Update step name if provided
		if name != "" && stepNumber > 0 && stepNumber <= len(r.progress.Steps) {
			r.progress.Steps[stepNumber-1].Name = name
		}

		// Update step status
		r.progress.UpdateStep(stepNumber, status, message)

		// Print progress line
		if status == StepComplete || status == StepFailed || status == StepSkipped {
			// Print completed step
			step := r.progress.Steps[stepNumber-1]
			_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
		} else if status == StepRunning {
			// Print running step (will be overwritten when complete)
			step := r.progress.Steps[stepNumber-1]
			_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
		}
	}
}

// printSuccess prints a success result
func (r *Runner) printSuccess(duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)

	// Default success details
	details := map[string]string{
		"Duration": duration.Round(time.Millisecond).String(),
	}

	result := NewSuccessResult(r.config.Title+" complete", details)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	// Show agent traffic in verbose mode
	if r.config.Verbose && r.agentLog != "" {
		_, _ = fmt.Fprintln(r.output)
		log := NewAgentLog(r.agentLog)
		log.SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, log.Render())
	}
}

// printSuccessWithDetails prints a success result with custom details
func (r *Runner) printSuccessWithDetails(details map[string]string, duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)

	// Add duration to details
	if details == nil {
		details = make(map[string]string)
	}
	details["Duration"] = duration.Round(time.Millisecond).String()

	result := NewSuccessResult(r.config.Title+" complete", details)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	// Show agent traffic in verbose mode
	if r.config.Verbose && r.agentLog != "" {
		_, _ = fmt.Fprintln(r.output)
		log := NewAgentLog(r.agentLog)
		log.SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, log.Render())
	}
}

// printFailure prints a failure result with troubleshooting
func (r *Runner) printFailure(err error, duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)

	// Default troubleshooting tips
	troubleshooting := []string{
		"Verify the agent is still running on the gaming machine",
		"Check the agent address with: joybind agents",
		"Run with --verbose for full agent message traffic",
		"See: " + urls.TroubleshootingGuide,
	}

	result := NewFailureResult(r.config.Title+" failed", err, troubleshooting)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	// Always show agent traffic on failure in verbose mode
	if r.config.Verbose && r.agentLog != "" {
		_, _ = fmt.Fprintln(r.output)
		log := NewAgentLog(r.agentLog)
		log.SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, log.Render())
	}
}

// --- Simple helper functions for commands that don't need a full Runner ---

// PrintCommandHeader prints a styled command header
func PrintCommandHeader(title, command string, params map[string]string) {
	width := GetTerminalWidth()
	header := NewHeader(title, command, params)
	header.SetWidth(width)
	fmt.Println(header.Render())
	fmt.Println()
}

// PrintSuccess prints a styled success result
func PrintSuccess(title string, details map[string]string) {
	width := GetTerminalWidth()
	result := NewSuccessResult(title, details)
	result.SetWidth(width)
	fmt.Println()
	fmt.Println(result.Render())
}

// PrintFailure prints a styled failure result
func PrintFailure(title string, err error, troubleshooting []string) {
	width := GetTerminalWidth()
	result := NewFailureResult(title, err, troubleshooting)
	result.SetWidth(width)
	fmt.Println()
	fmt.Println(result.Render())
}

// PrintWarning prints a styled warning result
func PrintWarning(title string, details map[string]string) {
	width := GetTerminalWidth()
	result := NewWarningResult(title, details)
	result.SetWidth(width)
	fmt.Println()
	fmt.Println(result.Render())
}

// PrintAgentLog prints a styled agent message box (for verbose mode)
func PrintAgentLog(output string) {
	width := GetTerminalWidth()
	log := NewAgentLog(output)
	log.SetWidth(width)
	fmt.Println()
	fmt.Println(log.Render())
}

// PrintPleaseWait prints a styled "please wait" message for long-running operations.
// The message parameter should describe what's happening, e.g., "Scanning for agents".
// The duration hint helps set user expectations, e.g., "up to 10 seconds".
func PrintPleaseWait(message string, durationHint string) {
	// Use primary/purple color - stands out but doesn't cause alarm
	style := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true).
		PaddingLeft(2)

	hintStyle := lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	line := style.Render("⏳ " + message)
	if durationHint != "" {
		line += " " + hintStyle.Render("("+durationHint+")")
	}
	line += style.Render("...")

	fmt.Println()
	fmt.Println(line)
	fmt.Println()
}
