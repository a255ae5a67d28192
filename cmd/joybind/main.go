// Joybind is a binding utility for game input configuration.
//
// It provides agent discovery, an interactive capture wizard, and direct
// binding lookup commands. The heavy lifting (reading joysticks, gamepads,
// and HID hardware) happens in a separate agent process on the gaming
// machine; this tool talks to it over HTTP and WebSocket.
//
// Usage:
//
//	joybind [command] [flags]
//
// Running without arguments launches the interactive capture wizard.
// See 'joybind --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/joybind/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "joybind",
	Short: "Joybind Input Binding Utility",
	Long: `A utility for binding game actions to keyboard, mouse, joystick, and
gamepad inputs.

Provides agent discovery, an interactive capture wizard, and direct
binding lookup and editing commands. Input hardware is read by the
joybind-agent process running on the gaming machine.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("joybind %s (commit: %s)\n", version.Version, version.Commit)
	},
}
