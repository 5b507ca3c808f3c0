// Package app contains the Cobra command tree for coachwatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blackwell-systems/coachwatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "coachwatch",
	Short: "Behavioral coaching from your meeting activity",
	Long: `coachwatch analyzes your meeting activity records, detects behavioral
patterns like missing action items or meeting overload, and turns them into
prioritized coaching recommendations with a weekly digest and a 0-100 score.

Run 'coachwatch' with no arguments to see the available subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("coachwatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  analyze      Run behavior analysis and show detections")
		fmt.Println("  digest       Compile the weekly coaching digest")
		fmt.Println("  patterns     List the behavioral pattern catalog")
		fmt.Println("  import       Load activity records from a JSON export")
		fmt.Println("  track        Snapshot and compare scores over time")
		fmt.Println("  interaction  Record or list recommendation interactions")
		fmt.Println("  doctor       Check whether the coachwatch setup is healthy")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// applyColorPrefs resolves color output from the terminal and flags.
func applyColorPrefs() {
	output.AutoDetect()
	if flagNoColor {
		output.SetNoColor(true)
	}
}

// newLogger builds the CLI logger. Verbose mode uses the development
// encoder at debug level; otherwise only warnings and errors reach the
// terminal so rule evaluation failures stay visible without drowning
// normal output.
func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/coachwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
