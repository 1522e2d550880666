package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relay-run/relay"
	"github.com/relay-run/relay/internal/flowerr"
	"github.com/relay-run/relay/internal/logger"
)

var (
	configPath string
	dataDir    string
	verbose    bool
	jsonLogs   bool
	quiet      bool
	version    = "v0.1.0"

	rootCmd = &cobra.Command{
		Use:   "relay",
		Short: "Inspect and operate relay artifact workspaces",
		Long: `relay manages the artifact workspaces written by relay flows: browse
stored task outputs, reset families, review run history and serve the
monitor API.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(verbose, jsonLogs, quiet)
			if configPath != "" {
				if err := relay.LoadConfig(configPath); err != nil {
					return err
				}
			}
			if dataDir != "" {
				relay.SetDataDir(dataDir)
			}
			return nil
		},
	}
)

// Execute runs the CLI. Structured errors get the boxed rendering; anything
// else prints as a single line.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var fe *flowerr.FlowError
	if errors.As(err, &fe) {
		fmt.Fprintln(os.Stderr, flowerr.FormatForCLI(fe))
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a relay.yaml config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Artifact workspace directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(monitorCmd)
}
