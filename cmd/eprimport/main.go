// Command eprimport imports cw-EPR spectra, exports them as text and YAML, and
// records each import in an optional SQLite catalog.
package main

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-epr/internal/config"
	"github.com/robert-malhotra/go-epr/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Build variables set by ldflags
	buildVersion = "dev"
	buildCommit  string

	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eprimport",
		Short: "Import cw-EPR spectra from vendor and text formats",
		Long: `eprimport reads continuous-wave EPR spectra written by Bruker (BES3T,
WinEPR), Magnettech and NIEHS software, or plain text and CSV exports, merges
them with an optional .info file and reports the reconciled metadata.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(formatsCmd())
	rootCmd.AddCommand(catalogCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

func versionString() string {
	if buildCommit == "" {
		return buildVersion
	}
	return buildVersion + " (" + buildCommit + ")"
}

// loadConfig reads the --config file, or the defaults with environment
// overrides when none is given, and builds the logger.
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Logging, buildVersion), nil
}
