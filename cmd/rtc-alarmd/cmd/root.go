package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/rtc-alarm/internal/config"
	"github.com/oshokin/rtc-alarm/internal/service/daemon"
	"github.com/oshokin/rtc-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile overrides the alarm record path.
	stateFile string
	// logLevel overrides the log level.
	logLevel string

	// rootCmd represents the base command for running the alarm daemon.
	rootCmd = &cobra.Command{
		Use:   "rtc-alarmd",
		Short: "Run the weekly RTC alarm daemon.",
		Long: `Starts the alarm daemon that owns the weekly alarm and programs the RTC.

The daemon restores the stored alarm on start, serves the gRPC control API
and, when http_addr is configured, the HTTP debug API. Every change is stored
in the alarm record so the alarm survives a restart.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &daemon.Options{
				ConfigPath: configPath,
				StateFile:  stateFile,
				LogLevel:   logLevel,
			}

			return daemon.Run(ctx, options)
		},
	}
)

// Execute runs the rtc-alarmd CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "path of the alarm record, overrides state_file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "minimum log level, overrides log_level")
}
