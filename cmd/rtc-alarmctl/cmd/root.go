package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/rtc-alarm/internal/config"
	"github.com/oshokin/rtc-alarm/internal/service/client"
	"github.com/oshokin/rtc-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// serverAddress overrides the control address from config.
	serverAddress string
	// set holds the flags of the set command.
	set client.SetOptions

	// rootCmd is the base command of the control CLI.
	rootCmd = &cobra.Command{
		Use:   "rtc-alarmctl",
		Short: "Inspect and change the weekly RTC alarm.",
		Long: `Talks to rtc-alarmd over its gRPC control API.

Examples:
  rtc-alarmctl get
  rtc-alarmctl next
  rtc-alarmctl set --at 07:30 --days mon,tue,wed,thu,fri
  rtc-alarmctl set --disable`,
		SilenceUsage: true,
	}

	getCmd = &cobra.Command{
		Use:   "get",
		Short: "Print the current alarm.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(func(ctx context.Context) error {
				return client.RunGet(ctx, options(c))
			})
		},
	}

	nextCmd = &cobra.Command{
		Use:   "next",
		Short: "Print when the alarm fires next.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(func(ctx context.Context) error {
				return client.RunNext(ctx, options(c))
			})
		},
	}

	setCmd = &cobra.Command{
		Use:   "set",
		Short: "Change the alarm time, days or armed state.",
		Long: `Changes the alarm. Flags that are not given keep their current value,
except the armed state: the alarm is enabled unless --disable is passed.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(func(ctx context.Context) error {
				return client.RunSet(ctx, options(c), &set)
			})
		},
	}
)

// Execute runs the rtc-alarmctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return fn(ctx)
}

func options(c *cobra.Command) *client.Options {
	return &client.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		Output:        c.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "address", "a", "", "daemon control address, overrides control_addr")

	setCmd.Flags().StringVar(&set.At, "at", "", "time of day as HH:MM")
	setCmd.Flags().StringSliceVar(&set.Days, "days", nil, "weekdays, e.g. mon,wed,fri")
	setCmd.Flags().BoolVar(&set.Disable, "disable", false, "store the alarm disarmed")
	setCmd.Flags().BoolVar(&set.Retry, "retry", false, "keep retrying until the daemon answers")

	rootCmd.AddCommand(getCmd, nextCmd, setCmd)
}
