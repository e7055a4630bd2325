package cli

import (
	"fmt"
	"os"

	"pageprism/domain/interfaces"
	"pageprism/infrastructure/browser"
	"pageprism/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DriverFactory starts a browser session for the configured driver.
type DriverFactory func(cfg *config.Config, logger *logrus.Logger) (interfaces.Driver, error)

// app carries what PersistentPreRunE sets up for the subcommands.
type app struct {
	envFile   string
	logLevel  string
	cfg       *config.Config
	logger    *logrus.Logger
	newDriver DriverFactory
}

// NewRootCommand - builds the command tree. newDriver is called by commands
// that need a live session.
func NewRootCommand(newDriver DriverFactory) *cobra.Command {
	a := &app{newDriver: newDriver}

	root := &cobra.Command{
		Use:           "pageprism",
		Short:         "Declare page objects in YAML and check them against a live browser.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if a.envFile != "" {
				files = append(files, a.envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			a.cfg = cfg
			a.logger = cfg.NewLogger()
			a.logger.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to load (default .env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override PAGEPRISM_LOG_LEVEL")

	root.AddCommand(
		newDescribeCommand(a),
		newProbeCommand(a),
		newShellCommand(a),
		newReportsCommand(a),
	)
	return root
}

// startDriver - opens a session and returns it with its cleanup
func (a *app) startDriver() (interfaces.Driver, func(), error) {
	drv, err := a.newDriver(a.cfg, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	return drv, func() {
		if err := drv.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close browser")
		}
	}, nil
}

// Execute runs the command line against real browsers.
func Execute() {
	if err := NewRootCommand(browser.NewController).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
