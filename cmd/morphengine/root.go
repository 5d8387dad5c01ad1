package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"morphengine/pkg/config"
)

const (
	AppName    = "morphengine"
	AppVersion = "1.0.0"
)

// globalOptions holds the flags shared by every subcommand
type globalOptions struct {
	configPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Structuring-element morphology computed from first principles",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "morphengine.yaml", "Path to the YAML configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newApplyCommand(opts),
		newSelfTestCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// load reads the configuration and builds the logger for a command run
func (o *globalOptions) load() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := initLogger(o.verbose || cfg.Output.Verbose)
	logger.WithFields(logrus.Fields{
		"version": AppVersion,
		"config":  o.configPath,
	}).Debug("Configuration loaded")
	return cfg, logger, nil
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
