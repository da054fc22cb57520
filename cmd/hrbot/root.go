package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/config"
	"github.com/artem13815/hrbot/pkg/logger"
)

const app = "hrbot"

var (
	// Used for flags.
	cfgFile   string
	debugFlag bool
	jsonFlag  bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "hrbot is a Telegram intake bot that scores resumes against vacancies",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a YAML config file; environment variables take precedence")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonFlag, "json", "j", false, "json format for logging")
}

// setup loads the configuration and builds the process logger.
func setup() (config.Config, *zap.Logger) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if debugFlag {
		cfg.Debug = true
	}
	if jsonFlag {
		cfg.LogJSON = true
	}

	l, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	return cfg, l
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: %s %s", app, usage)
		}
		return nil
	}
}
