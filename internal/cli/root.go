package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-DocResolver/internal/config"
)

var (
	cfgFile string
	verbose bool
	log     = logrus.New()
)

// rootCmd is the base command for docresolver.
var rootCmd = &cobra.Command{
	Use:   "docresolver",
	Short: "Resolve test declarations embedded in documentation",
	Long: `GoE2E-DocResolver reads documentation files (Markdown, AsciiDoc, HTML)
and spec files (JSON, YAML, Arazzo), extracts the tests declared in them and
expands every test into one context per platform and browser.

Everything is driven by a YAML configuration file (docresolver.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "docresolver.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads and validates the config file, then applies its logging
// section. The returned closer releases the log file, if any.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	closer := func() {}
	if !verbose {
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err == nil {
			log.SetLevel(level)
		}
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(io.MultiWriter(os.Stderr, f))
		closer = func() {
			log.SetOutput(os.Stderr)
			f.Close()
		}
	}
	return cfg, closer, nil
}
