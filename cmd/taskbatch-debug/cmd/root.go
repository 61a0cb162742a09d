package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apparentlymart/go-taskbatch/internal/config"
	"github.com/apparentlymart/go-taskbatch/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "taskbatch-debug",
	Short: "Explore taskbatch scheduler runs from YAML scenarios",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}
		logging.Setup(cfg.Log.Level)
		return nil
	},
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log.level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("scheduler.max_phases", config.DefaultSchedulerMaxPhases, "phase cap before aborting a run")
	rootCmd.PersistentFlags().Bool("metrics.enabled", config.DefaultMetricsEnabled, "serve Prometheus metrics while running")
	rootCmd.PersistentFlags().String("metrics.addr", config.DefaultMetricsAddr, "listen address for the metrics endpoint")
}
