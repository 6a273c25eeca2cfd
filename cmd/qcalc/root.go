package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/qcalc/internal/app"
	"github.com/kobzarvs/qcalc/internal/config"
	"github.com/kobzarvs/qcalc/internal/engine"
	"github.com/kobzarvs/qcalc/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "qcalc",
	Short:         "qcalc is a terminal scientific calculator",
	Long:          `qcalc evaluates expressions as you type, keeps history and memory, and solves equations in x.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		if err := logger.Init(debug); err != nil {
			return err
		}
		defer logger.Close()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return app.New(cfg).Run()
	},
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "qcalc:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the config for the one-shot commands, which log to stderr.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	logger.InitWriter(cmd.ErrOrStderr(), debug)
	return config.Load()
}

func engineConfig(c config.CalculatorOptions) engine.Config {
	return engine.Config{
		Angle:            c.Angle(),
		Format:           c.Format(),
		Precision:        c.Precision,
		ExpressionLimit:  c.ExpressionMemoryLimit,
		SolverIterations: c.SolverIterations,
	}
}
