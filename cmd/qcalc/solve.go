package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/qcalc/internal/solver"
)

var solveCmd = &cobra.Command{
	Use:   "solve <equation>",
	Short: "Solve an equation in x and print its roots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		mode := solver.Linear
		if quadratic, _ := cmd.Flags().GetBool("quadratic"); quadratic {
			mode = solver.Quadratic
		}

		res := solver.Solve(strings.Join(args, " "), mode, solver.Options{
			Iterations: cfg.Calculator.SolverIterations,
			Angle:      cfg.Calculator.Angle(),
		})
		if res.Err != nil {
			return errors.New(res.String())
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolP("quadratic", "q", false, "Solve as a quadratic")
}
