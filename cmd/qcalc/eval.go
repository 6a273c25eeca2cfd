package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/eval"
	"github.com/kobzarvs/qcalc/internal/format"
	"github.com/kobzarvs/qcalc/internal/validate"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate one expression and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ec := engineConfig(cfg.Calculator)

		if rad, _ := cmd.Flags().GetBool("rad"); rad {
			ec.Angle = eval.Rad
		}
		if name, _ := cmd.Flags().GetString("format"); name != "" {
			mode, ok := format.ParseMode(name)
			if !ok {
				return fmt.Errorf("unknown format mode %q", name)
			}
			ec.Format = mode
		}
		if ec.Precision <= 0 {
			ec.Precision = format.DefaultPrecision
		}

		shift := &canon.Shift{}
		if on, _ := cmd.Flags().GetBool("shift"); on {
			shift.Set(true)
		}
		expr := canon.CanonicalizeShift(strings.Join(args, " "), shift)
		out := validate.Check(expr, eval.Env{Angle: ec.Angle}).Outcome()
		if !out.OK() {
			return errors.New(out.Err.Msg)
		}
		fmt.Fprintln(cmd.OutOrStdout(), format.Format(out.Value, ec.Format, ec.Precision))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("rad", false, "Use radians for trigonometry")
	evalCmd.Flags().String("format", "", "Result format: normal, sci or eng")
	evalCmd.Flags().Bool("shift", false, "Apply the shift remapping to the first qualifying call")
}
