// Package steps explains a committed calculation line by line.
package steps

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/eval"
)

// callSteps maps a function name to its explanation, in display order.
var callSteps = []struct {
	name string
	text string
}{
	{"sin", "Trig: sin(x) evaluated first"},
	{"cos", "Trig: cos(x) evaluated first"},
	{"tan", "Trig: tan(x) evaluated first"},
	{"log", "Log: log10(x) evaluated before arithmetic"},
	{"ln", "Log: natural log ln(x) evaluated before arithmetic"},
	{"factorial", "Factorial: x! evaluated first"},
}

// Build returns the explanation for expression evaluating to result.
func Build(expression, result string) []string {
	out := []string{"Expression: " + expression}
	open := strings.Count(expression, "(")
	closed := strings.Count(expression, ")")
	if open != closed {
		out = append(out, fmt.Sprintf("Brackets mismatch: open=%d, close=%d", open, closed))
	}

	x, err := eval.Parse(canon.Canonicalize(expression))
	if err == nil {
		if simplified := x.String(); strings.Count(simplified, "(") < strings.Count(x.Source(), "(") {
			out = append(out, "Brackets simplified: "+simplified)
		}
		used := map[string]bool{}
		for _, name := range x.Calls() {
			used[name] = true
		}
		for _, c := range callSteps {
			if used[c.name] {
				out = append(out, c.text)
			}
		}
	}
	if strings.ContainsAny(expression, "*/×÷") {
		out = append(out, "Operator rule: × and ÷ before + and −")
	}
	return append(out, "Final Result = "+result)
}
