// Package validate previews the buffer while it is being typed.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/eval"
)

// State classifies the buffer.
type State uint8

const (
	Ready State = iota
	Preview
	Invalid
)

func (s State) String() string {
	switch s {
	case Preview:
		return "preview"
	case Invalid:
		return "invalid"
	}
	return "ready"
}

var (
	ErrBrackets     = errors.New("Bracket mismatch: check ( )")
	ErrOperatorRun  = errors.New("Too many operators together")
	ErrEmpty        = errors.New("Nothing to evaluate")
	operatorRunExpr = regexp.MustCompile(`[+\-*/]{3,}`)
)

// Result is the outcome of checking a buffer. Open and Close count brackets.
type Result struct {
	State State
	Value float64
	Err   *eval.Error
	Open  int
	Close int
}

// Message is the text shown in the preview line.
func (r Result) Message() string {
	switch r.State {
	case Ready:
		return "Ready"
	case Invalid:
		return r.Err.Msg
	}
	return ""
}

// Outcome folds the result into an evaluation outcome. An empty buffer is a
// structural failure here, for callers that must produce a value.
func (r Result) Outcome() eval.Outcome {
	switch r.State {
	case Ready:
		return eval.Fail(eval.KindStructural, ErrEmpty)
	case Invalid:
		return eval.Outcome{Err: r.Err}
	}
	return eval.Outcome{Value: r.Value}
}

// Check applies the structural rules in order and evaluates the buffer when
// they pass. It never touches calculator state.
func Check(raw string, env eval.Env) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{State: Ready}
	}
	open := strings.Count(raw, "(")
	closed := strings.Count(raw, ")")
	res := Result{Open: open, Close: closed}
	if open != closed {
		res.State = Invalid
		res.Err = eval.NewError(eval.KindStructural,
			fmt.Errorf("%w (open=%d, close=%d)", ErrBrackets, open, closed))
		return res
	}
	if operatorRunExpr.MatchString(canon.NormalizeGlyphs(raw)) {
		res.State = Invalid
		res.Err = eval.NewError(eval.KindStructural, ErrOperatorRun)
		return res
	}
	out := eval.Evaluate(canon.Canonicalize(raw), env)
	if !out.OK() {
		res.State = Invalid
		res.Err = out.Err
		return res
	}
	res.State = Preview
	res.Value = out.Value
	return res
}
