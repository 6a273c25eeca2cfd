// Package eval parses and evaluates canonical calculator expressions over a
// closed set of operators, functions and constants.
package eval

import (
	"errors"
	"math"
	"math/rand"
	"strings"
)

var (
	ErrParse       = errors.New("invalid expression")
	ErrUnknownName = errors.New("unknown name")
	ErrArity       = errors.New("wrong number of arguments")
	ErrNotFinite   = errors.New("Invalid math (∞ or NaN)")
)

// AngleMode selects how trigonometric functions read and return angles.
type AngleMode uint8

const (
	Deg AngleMode = iota
	Rad
)

func (m AngleMode) String() string {
	if m == Rad {
		return "RAD"
	}
	return "DEG"
}

// Toggle returns the other angle mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Rad {
		return Deg
	}
	return Rad
}

// ParseAngleMode accepts "deg" and "rad" in any case.
func ParseAngleMode(s string) (AngleMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degrees":
		return Deg, true
	case "rad", "radians":
		return Rad, true
	}
	return Deg, false
}

// ErrorKind separates malformed input from failed arithmetic.
type ErrorKind uint8

const (
	KindStructural ErrorKind = iota + 1
	KindEvaluation
	KindSolver
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindEvaluation:
		return "evaluation"
	case KindSolver:
		return "solver"
	}
	return "unknown"
}

// Error is a user-facing failure with a display message.
type Error struct {
	Kind ErrorKind
	Msg  string
	err  error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.err }

// NewError wraps err with a kind; the message is err's text.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Msg: err.Error(), err: err}
}

// Env carries the evaluation context. Vars shadows the built-in constants.
type Env struct {
	Angle AngleMode
	Vars  map[string]float64
	Rand  func() float64
}

func (e *Env) random() float64 {
	if e.Rand != nil {
		return e.Rand()
	}
	return rand.Float64()
}

// Outcome is the result of evaluating one expression: a finite Value or Err.
type Outcome struct {
	Value float64
	Err   *Error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Fail builds a failed Outcome.
func Fail(kind ErrorKind, err error) Outcome {
	return Outcome{Err: NewError(kind, err)}
}

// Evaluate parses and evaluates canonical text in one step.
func Evaluate(canonical string, env Env) Outcome {
	x, err := Parse(canonical)
	if err != nil {
		return Fail(KindEvaluation, err)
	}
	return x.Outcome(env)
}

// Outcome evaluates x and folds non-finite values into a failure.
func (x *Expr) Outcome(env Env) Outcome {
	v, err := x.Eval(env)
	if err != nil {
		return Fail(KindEvaluation, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Fail(KindEvaluation, ErrNotFinite)
	}
	return Outcome{Value: v}
}
