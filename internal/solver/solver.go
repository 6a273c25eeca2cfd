// Package solver finds real roots of one-variable equations in x.
package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/eval"
)

var (
	ErrEquals       = errors.New("Equation must contain exactly one equals sign")
	ErrNoUniqueRoot = errors.New("equation has no unique root")
)

// DefaultIterations caps Newton-Raphson.
const DefaultIterations = 60

const (
	derivStep = 1e-6
	flatSlope = 1e-12
	zeroCoeff = 1e-12
)

// Mode selects the solving strategy.
type Mode uint8

const (
	Linear Mode = iota
	Quadratic
)

func (m Mode) String() string {
	if m == Quadratic {
		return "quadratic"
	}
	return "linear"
}

// ParseMode accepts "linear" and "quadratic".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return Linear, true
	case "quadratic", "quad":
		return Quadratic, true
	}
	return Linear, false
}

// Kind tells which shape of answer a Result holds.
type Kind uint8

const (
	KindLinear Kind = iota
	KindQuadraticReal
	KindQuadraticComplex
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindQuadraticReal:
		return "quadratic-real"
	case KindQuadraticComplex:
		return "quadratic-complex"
	}
	return "failure"
}

// Result holds the roots and, for quadratic solves, the extracted
// coefficients and discriminant.
type Result struct {
	Kind         Kind
	Roots        []float64
	Residual     float64
	Iterations   int
	A, B, C      float64
	Discriminant float64
	Err          *eval.Error
}

// String renders the result the way the equation panel shows it.
func (r Result) String() string {
	switch r.Kind {
	case KindLinear:
		return fmt.Sprintf("x = %.6f", r.Roots[0])
	case KindQuadraticReal:
		return fmt.Sprintf("x1=%.6f, x2=%.6f", r.Roots[0], r.Roots[1])
	case KindQuadraticComplex:
		return "Complex roots (not supported here)"
	}
	if r.Err != nil {
		return r.Err.Msg
	}
	return "failure"
}

// Options tunes a solve.
type Options struct {
	Iterations int
	Angle      eval.AngleMode
}

// Solve parses equation as left = right and finds roots of left - right.
func Solve(equation string, mode Mode, opts Options) Result {
	f, err := residual(equation, opts.Angle)
	if err != nil {
		return failure(err)
	}
	if mode == Quadratic {
		return solveQuadratic(f, opts)
	}
	return solveLinear(f, opts)
}

type residualFunc func(x float64) (float64, error)

func residual(equation string, angle eval.AngleMode) (residualFunc, error) {
	clean := strings.Join(strings.Fields(equation), "")
	clean = canon.Canonicalize(clean)
	parts := strings.Split(clean, "=")
	if len(parts) != 2 {
		return nil, eval.NewError(eval.KindStructural, ErrEquals)
	}
	left, err := eval.Parse(parts[0])
	if err != nil {
		return nil, err
	}
	right, err := eval.Parse(parts[1])
	if err != nil {
		return nil, err
	}
	vars := map[string]float64{}
	env := eval.Env{Angle: angle, Vars: vars}
	return func(x float64) (float64, error) {
		vars["x"] = x
		l, err := left.Eval(env)
		if err != nil {
			return 0, err
		}
		r, err := right.Eval(env)
		if err != nil {
			return 0, err
		}
		y := l - r
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, eval.ErrNotFinite
		}
		return y, nil
	}, nil
}

// solveLinear runs Newton-Raphson from x = 0 with a forward difference
// derivative. A flat slope stops early and keeps the current x.
func solveLinear(f residualFunc, opts Options) Result {
	limit := opts.Iterations
	if limit <= 0 {
		limit = DefaultIterations
	}
	x := 0.0
	iter := 0
	for ; iter < limit; iter++ {
		y, err := f(x)
		if err != nil {
			return failure(err)
		}
		yh, err := f(x + derivStep)
		if err != nil {
			return failure(err)
		}
		dy := (yh - y) / derivStep
		if math.Abs(dy) < flatSlope {
			break
		}
		x -= y / dy
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return failure(eval.ErrNotFinite)
	}
	y, err := f(x)
	if err != nil {
		return failure(err)
	}
	return Result{Kind: KindLinear, Roots: []float64{x}, Residual: math.Abs(y), Iterations: iter}
}

// solveQuadratic recovers a, b, c from f(0), f(1), f(2). Residuals that are
// not polynomials of degree two or less give meaningless coefficients.
func solveQuadratic(f residualFunc, opts Options) Result {
	var s [3]float64
	for i := range s {
		v, err := f(float64(i))
		if err != nil {
			return failure(err)
		}
		s[i] = v
	}
	c := s[0]
	a := (s[2] - 2*s[1] + s[0]) / 2
	b := s[1] - s[0] - a

	res := Result{A: a, B: b, C: c}
	if math.Abs(a) < zeroCoeff {
		if math.Abs(b) < zeroCoeff {
			out := failure(eval.NewError(eval.KindSolver, ErrNoUniqueRoot))
			out.A, out.B, out.C = a, b, c
			return out
		}
		res.Kind = KindLinear
		res.Roots = []float64{-c / b}
		res.Residual = worstResidual(f, res.Roots)
		return res
	}
	res.Discriminant = b*b - 4*a*c
	if res.Discriminant < 0 {
		res.Kind = KindQuadraticComplex
		return res
	}
	sq := math.Sqrt(res.Discriminant)
	res.Kind = KindQuadraticReal
	res.Roots = []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
	res.Residual = worstResidual(f, res.Roots)
	return res
}

// worstResidual is the largest |f(root)|, or +Inf when f fails at a root.
func worstResidual(f residualFunc, roots []float64) float64 {
	worst := 0.0
	for _, x := range roots {
		y, err := f(x)
		if err != nil {
			return math.Inf(1)
		}
		worst = math.Max(worst, math.Abs(y))
	}
	return worst
}

func failure(err error) Result {
	var e *eval.Error
	if !errors.As(err, &e) {
		e = eval.NewError(eval.KindSolver, err)
	}
	return Result{Kind: KindFailure, Err: e}
}
