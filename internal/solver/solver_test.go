package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/kobzarvs/qcalc/internal/eval"
)

func TestSolveLinear(t *testing.T) {
	tests := []struct {
		eq   string
		want float64
	}{
		{eq: "2*x+4=0", want: -2},
		{eq: "2 * x + 4 = 0", want: -2},
		{eq: "3*x=x+8", want: 4},
		{eq: "x/2=3", want: 6},
		{eq: "x*pi=pi", want: 1},
	}
	for _, tt := range tests {
		res := Solve(tt.eq, Linear, Options{})
		if res.Kind != KindLinear {
			t.Fatalf("Solve(%q) kind = %v (%v)", tt.eq, res.Kind, res.Err)
		}
		if math.Abs(res.Roots[0]-tt.want) > 1e-6 {
			t.Fatalf("Solve(%q) = %v, want %v", tt.eq, res.Roots[0], tt.want)
		}
		if res.Residual > 1e-6 {
			t.Fatalf("Solve(%q) residual = %v", tt.eq, res.Residual)
		}
	}
}

func TestSolveLinearFlat(t *testing.T) {
	res := Solve("x*0+1=0", Linear, Options{})
	if res.Kind != KindLinear || res.Roots[0] != 0 || res.Iterations != 0 {
		t.Fatalf("flat residual = %+v", res)
	}
	if res.Residual != 1 {
		t.Fatalf("residual = %v", res.Residual)
	}
}

func TestSolveQuadratic(t *testing.T) {
	res := Solve("x**2-5*x+6=0", Quadratic, Options{})
	if res.Kind != KindQuadraticReal {
		t.Fatalf("kind = %v (%v)", res.Kind, res.Err)
	}
	if res.Discriminant != 1 {
		t.Fatalf("discriminant = %v", res.Discriminant)
	}
	if res.Roots[0] != 3 || res.Roots[1] != 2 {
		t.Fatalf("roots = %v", res.Roots)
	}
	if got := res.String(); got != "x1=3.000000, x2=2.000000" {
		t.Fatalf("String = %q", got)
	}
}

func TestSolveQuadraticComplex(t *testing.T) {
	res := Solve("x^2+1=0", Quadratic, Options{})
	if res.Kind != KindQuadraticComplex || res.Err != nil {
		t.Fatalf("res = %+v", res)
	}
	if res.Discriminant != -4 {
		t.Fatalf("discriminant = %v", res.Discriminant)
	}
	if res.String() != "Complex roots (not supported here)" {
		t.Fatalf("String = %q", res.String())
	}
}

func TestSolveQuadraticLinearFallback(t *testing.T) {
	res := Solve("2*x+4=0", Quadratic, Options{})
	if res.Kind != KindLinear || res.Roots[0] != -2 {
		t.Fatalf("fallback = %+v", res)
	}

	res = Solve("5=5", Quadratic, Options{})
	if res.Kind != KindFailure || !errors.Is(res.Err, ErrNoUniqueRoot) {
		t.Fatalf("constant equation = %+v", res)
	}
	if res.Err.Kind != eval.KindSolver {
		t.Fatalf("kind = %v", res.Err.Kind)
	}
}

func TestSolveFailures(t *testing.T) {
	tests := []struct {
		eq   string
		mode Mode
		err  error
		kind eval.ErrorKind
	}{
		{eq: "2*x+4", mode: Linear, err: ErrEquals, kind: eval.KindStructural},
		{eq: "x=1=2", mode: Quadratic, err: ErrEquals, kind: eval.KindStructural},
		{eq: "2*x+=0", mode: Linear, err: eval.ErrParse, kind: eval.KindSolver},
		{eq: "y=1", mode: Linear, err: eval.ErrUnknownName, kind: eval.KindSolver},
		{eq: "1/x=1", mode: Quadratic, err: eval.ErrNotFinite, kind: eval.KindSolver},
	}
	for _, tt := range tests {
		res := Solve(tt.eq, tt.mode, Options{})
		if res.Kind != KindFailure {
			t.Fatalf("Solve(%q) = %+v, want failure", tt.eq, res)
		}
		if !errors.Is(res.Err, tt.err) || res.Err.Kind != tt.kind {
			t.Fatalf("Solve(%q) err = %v (%v)", tt.eq, res.Err, res.Err.Kind)
		}
		if res.String() != res.Err.Msg {
			t.Fatalf("String = %q", res.String())
		}
	}
}

func TestIterationCap(t *testing.T) {
	res := Solve("2*x+4=0", Linear, Options{Iterations: 3})
	if res.Iterations != 3 {
		t.Fatalf("iterations = %d", res.Iterations)
	}
}
