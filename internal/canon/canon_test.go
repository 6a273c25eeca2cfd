package canon

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "6×7", want: "6*7"},
		{in: "8÷2−1", want: "8/2-1"},
		{in: "2^3", want: "2**3"},
		{in: "2*π", want: "2*pi"},
		{in: "5!", want: "factorial(5)"},
		{in: "12!+1", want: "factorial(12)+1"},
		{in: "(2+3)!", want: "factorial((2+3))"},
		{in: "((1+1)*2)!", want: "factorial(((1+1)*2))"},
		{in: "-1!", want: "factorial(-1)"},
		{in: "2-1!", want: "2-factorial(1)"},
		{in: "2*-3!", want: "2*factorial(-3)"},
		{in: "sqrt(4)!", want: "factorial(sqrt(4))"},
		{in: "3!!", want: "factorial(3)!"},
		{in: "(3!)!", want: "factorial((factorial(3)))"},
		{in: "factorial(3)!", want: "factorial(3)!"},
		{in: "2.5!", want: "factorial(2.5)"},
		{in: "+!", want: "+!"},
		{in: "1+2", want: "1+2"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Fatalf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{
		"5!", "(2+3)!", "-1!", "3!!", "(3!)!", "5!!!", "6×7−2", "2^3^2", "sin(90)+cos(0)",
		"((1)!", "!!", "x**2-5*x+6", "1e+21", "factorial(3)",
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		if once != twice {
			t.Fatalf("Canonicalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestShiftApplyOnce(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "sin(0.5)", want: "asin(0.5)"},
		{in: "cos(1)+sin(1)", want: "acos(1)+sin(1)"},
		{in: "log(100)", want: "10**(100)"},
		{in: "2*ln(3)", want: "2*e**(3)"},
		{in: "sqrt(9)+1", want: "(9)**2+1"},
		{in: "sin(", want: "asin("},
		{in: "atan(1)", want: "atan(1)"},
	}
	for _, tt := range tests {
		s := &Shift{}
		s.Set(true)
		got := s.Apply(tt.in)
		if got != tt.want {
			t.Fatalf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
		changed := got != tt.in
		if s.On() == changed {
			t.Fatalf("Apply(%q): shift on = %v after changed=%v", tt.in, s.On(), changed)
		}
	}
}

func TestShiftInactiveLeavesText(t *testing.T) {
	s := &Shift{}
	if got := s.Apply("sin(1)"); got != "sin(1)" {
		t.Fatalf("Apply = %q", got)
	}
	if got := CanonicalizeShift("sin(1)!", s); got != "factorial(sin(1))" {
		t.Fatalf("CanonicalizeShift = %q", got)
	}
}

func TestShiftMapToken(t *testing.T) {
	s := &Shift{}
	if got, ok := s.MapToken("sin("); ok || got != "sin(" {
		t.Fatalf("MapToken while off = %q %v", got, ok)
	}
	s.Toggle()
	if got, ok := s.MapToken("7"); ok || got != "7" {
		t.Fatalf("MapToken(7) = %q %v", got, ok)
	}
	if !s.On() {
		t.Fatalf("shift reset by a non-qualifying token")
	}
	if got, ok := s.MapToken("sqrt("); !ok || got != "pow2" {
		t.Fatalf("MapToken(sqrt() = %q %v", got, ok)
	}
	if s.On() {
		t.Fatalf("shift still on after a substitution")
	}
	if got, _ := s.MapToken("log("); got != "log(" {
		t.Fatalf("second MapToken = %q, want unchanged", got)
	}
}
