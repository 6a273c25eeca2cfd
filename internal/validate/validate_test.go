package validate

import (
	"errors"
	"testing"

	"github.com/kobzarvs/qcalc/internal/eval"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		in    string
		state State
		value float64
		err   error
	}{
		{in: "", state: Ready},
		{in: "   ", state: Ready},
		{in: "1+2", state: Preview, value: 3},
		{in: "6×7", state: Preview, value: 42},
		{in: "5!", state: Preview, value: 120},
		{in: "(1+2", state: Invalid, err: ErrBrackets},
		{in: "1+2)", state: Invalid, err: ErrBrackets},
		{in: "1+++2", state: Invalid, err: ErrOperatorRun},
		{in: "2^-1", state: Invalid, err: ErrOperatorRun},
		{in: "1/0", state: Invalid, err: eval.ErrNotFinite},
		{in: "1+", state: Invalid, err: eval.ErrParse},
		{in: "3!!", state: Invalid, err: eval.ErrParse},
	}
	for _, tt := range tests {
		res := Check(tt.in, eval.Env{})
		if res.State != tt.state {
			t.Fatalf("Check(%q) state = %v, want %v (%v)", tt.in, res.State, tt.state, res.Err)
		}
		if tt.state == Preview && res.Value != tt.value {
			t.Fatalf("Check(%q) value = %v, want %v", tt.in, res.Value, tt.value)
		}
		if tt.err != nil && !errors.Is(res.Err, tt.err) {
			t.Fatalf("Check(%q) err = %v, want %v", tt.in, res.Err, tt.err)
		}
	}
}

func TestBracketMessageCounts(t *testing.T) {
	res := Check("((1)", eval.Env{})
	if res.Open != 2 || res.Close != 1 {
		t.Fatalf("counts = %d/%d", res.Open, res.Close)
	}
	if res.Err.Kind != eval.KindStructural {
		t.Fatalf("kind = %v", res.Err.Kind)
	}
	want := "Bracket mismatch: check ( ) (open=2, close=1)"
	if res.Message() != want {
		t.Fatalf("Message = %q, want %q", res.Message(), want)
	}
}

func TestReadyMessage(t *testing.T) {
	if got := Check("", eval.Env{}).Message(); got != "Ready" {
		t.Fatalf("Message = %q", got)
	}
}

func TestResultOutcome(t *testing.T) {
	if out := Check("", eval.Env{}).Outcome(); out.OK() || !errors.Is(out.Err, ErrEmpty) || out.Err.Kind != eval.KindStructural {
		t.Fatalf("empty outcome = %+v", out)
	}
	if out := Check("(1+2", eval.Env{}).Outcome(); out.OK() || out.Err.Kind != eval.KindStructural {
		t.Fatalf("bracket outcome = %+v", out)
	}
	if out := Check("6*7", eval.Env{}).Outcome(); !out.OK() || out.Value != 42 {
		t.Fatalf("preview outcome = %+v", out)
	}
}
