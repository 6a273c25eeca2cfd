package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kobzarvs/qcalc/internal/format"
	"github.com/kobzarvs/qcalc/internal/solver"
)

// Action names understood by Dispatch.
const (
	ActInsert           = "insert"
	ActPress            = "press"
	ActClear            = "clear"
	ActClearEntry       = "clear-entry"
	ActDelete           = "delete"
	ActDeleteForward    = "delete-forward"
	ActEquals           = "equals"
	ActMemoryStore      = "memory-store"
	ActMemoryRecall     = "memory-recall"
	ActMemoryClear      = "memory-clear"
	ActMemoryAdd        = "memory-add"
	ActMemorySubtract   = "memory-subtract"
	ActToggleAngle      = "toggle-angle"
	ActToggleShift      = "toggle-shift"
	ActCycleFormat      = "cycle-format"
	ActToggleSign       = "toggle-sign"
	ActCursorLeft       = "cursor-left"
	ActCursorRight      = "cursor-right"
	ActCursorHome       = "cursor-home"
	ActCursorEnd        = "cursor-end"
	ActStoreExpression  = "store-expression"
	ActUseExpression    = "use-expression"
	ActDeleteExpression = "delete-expression"
	ActClearExpressions = "clear-expressions"
	ActClearHistory     = "clear-history"
	ActSolveLinear      = "solve-linear"
	ActSolveQuadratic   = "solve-quadratic"
)

// Action is one discrete input. Text carries the payload of insert, press,
// the expression index and solve actions.
type Action struct {
	Name string `json:"action"`
	Text string `json:"text,omitempty"`
}

// Dispatch maps an action to exactly one session operation. Calculation
// failures become session state; the returned error only reports actions
// that could not be interpreted.
func (s *Session) Dispatch(a Action) error {
	switch a.Name {
	case ActInsert:
		s.Insert(a.Text)
	case ActPress:
		s.Press(a.Text)
	case ActClear:
		s.ClearAll()
	case ActClearEntry:
		s.ClearEntry()
	case ActDelete:
		s.DeleteBackward()
	case ActDeleteForward:
		s.DeleteForward()
	case ActEquals:
		s.Commit()
	case ActMemoryStore:
		s.MemoryStore()
	case ActMemoryRecall:
		s.MemoryRecall()
	case ActMemoryClear:
		s.MemoryClear()
	case ActMemoryAdd:
		s.MemoryAdd()
	case ActMemorySubtract:
		s.MemorySubtract()
	case ActToggleAngle:
		s.ToggleAngle()
	case ActToggleShift:
		s.ToggleShift()
	case ActCycleFormat:
		s.CycleFormat()
	case ActToggleSign:
		s.ToggleSign()
	case ActCursorLeft:
		s.MoveCursor(-1)
	case ActCursorRight:
		s.MoveCursor(1)
	case ActCursorHome:
		s.MoveStart()
	case ActCursorEnd:
		s.MoveEnd()
	case ActStoreExpression:
		s.StoreExpression()
	case ActUseExpression, ActDeleteExpression:
		i, err := strconv.Atoi(a.Text)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrNoExpression, a.Text)
		}
		if a.Name == ActUseExpression {
			return s.UseExpression(i)
		}
		return s.DeleteExpression(i)
	case ActClearExpressions:
		s.ClearExpressions()
	case ActClearHistory:
		if c, ok := s.history.(interface{ Clear() }); ok {
			c.Clear()
		}
		s.changed()
	case ActSolveLinear:
		s.Solve(a.Text, solver.Linear)
	case ActSolveQuadratic:
		s.Solve(a.Text, solver.Quadratic)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Name)
	}
	return nil
}

// tokenText expands keypad tokens into the text they insert.
var tokenText = map[string]string{
	"pow2":      "**2",
	"pow":       "**",
	"inv":       "**(-1)",
	"factorial": "!",
	"EXP":       "*10**",
	"tenpow":    "10**",
	"epow":      "e**",
	"mod":       "%",
	"yroot":     "**(1/",
}

// Press handles a keypad token. Shift remaps it first, then named tokens
// expand or run their operation, and anything else is inserted verbatim.
func (s *Session) Press(token string) {
	token, _ = s.shift.MapToken(token)
	switch token {
	case "MC":
		s.MemoryClear()
	case "MR":
		s.MemoryRecall()
	case "MS":
		s.MemoryStore()
	case "MPLUS", "M+":
		s.MemoryAdd()
	case "MMINUS", "M-":
		s.MemorySubtract()
	case "neg":
		s.ToggleSign()
	case "pi":
		s.Insert(format.Shortest(math.Pi))
	case "e":
		s.Insert(format.Shortest(math.E))
	case "ans":
		s.Insert(format.Shortest(s.lastAnswer))
	default:
		if text, ok := tokenText[token]; ok {
			token = text
		}
		s.Insert(token)
	}
}
