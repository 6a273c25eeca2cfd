// Package engine holds one calculator session and runs every user action
// through the validate, canonicalize, evaluate, format and commit stages.
package engine

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/kobzarvs/qcalc/internal/buffer"
	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/eval"
	"github.com/kobzarvs/qcalc/internal/format"
	"github.com/kobzarvs/qcalc/internal/logger"
	"github.com/kobzarvs/qcalc/internal/solver"
	"github.com/kobzarvs/qcalc/internal/steps"
	"github.com/kobzarvs/qcalc/internal/validate"
)

// Display is told about every buffer change. It must not call back into the
// session while handling it.
type Display interface {
	OnBufferChanged(text string, cursor int)
}

// History receives successful commits only.
type History interface {
	OnCommitted(expression string, value float64, display string)
}

// Observer is told about every commit and solve, e.g. to count them.
type Observer interface {
	Evaluated(out Outcome)
	Solved(mode solver.Mode, res solver.Result)
}

// Config seeds a new session.
type Config struct {
	Angle            eval.AngleMode
	Format           format.Mode
	Precision        int
	ExpressionLimit  int
	SolverIterations int
	Rand             func() float64
}

// DefaultExpressionLimit caps the expression memory.
const DefaultExpressionLimit = 10

var (
	ErrNothingToStore = errors.New("Nothing to store. Type an expression first.")
	ErrNotANumber     = errors.New("not a number")
	ErrNoExpression   = errors.New("no stored expression")
	ErrUnknownAction  = errors.New("unknown action")
)

// Outcome is the result of a commit.
type Outcome struct {
	Value   float64
	Display string
	Err     *eval.Error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Session is the explicit context every operation runs against. It is not
// safe for concurrent use; hosts serialize actions per session.
type Session struct {
	buf         *buffer.Buffer
	previous    string
	angle       eval.AngleMode
	format      format.Mode
	precision   int
	shift       canon.Shift
	memory      float64
	lastAnswer  float64
	expressions []string
	exprLimit   int
	iterations  int
	rand        func() float64

	preview validate.Result
	status  string
	steps   []string
	solve   *solver.Result

	history  History
	display  Display
	observer Observer
	onChange func()
}

// New creates a session. history and display may be nil.
func New(cfg Config, history History, display Display) *Session {
	if cfg.ExpressionLimit <= 0 {
		cfg.ExpressionLimit = DefaultExpressionLimit
	}
	if cfg.Precision <= 0 {
		cfg.Precision = format.DefaultPrecision
	}
	if cfg.SolverIterations <= 0 {
		cfg.SolverIterations = solver.DefaultIterations
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Float64
	}
	s := &Session{
		buf:        buffer.New(),
		angle:      cfg.Angle,
		format:     cfg.Format,
		precision:  cfg.Precision,
		exprLimit:  cfg.ExpressionLimit,
		iterations: cfg.SolverIterations,
		rand:       cfg.Rand,
		history:    history,
		display:    display,
	}
	s.preview = validate.Check("", s.env())
	return s
}

// OnChange registers fn to run after every state change, e.g. to persist.
func (s *Session) OnChange(fn func()) { s.onChange = fn }

// Observe registers o for commit and solve notifications.
func (s *Session) Observe(o Observer) { s.observer = o }

func (s *Session) observe(out Outcome) {
	if s.observer != nil {
		s.observer.Evaluated(out)
	}
}

func (s *Session) env() eval.Env {
	return eval.Env{Angle: s.angle, Rand: s.rand}
}

// Accessors used by renderers and the HTTP snapshot.

func (s *Session) Text() string              { return s.buf.Text() }
func (s *Session) Cursor() int               { return s.buf.Cursor() }
func (s *Session) Split() (string, string)   { return s.buf.Split() }
func (s *Session) Previous() string          { return s.previous }
func (s *Session) Angle() eval.AngleMode     { return s.angle }
func (s *Session) Format() format.Mode       { return s.format }
func (s *Session) ShiftOn() bool             { return s.shift.On() }
func (s *Session) Memory() float64           { return s.memory }
func (s *Session) LastAnswer() float64       { return s.lastAnswer }
func (s *Session) Preview() validate.Result  { return s.preview }
func (s *Session) Status() string            { return s.status }
func (s *Session) Steps() []string           { return append([]string(nil), s.steps...) }
func (s *Session) LastSolve() *solver.Result { return s.solve }
func (s *Session) History() History          { return s.history }
func (s *Session) Expressions() []string     { return append([]string(nil), s.expressions...) }

// MemoryIndicator is "M" while the register holds a non-zero value.
func (s *Session) MemoryIndicator() string {
	if s.memory != 0 {
		return "M"
	}
	return ""
}

// PreviewText is the line shown under the buffer while typing.
func (s *Session) PreviewText() string {
	if s.preview.State == validate.Preview {
		return format.Shortest(s.preview.Value)
	}
	return s.preview.Message()
}

// changed re-validates the buffer and notifies collaborators.
func (s *Session) changed() {
	s.preview = validate.Check(s.buf.Text(), s.env())
	if s.display != nil {
		s.display.OnBufferChanged(s.buf.Text(), s.buf.Cursor())
	}
	if s.onChange != nil {
		s.onChange()
	}
}

// Insert splices text at the cursor. A failed commit's marker is discarded
// first.
func (s *Session) Insert(text string) {
	if s.buf.Text() == buffer.ErrorText {
		s.buf.Clear()
	}
	s.buf.Insert(text)
	s.status = ""
	s.changed()
}

func (s *Session) DeleteBackward() {
	if s.buf.DeleteBackward() {
		s.changed()
	}
}

func (s *Session) DeleteForward() {
	if s.buf.DeleteForward() {
		s.changed()
	}
}

func (s *Session) MoveCursor(delta int) {
	s.buf.MoveCursor(delta)
	s.changed()
}

func (s *Session) MoveStart() {
	s.buf.MoveStart()
	s.changed()
}

func (s *Session) MoveEnd() {
	s.buf.MoveEnd()
	s.changed()
}

// ClearEntry empties the buffer and keeps the previous expression.
func (s *Session) ClearEntry() {
	s.buf.Clear()
	s.status = ""
	s.changed()
}

// ClearAll empties the buffer and the previous expression.
func (s *Session) ClearAll() {
	s.buf.Clear()
	s.previous = ""
	s.status = ""
	s.steps = nil
	s.changed()
}

func (s *Session) ToggleSign() {
	if s.buf.ToggleSign() {
		s.changed()
	}
}

func (s *Session) ToggleAngle() {
	s.angle = s.angle.Toggle()
	logger.Debug("angle mode", "mode", s.angle.String())
	s.changed()
}

func (s *Session) ToggleShift() {
	s.shift.Toggle()
	s.changed()
}

func (s *Session) CycleFormat() {
	s.format = s.format.Next()
	logger.Debug("format mode", "mode", s.format.String())
	s.changed()
}

// Commit validates and evaluates the buffer. On success the formatted result
// replaces the buffer, the raw text becomes the previous expression and
// history is notified. On failure the buffer holds the error marker. An empty
// buffer commits nothing and reports false.
func (s *Session) Commit() (Outcome, bool) {
	raw := s.buf.Text()
	if strings.TrimSpace(raw) == "" {
		return Outcome{}, false
	}

	res := validate.Check(raw, s.env())
	if res.State == validate.Invalid {
		logger.Debug("commit failed", "expression", raw, "kind", res.Err.Kind.String(), "error", res.Err.Msg)
		s.buf.Replace(buffer.ErrorText)
		s.status = res.Err.Msg
		s.changed()
		s.observe(Outcome{Err: res.Err})
		return Outcome{Err: res.Err}, true
	}

	display := format.Format(res.Value, s.format, s.precision)
	s.lastAnswer = res.Value
	s.previous = raw
	s.steps = steps.Build(raw, display)
	s.status = ""
	if s.history != nil {
		s.history.OnCommitted(raw, res.Value, display)
	}
	s.buf.Replace(display)
	logger.Debug("commit", "expression", raw, "result", display, "format", s.format.String())
	s.changed()
	out := Outcome{Value: res.Value, Display: display}
	s.observe(out)
	return out, true
}

// Solve runs the equation solver in the session's angle mode. It does not
// touch the buffer.
func (s *Session) Solve(equation string, mode solver.Mode) solver.Result {
	res := solver.Solve(equation, mode, solver.Options{Iterations: s.iterations, Angle: s.angle})
	s.solve = &res
	if s.observer != nil {
		s.observer.Solved(mode, res)
	}
	if res.Err != nil {
		logger.Debug("solve failed", "equation", equation, "mode", mode.String(), "error", res.Err.Msg)
	} else {
		logger.Debug("solve", "equation", equation, "mode", mode.String(), "kind", res.Kind.String(), "roots", res.Roots)
	}
	if s.onChange != nil {
		s.onChange()
	}
	return res
}
