package engine

import (
	"github.com/kobzarvs/qcalc/internal/eval"
	"github.com/kobzarvs/qcalc/internal/format"
)

// State is the persistent part of a session.
type State struct {
	Text        string   `json:"text"`
	Cursor      int      `json:"cursor"`
	Previous    string   `json:"previous"`
	Angle       string   `json:"angle"`
	Format      string   `json:"format"`
	Shift       bool     `json:"shift"`
	Memory      float64  `json:"memory"`
	LastAnswer  float64  `json:"lastAnswer"`
	Expressions []string `json:"expressions,omitempty"`
}

// Export captures the session for a store.
func (s *Session) Export() State {
	return State{
		Text:        s.buf.Text(),
		Cursor:      s.buf.Cursor(),
		Previous:    s.previous,
		Angle:       s.angle.String(),
		Format:      s.format.String(),
		Shift:       s.shift.On(),
		Memory:      s.memory,
		LastAnswer:  s.lastAnswer,
		Expressions: s.Expressions(),
	}
}

// Restore loads st. Unknown mode names keep the current modes and the
// cursor is clamped into the text.
func (s *Session) Restore(st State) {
	s.buf.Restore(st.Text, st.Cursor)
	s.previous = st.Previous
	if m, ok := eval.ParseAngleMode(st.Angle); ok {
		s.angle = m
	}
	if m, ok := format.ParseMode(st.Format); ok && st.Format != "" {
		s.format = m
	}
	s.shift.Set(st.Shift)
	s.memory = st.Memory
	s.lastAnswer = st.LastAnswer
	s.expressions = append([]string(nil), st.Expressions...)
	if len(s.expressions) > s.exprLimit {
		s.expressions = s.expressions[:s.exprLimit]
	}
	s.changed()
}
