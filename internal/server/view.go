package server

import (
	"math"

	"github.com/kobzarvs/qcalc/internal/engine"
	"github.com/kobzarvs/qcalc/internal/history"
	"github.com/kobzarvs/qcalc/internal/solver"
)

// View is the JSON shape of a session.
type View struct {
	ID          string          `json:"id"`
	Text        string          `json:"text"`
	Cursor      int             `json:"cursor"`
	Previous    string          `json:"previous"`
	Preview     string          `json:"preview"`
	Status      string          `json:"status,omitempty"`
	Angle       string          `json:"angle"`
	Format      string          `json:"format"`
	Shift       bool            `json:"shift"`
	Memory      float64         `json:"memory"`
	MemoryFlag  string          `json:"memoryIndicator,omitempty"`
	LastAnswer  float64         `json:"lastAnswer"`
	Expressions []string        `json:"expressions"`
	Steps       []string        `json:"steps,omitempty"`
	History     []history.Entry `json:"history"`
	Solve       *SolveView      `json:"solve,omitempty"`
}

func newView(id string, s *engine.Session, h *history.List) View {
	v := View{
		ID:          id,
		Text:        s.Text(),
		Cursor:      s.Cursor(),
		Previous:    s.Previous(),
		Preview:     s.PreviewText(),
		Status:      s.Status(),
		Angle:       s.Angle().String(),
		Format:      s.Format().String(),
		Shift:       s.ShiftOn(),
		Memory:      s.Memory(),
		MemoryFlag:  s.MemoryIndicator(),
		LastAnswer:  s.LastAnswer(),
		Expressions: s.Expressions(),
		Steps:       s.Steps(),
		History:     h.Entries(),
	}
	if v.Expressions == nil {
		v.Expressions = []string{}
	}
	if res := s.LastSolve(); res != nil {
		sv := newSolveView(*res)
		v.Solve = &sv
	}
	return v
}

// SolveView is the JSON shape of a solver result.
type SolveView struct {
	Kind         string    `json:"kind"`
	Roots        []float64 `json:"roots,omitempty"`
	Residual     *float64  `json:"residual,omitempty"`
	Iterations   int       `json:"iterations,omitempty"`
	Discriminant *float64  `json:"discriminant,omitempty"`
	Text         string    `json:"text"`
	Error        string    `json:"error,omitempty"`
}

func newSolveView(res solver.Result) SolveView {
	v := SolveView{
		Kind:       res.Kind.String(),
		Roots:      res.Roots,
		Iterations: res.Iterations,
		Text:       res.String(),
	}
	// JSON has no infinity; a root where the residual is undefined omits it.
	if len(res.Roots) > 0 && !math.IsInf(res.Residual, 0) && !math.IsNaN(res.Residual) {
		r := res.Residual
		v.Residual = &r
	}
	if res.Kind == solver.KindQuadraticReal || res.Kind == solver.KindQuadraticComplex {
		d := res.Discriminant
		v.Discriminant = &d
	}
	if res.Err != nil {
		v.Error = res.Err.Msg
	}
	return v
}
