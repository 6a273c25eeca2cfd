package engine

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/eval"
	"github.com/kobzarvs/qcalc/internal/format"
	"github.com/kobzarvs/qcalc/internal/logger"
)

// memoryOperand is the value MS, M+ and M- work with: the buffer's value,
// or the last answer when the buffer is empty.
func (s *Session) memoryOperand() (float64, *eval.Error) {
	raw := s.buf.Text()
	if strings.TrimSpace(raw) == "" {
		return s.lastAnswer, nil
	}
	out := eval.Evaluate(canon.Canonicalize(raw), s.env())
	if !out.OK() {
		return 0, eval.NewError(eval.KindStructural, fmt.Errorf("%w: %s", ErrNotANumber, out.Err.Msg))
	}
	return out.Value, nil
}

// MemoryClear sets the register to zero.
func (s *Session) MemoryClear() {
	s.memory = 0
	s.changed()
}

// MemoryRecall inserts the register's decimal text at the cursor.
func (s *Session) MemoryRecall() {
	s.Insert(format.Shortest(s.memory))
}

func (s *Session) MemoryStore() *eval.Error {
	return s.memoryApply("store", func(v float64) { s.memory = v })
}

func (s *Session) MemoryAdd() *eval.Error {
	return s.memoryApply("add", func(v float64) { s.memory += v })
}

func (s *Session) MemorySubtract() *eval.Error {
	return s.memoryApply("subtract", func(v float64) { s.memory -= v })
}

func (s *Session) memoryApply(op string, apply func(float64)) *eval.Error {
	v, err := s.memoryOperand()
	if err != nil {
		s.status = err.Msg
		s.changed()
		return err
	}
	apply(v)
	logger.Debug("memory", "op", op, "operand", v, "memory", s.memory)
	s.changed()
	return nil
}

// StoreExpression saves the raw buffer, newest first.
func (s *Session) StoreExpression() *eval.Error {
	raw := strings.TrimSpace(s.buf.Text())
	if raw == "" {
		err := eval.NewError(eval.KindStructural, ErrNothingToStore)
		s.status = err.Msg
		s.changed()
		return err
	}
	s.expressions = append([]string{raw}, s.expressions...)
	if len(s.expressions) > s.exprLimit {
		s.expressions = s.expressions[:s.exprLimit]
	}
	s.status = "Stored: " + raw
	s.changed()
	return nil
}

// UseExpression inserts stored expression i at the cursor.
func (s *Session) UseExpression(i int) error {
	if i < 0 || i >= len(s.expressions) {
		return fmt.Errorf("%w: %d", ErrNoExpression, i)
	}
	s.Insert(s.expressions[i])
	return nil
}

func (s *Session) DeleteExpression(i int) error {
	if i < 0 || i >= len(s.expressions) {
		return fmt.Errorf("%w: %d", ErrNoExpression, i)
	}
	s.expressions = append(s.expressions[:i], s.expressions[i+1:]...)
	s.changed()
	return nil
}

func (s *Session) ClearExpressions() {
	s.expressions = nil
	s.changed()
}
