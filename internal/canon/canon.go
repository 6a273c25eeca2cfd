// Package canon rewrites raw calculator input into the canonical form
// understood by the evaluator.
package canon

import (
	"strings"
	"unicode"
)

const factorialName = "factorial"

var glyphs = strings.NewReplacer(
	"×", "*",
	"÷", "/",
	"−", "-",
	"^", "**",
	"π", "pi",
)

// NormalizeGlyphs replaces display-only operator glyphs with their ASCII
// operator characters.
func NormalizeGlyphs(raw string) string {
	return glyphs.Replace(raw)
}

// Canonicalize normalizes glyphs and rewrites postfix factorials. Input that
// matches no pattern comes back unchanged; it never fails.
func Canonicalize(raw string) string {
	return RewriteFactorials(NormalizeGlyphs(raw))
}

// CanonicalizeShift is Canonicalize followed by a single shift remapping
// when s is active.
func CanonicalizeShift(raw string, s *Shift) string {
	out := Canonicalize(raw)
	if s != nil {
		out = s.Apply(out)
	}
	return out
}

// RewriteFactorials turns `n!` and `(...)!` into factorial(...) calls.
// A digit run in unary position keeps its minus sign, so -1! becomes
// factorial(-1). A group directly preceded by a name is treated as a call
// and rewritten whole, except a factorial call: `3!!` stops at
// factorial(3)! and the evaluator rejects the leftover `!`. Wrapping the
// first factorial in brackets, (3!)!, chains them.
func RewriteFactorials(s string) string {
	if !strings.ContainsRune(s, '!') {
		return s
	}
	out := make([]rune, 0, len(s)+16)
	for _, r := range s {
		if r != '!' {
			out = append(out, r)
			continue
		}
		start := factorialOperandStart(out)
		if start < 0 {
			out = append(out, r)
			continue
		}
		operand := string(out[start:])
		out = append(out[:start], []rune(factorialName+"("+operand+")")...)
	}
	return string(out)
}

// factorialOperandStart returns where the operand ending at len(s) starts,
// or -1 when there is no operand.
func factorialOperandStart(s []rune) int {
	n := len(s)
	if n == 0 {
		return -1
	}
	last := s[n-1]
	switch {
	case last == ')':
		open := matchOpen(s, n-1)
		if open < 0 {
			return -1
		}
		start := open
		for start > 0 && isNameRune(s[start-1]) {
			start--
		}
		if string(s[start:open]) == factorialName {
			return -1
		}
		return start
	case unicode.IsDigit(last) || last == '.':
		start := n - 1
		for start > 0 && (unicode.IsDigit(s[start-1]) || s[start-1] == '.') {
			start--
		}
		if start > 0 && isNameRune(s[start-1]) {
			// digits belong to a name such as atan2
			return -1
		}
		if start > 0 && s[start-1] == '-' && unaryAt(s, start-1) {
			start--
		}
		return start
	}
	return -1
}

// matchOpen finds the '(' balancing the ')' at close.
func matchOpen(s []rune, close int) int {
	depth := 0
	for i := close; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchClose finds the ')' balancing an already-open group whose content
// starts at from.
func matchClose(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// unaryAt reports whether the '-' at i is a sign rather than a subtraction.
func unaryAt(s []rune, i int) bool {
	j := i - 1
	for j >= 0 && unicode.IsSpace(s[j]) {
		j--
	}
	if j < 0 {
		return true
	}
	return strings.ContainsRune("+-*/%(,", s[j])
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
