package canon

import (
	"strings"
	"unicode/utf8"
)

type shiftEntry struct {
	base   string // entry token and call prefix
	token  string // shifted input token
	prefix string
	suffix string
}

// The shifted form of base(arg) is prefix+arg+suffix.
var shiftTable = []shiftEntry{
	{base: "sin(", token: "asin(", prefix: "asin(", suffix: ")"},
	{base: "cos(", token: "acos(", prefix: "acos(", suffix: ")"},
	{base: "tan(", token: "atan(", prefix: "atan(", suffix: ")"},
	{base: "log(", token: "tenpow", prefix: "10**(", suffix: ")"},
	{base: "ln(", token: "epow", prefix: "e**(", suffix: ")"},
	{base: "sqrt(", token: "pow2", prefix: "(", suffix: ")**2"},
}

// Shift is the one-shot modifier that remaps the next qualifying token.
type Shift struct {
	on bool
}

func (s *Shift) On() bool     { return s.on }
func (s *Shift) Set(on bool)  { s.on = on }
func (s *Shift) Toggle() bool { s.on = !s.on; return s.on }

// MapToken returns the shifted counterpart of an input token. When a mapping
// applies the modifier turns itself off.
func (s *Shift) MapToken(token string) (string, bool) {
	if !s.on {
		return token, false
	}
	for _, e := range shiftTable {
		if e.base == token {
			s.on = false
			return e.token, true
		}
	}
	return token, false
}

// Apply rewrites the leftmost shiftable call in canonical text. Exactly one
// substitution happens before the modifier resets; text without a
// qualifying call is returned unchanged and the modifier stays on.
func (s *Shift) Apply(text string) string {
	if !s.on {
		return text
	}
	for pos := 0; pos < len(text); {
		for _, e := range shiftTable {
			if !strings.HasPrefix(text[pos:], e.base) || !nameBoundary(text, pos) {
				continue
			}
			argStart := pos + len(e.base)
			if end := matchClose(text, argStart); end >= 0 {
				s.on = false
				return text[:pos] + e.prefix + text[argStart:end] + e.suffix + text[end+1:]
			}
			if e.suffix == ")" {
				// open call: swap the head, the user closes it later
				s.on = false
				return text[:pos] + e.prefix + text[argStart:]
			}
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return text
}

// ShiftTokens lists the base tokens that have a shifted counterpart.
func ShiftTokens() []string {
	out := make([]string, len(shiftTable))
	for i, e := range shiftTable {
		out[i] = e.base
	}
	return out
}

func nameBoundary(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isNameRune(r)
}
