// Package format renders finite results in the calculator's display modes.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode is a display format.
type Mode uint8

const (
	Normal Mode = iota
	Sci
	Eng
)

// DefaultPrecision is the number of fraction digits in SCI and ENG.
const DefaultPrecision = 8

func (m Mode) String() string {
	switch m {
	case Sci:
		return "SCI"
	case Eng:
		return "ENG"
	}
	return "NORMAL"
}

// Next cycles NORMAL, SCI, ENG.
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// ParseMode accepts the mode names in any case.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return Normal, true
	case "sci":
		return Sci, true
	case "eng":
		return Eng, true
	}
	return Normal, false
}

// Format renders v. precision below zero selects DefaultPrecision.
func Format(v float64, m Mode, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	switch m {
	case Sci:
		return trimExponent(strconv.FormatFloat(v, 'e', precision, 64))
	case Eng:
		return engineering(v, precision)
	}
	return Shortest(v)
}

// Shortest is the round-trip decimal form: plain digits for magnitudes in
// [1e-6, 1e21) and exponent form outside that range.
func Shortest(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}
	a := math.Abs(v)
	if a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
}

func engineering(v float64, precision int) string {
	if v == 0 {
		return "0"
	}
	a := math.Abs(v)
	exp := int(math.Floor(math.Log10(a)))
	if math.Pow10(exp) > a {
		exp--
	} else if math.Pow10(exp+1) <= a {
		exp++
	}
	engExp := exp - ((exp%3)+3)%3
	mant := v / math.Pow10(engExp)
	sign := "+"
	if engExp < 0 {
		sign = "-"
		engExp = -engExp
	}
	return fmt.Sprintf("%.*fe%s%d", precision, mant, sign, engExp)
}

// trimExponent turns e+03 into e+3.
func trimExponent(s string) string {
	i := strings.LastIndexAny(s, "eE")
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}
