package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/validate"
)

const keyHint = " enter = | esc clear | tab shift | F2 deg/rad | F3 format | ctrl+t equation | ctrl+q quit"

// Render draws, top to bottom: the display (previous expression, buffer,
// preview), the equation panel when open, history, stored expressions and
// steps, then the status line and the key hint.
func (u *UI) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.SetStyle(u.styleMain)
	s.Clear()

	sess := u.session
	statusY := h - 2
	hintY := h - 1
	if h < 2 {
		statusY = h - 1
		hintY = -1
	}

	// display block
	clearLine(s, 0, w, u.stylePrevious)
	drawRight(s, 0, w, sess.Previous(), u.stylePrevious)
	clearLine(s, 1, w, u.styleDisplay)
	before, after := sess.Split()
	drawText(s, 1, 1, w, before+after, u.styleDisplay)
	cx, cy := 1+len([]rune(before)), 1

	previewStyle := u.stylePreview
	if sess.Preview().State == validate.Invalid {
		previewStyle = u.styleError
	}
	drawText(s, 1, 2, w, sess.PreviewText(), previewStyle)

	y := 4
	if u.mode == ModeEquation {
		y = u.renderEquation(s, w, y)
		cx, cy = 1+len("x: ")+len(u.equation), 5
	}
	y = u.renderList(s, w, y, statusY, "History", u.historyLines())
	y = u.renderList(s, w, y, statusY, "Stored", numbered(sess.Expressions()))
	u.renderList(s, w, y, statusY, "Steps", sess.Steps())

	if statusY >= 0 {
		u.renderStatusline(s, w, statusY)
	}
	if hintY >= 0 {
		hint := keyHint
		if sess.ShiftOn() {
			hint = " shift remaps the next: " + strings.Join(canon.ShiftTokens(), " ")
		}
		clearLine(s, hintY, w, u.styleKeyHint)
		drawText(s, 0, hintY, w, hint, u.styleKeyHint)
	}

	if cx >= w {
		cx = w - 1
	}
	if cy >= statusY {
		s.HideCursor()
	} else {
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
		s.ShowCursor(cx, cy)
	}
	s.Show()
}

func (u *UI) renderEquation(s tcell.Screen, w, y int) int {
	drawText(s, 1, y, w, "Equation (F5 linear, F6 quadratic, esc close)", u.styleHistory)
	drawText(s, 1, y+1, w, "x: "+string(u.equation), u.styleDisplay)
	if res := u.session.LastSolve(); res != nil {
		style := u.styleHistoryResult
		line := res.String()
		if res.Err != nil {
			style = u.styleError
		} else if len(res.Roots) > 0 {
			line += fmt.Sprintf("  (residual %.2g)", res.Residual)
		}
		drawText(s, 1, y+2, w, line, style)
	}
	return y + 4
}

// renderList draws a titled list between y and limit and returns the next
// free row.
func (u *UI) renderList(s tcell.Screen, w, y, limit int, title string, lines []string) int {
	if len(lines) == 0 || y >= limit {
		return y
	}
	drawText(s, 1, y, w, title, u.styleHistory.Bold(true))
	y++
	for _, line := range lines {
		if y >= limit {
			return y
		}
		expr, result, ok := strings.Cut(line, " = ")
		drawText(s, 3, y, w, expr, u.styleHistory)
		if ok {
			drawText(s, 3+len([]rune(expr)), y, w, " = "+result, u.styleHistoryResult)
		}
		y++
	}
	return y + 1
}

func (u *UI) historyLines() []string {
	if u.history == nil {
		return nil
	}
	entries := u.history.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Expression + " = " + e.Result
	}
	return lines
}

func numbered(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = strconv.Itoa(i+1) + ". " + it
	}
	return out
}

func (u *UI) renderStatusline(s tcell.Screen, w, y int) {
	sess := u.session
	mode := "CALC"
	if u.mode == ModeEquation {
		mode = "EQUATION"
	}
	status := fmt.Sprintf(" %s ", mode)
	msg := u.statusMessage
	if msg == "" {
		msg = sess.Status()
	}
	if msg != "" {
		status = fmt.Sprintf(" %s | %s ", mode, msg)
	}

	var flags []string
	if m := sess.MemoryIndicator(); m != "" {
		flags = append(flags, m)
	}
	if sess.ShiftOn() {
		flags = append(flags, "SHIFT")
	}
	flags = append(flags, sess.Angle().String(), sess.Format().String())
	right := " " + strings.Join(flags, "  ") + " "

	line := composeStatusLine(status, right, w)
	split := len(line) - len([]rune(right))
	for x, r := range line {
		if x >= w {
			break
		}
		style := u.styleStatus
		if x >= split {
			style = u.styleIndicator
		}
		s.SetContent(x, y, r, nil, style)
	}
}

func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawRight(s tcell.Screen, y, w int, text string, style tcell.Style) {
	runes := []rune(text)
	x := w - 1 - len(runes)
	if x < 0 {
		runes = runes[-x:]
		x = 0
	}
	drawText(s, x, y, w, string(runes), style)
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
