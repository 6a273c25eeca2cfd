package buffer

import "strings"

// ErrorText replaces the buffer content after a failed commit.
const ErrorText = "Error"

// Buffer holds the in-progress expression and a cursor offset counted in runes.
// The cursor always satisfies 0 <= cursor <= Len().
type Buffer struct {
	text   []rune
	cursor int
}

func New() *Buffer {
	return &Buffer{}
}

// Restore sets text and cursor from persisted state, clamping the cursor.
func (b *Buffer) Restore(text string, cursor int) {
	b.text = []rune(text)
	b.cursor = clamp(cursor, 0, len(b.text))
}

func (b *Buffer) Text() string { return string(b.text) }
func (b *Buffer) Cursor() int  { return b.cursor }
func (b *Buffer) Len() int     { return len(b.text) }

func (b *Buffer) Empty() bool {
	return strings.TrimSpace(string(b.text)) == ""
}

// Split returns the text before and after the cursor.
func (b *Buffer) Split() (string, string) {
	return string(b.text[:b.cursor]), string(b.text[b.cursor:])
}

// Insert splices s at the cursor and advances the cursor past it.
func (b *Buffer) Insert(s string) {
	if s == "" {
		return
	}
	r := []rune(s)
	out := make([]rune, 0, len(b.text)+len(r))
	out = append(out, b.text[:b.cursor]...)
	out = append(out, r...)
	out = append(out, b.text[b.cursor:]...)
	b.text = out
	b.cursor += len(r)
}

// DeleteBackward removes the rune before the cursor. It reports whether
// anything was removed.
func (b *Buffer) DeleteBackward() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// DeleteForward removes the rune under the cursor.
func (b *Buffer) DeleteForward() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

func (b *Buffer) MoveCursor(delta int) {
	b.cursor = clamp(b.cursor+delta, 0, len(b.text))
}

func (b *Buffer) MoveStart() { b.cursor = 0 }
func (b *Buffer) MoveEnd()   { b.cursor = len(b.text) }

func (b *Buffer) Clear() {
	b.text = b.text[:0]
	b.cursor = 0
}

// Replace swaps the whole content and moves the cursor to the end.
func (b *Buffer) Replace(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}

// ToggleSign wraps the content as (-1*(<text>)). Empty content and the
// failure marker are left alone.
func (b *Buffer) ToggleSign() bool {
	t := string(b.text)
	if strings.TrimSpace(t) == "" || t == ErrorText {
		return false
	}
	b.Replace("(-1*(" + t + "))")
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
