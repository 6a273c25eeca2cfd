// Package history keeps committed calculations, newest first.
package history

import (
	"encoding/csv"
	"strings"
	"sync"
)

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 10

// Entry is one committed calculation.
type Entry struct {
	Expression string  `json:"expression"`
	Result     string  `json:"result"`
	Value      float64 `json:"value"`
}

// List is a capped, newest-first history.
type List struct {
	mu      sync.RWMutex
	limit   int
	entries []Entry
}

// New creates a List holding at most limit entries.
func New(limit int) *List {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &List{limit: limit}
}

// OnCommitted records a commit. It satisfies engine.History.
func (l *List) OnCommitted(expression string, value float64, display string) {
	l.Add(Entry{Expression: expression, Result: display, Value: value})
}

// Add puts e in front and drops the oldest entry past the limit.
func (l *List) Add(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
}

// Entries returns a copy, newest first.
func (l *List) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Restore replaces the contents, keeping the newest entries within the limit.
func (l *List) Restore(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > l.limit {
		entries = entries[:l.limit]
	}
	l.entries = append([]Entry(nil), entries...)
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *List) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// ExportText renders one "expression = result" line per entry.
func (l *List) ExportText() string {
	var b strings.Builder
	for _, e := range l.Entries() {
		b.WriteString(e.Expression)
		b.WriteString(" = ")
		b.WriteString(e.Result)
		b.WriteByte('\n')
	}
	return b.String()
}

// ExportCSV renders a header and one row per entry.
func (l *List) ExportCSV() string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	// writes to a strings.Builder cannot fail
	_ = w.Write([]string{"Expression", "Result"})
	for _, e := range l.Entries() {
		_ = w.Write([]string{e.Expression, e.Result})
	}
	w.Flush()
	return b.String()
}
