package history

import (
	"fmt"
	"testing"
)

func TestAddNewestFirstAndCap(t *testing.T) {
	l := New(3)
	for i := 1; i <= 5; i++ {
		l.OnCommitted(fmt.Sprintf("%d+0", i), float64(i), fmt.Sprint(i))
	}
	got := l.Entries()
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Expression != "5+0" || got[2].Expression != "3+0" {
		t.Fatalf("entries = %+v", got)
	}
}

func TestDefaultLimit(t *testing.T) {
	l := New(0)
	for i := 0; i < 15; i++ {
		l.OnCommitted("1", 1, "1")
	}
	if l.Len() != DefaultLimit {
		t.Fatalf("len = %d", l.Len())
	}
}

func TestExport(t *testing.T) {
	l := New(10)
	l.OnCommitted("1+1", 2, "2")
	l.OnCommitted(`say "hi"`, 3, "3")

	if got, want := l.ExportText(), "say \"hi\" = 3\n1+1 = 2\n"; got != want {
		t.Fatalf("ExportText = %q, want %q", got, want)
	}
	want := "Expression,Result\n\"say \"\"hi\"\"\",3\n1+1,2\n"
	if got := l.ExportCSV(); got != want {
		t.Fatalf("ExportCSV = %q, want %q", got, want)
	}
}

func TestExportCSVQuotesWhenNeeded(t *testing.T) {
	l := New(10)
	l.OnCommitted("max(1,2)", 2, "2")
	l.OnCommitted("1.5e+3", 1500, "1.50000000e+3")

	want := "Expression,Result\n1.5e+3,1.50000000e+3\n\"max(1,2)\",2\n"
	if got := l.ExportCSV(); got != want {
		t.Fatalf("ExportCSV = %q, want %q", got, want)
	}
}

func TestRestoreAndClear(t *testing.T) {
	l := New(2)
	l.Restore([]Entry{{"a", "1", 1}, {"b", "2", 2}, {"c", "3", 3}})
	if l.Len() != 2 || l.Entries()[0].Expression != "a" {
		t.Fatalf("entries = %+v", l.Entries())
	}
	l.Clear()
	if l.Len() != 0 || l.ExportText() != "" {
		t.Fatalf("clear left %+v", l.Entries())
	}
}
