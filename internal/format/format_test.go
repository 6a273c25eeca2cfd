package format

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		v    float64
		mode Mode
		want string
	}{
		{v: 1234.5, mode: Normal, want: "1234.5"},
		{v: 0.1 + 0.2, mode: Normal, want: "0.30000000000000004"},
		{v: 120, mode: Normal, want: "120"},
		{v: -2, mode: Normal, want: "-2"},
		{v: 1e21, mode: Normal, want: "1e+21"},
		{v: 1e-7, mode: Normal, want: "1e-7"},
		{v: 0, mode: Normal, want: "0"},
		{v: 1234.5, mode: Sci, want: "1.23450000e+3"},
		{v: 0.00012, mode: Sci, want: "1.20000000e-4"},
		{v: 0, mode: Sci, want: "0.00000000e+0"},
		{v: 0, mode: Eng, want: "0"},
		{v: 1500, mode: Eng, want: "1.50000000e+3"},
		{v: 1000, mode: Eng, want: "1.00000000e+3"},
		{v: 999, mode: Eng, want: "999.00000000e+0"},
		{v: 0.005, mode: Eng, want: "5.00000000e-3"},
		{v: 0.0005, mode: Eng, want: "500.00000000e-6"},
		{v: -47000, mode: Eng, want: "-47.00000000e+3"},
	}
	for _, tt := range tests {
		if got := Format(tt.v, tt.mode, -1); got != tt.want {
			t.Fatalf("Format(%v, %v) = %q, want %q", tt.v, tt.mode, got, tt.want)
		}
	}
}

func TestFormatPrecision(t *testing.T) {
	if got := Format(1234.5, Sci, 2); got != "1.23e+3" {
		t.Fatalf("Format = %q", got)
	}
}

func TestModeCycle(t *testing.T) {
	m := Normal
	var seen []string
	for i := 0; i < 4; i++ {
		seen = append(seen, m.String())
		m = m.Next()
	}
	want := []string{"NORMAL", "SCI", "ENG", "NORMAL"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
	if m, ok := ParseMode("Eng"); !ok || m != Eng {
		t.Fatalf("ParseMode(Eng) = %v %v", m, ok)
	}
}
