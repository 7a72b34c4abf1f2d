package uihelpers

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 640},
		{639, 640},
		{640, 640},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 360 || h > 720 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestTruncatePath(t *testing.T) {
	short := "/tmp/a.json"
	if got := TruncatePath(short, 60); got != short {
		t.Fatalf("short path changed: %q", got)
	}
	long := filepath.Join("/very", strings.Repeat("deep/", 20), "sample-hits.json")
	got := TruncatePath(long, 40)
	if !strings.HasSuffix(got, "sample-hits.json") || !strings.Contains(got, "...") {
		t.Fatalf("truncated=%q", got)
	}
	if len(got) > 44 {
		t.Fatalf("truncated too long (%d): %q", len(got), got)
	}
	if got := TruncatePath("/x/"+strings.Repeat("n", 50)+".json", 20); !strings.HasPrefix(got, "...") {
		t.Fatalf("long base: %q", got)
	}
}

func TestPlainText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"<strong>Matched subject:</strong> gi|42<br><strong>Subject length:</strong> 300 aa<br>", "Matched subject: gi|42\nSubject length: 300 aa"},
		{"a<BR/>b<br />c", "a\nb\nc"},
		{"x &amp; y &lt;z&gt;", "x & y <z>"},
		{"", ""},
	}
	for _, c := range cases {
		if got := PlainText(c.in); got != c.want {
			t.Fatalf("PlainText(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := OneLine("q1 <b>93%</b><br>  identity\n"); got != "q1 93% identity" {
		t.Fatalf("OneLine=%q", got)
	}
	if got := OneLine("  "); got != "" {
		t.Fatalf("blank: %q", got)
	}
}

func TestStatusLine(t *testing.T) {
	if got := StatusLine("", 0, 0); got != "No sample loaded" {
		t.Fatalf("empty: %q", got)
	}
	if got := StatusLine("S1", 1, 0); got != "Sample S1: 1 point, 0 selected" {
		t.Fatalf("single: %q", got)
	}
	if got := StatusLine("S1", 12, 3); got != "Sample S1: 12 points, 3 selected" {
		t.Fatalf("many: %q", got)
	}
}
