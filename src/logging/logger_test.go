package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := sink
	sink = log.New(&buf, "", 0)
	savedLevel := currentLevel()
	t.Cleanup(func() {
		sink = saved
		level.Store(int32(savedLevel))
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	Viewer.Infof("hover: Matched subject: gi|123 Number of positive aa matches: 40 (93.00% identity)")

	out := buf.String()
	if !strings.Contains(out, "(93.00% identity)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestComponentTag(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	Viewer.Infof("loaded sample %q", "S1")
	Reader.Warnf("skipped %d name(s)", 2)
	New("export").Errorf("disk full")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		`[INFO] [viewer] loaded sample "S1"`,
		`[WARN] [reader] skipped 2 name(s)`,
		`[ERROR] [export] disk full`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLevelsFilterAndPrefix(t *testing.T) {
	buf := captureLogs(t)
	if !SetLogLevel("WARN") {
		t.Fatalf("expected WARN to parse")
	}
	Viewer.Debugf("debug %d", 1)
	Viewer.Infof("info %d", 2)
	Viewer.Warnf("warn %d", 3)
	Viewer.Errorf("error %d", 4)
	Viewer.Since(time.Now(), "read")
	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") || strings.Contains(out, "took") {
		t.Fatalf("messages below WARN should be filtered: %s", out)
	}
	if !strings.Contains(out, "[WARN] [viewer] warn 3") || !strings.Contains(out, "[ERROR] [viewer] error 4") {
		t.Fatalf("missing warn/error lines: %s", out)
	}
}

func TestSinceAtDebug(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("debug")
	Reader.Since(time.Now().Add(-time.Millisecond), "read hits.json")
	if out := buf.String(); !strings.Contains(out, "[DEBUG] [reader] read hits.json took ") {
		t.Fatalf("since line: %s", out)
	}
}

func TestSetLogLevelUnknownKeepsLevel(t *testing.T) {
	captureLogs(t)
	SetLogLevel("error")
	if SetLogLevel("chatty") {
		t.Fatalf("unknown level should not parse")
	}
	if currentLevel() != Error {
		t.Fatalf("level changed on unknown input: %v", currentLevel())
	}
	if l, ok := ParseLevel(" Warning "); !ok || l != Warn {
		t.Fatalf("ParseLevel(Warning) = %v, %v", l, ok)
	}
}
