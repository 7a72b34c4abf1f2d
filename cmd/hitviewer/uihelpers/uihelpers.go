package uihelpers

import (
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
)

// ComputeChartDimensions applies width/height clamp rules used for the scatter plot.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	h := int(float32(w) * 0.55)
	if h < 360 {
		h = 360
	}
	if h > 720 {
		h = 720
	}
	return w, h
}

// TruncatePath shortens p to about n characters, always keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "..." + string(filepath.Separator) + base
}

var (
	breakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag   = regexp.MustCompile(`<[^>]*>`)
)

// PlainText renders the light HTML used in info text for a plain label: <br> becomes a
// newline, other tags are dropped and entities are unescaped.
func PlainText(s string) string {
	s = breakTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// OneLine is PlainText joined onto a single line, for text drawn into the chart.
func OneLine(s string) string {
	return strings.Join(strings.Fields(PlainText(s)), " ")
}

// LoadingStatus is the status bar text while a file read is in flight.
const LoadingStatus = "Loading…"

// StatusLine summarises the loaded sample for the status bar.
func StatusLine(sample string, points, selected int) string {
	if sample == "" {
		return "No sample loaded"
	}
	noun := "points"
	if points == 1 {
		noun = "point"
	}
	return fmt.Sprintf("Sample %s: %d %s, %d selected", sample, points, noun, selected)
}
