package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blasthits/hitviewer/src/config"
	"github.com/blasthits/hitviewer/src/dataset"
	"github.com/blasthits/hitviewer/src/logging"
	"github.com/blasthits/hitviewer/src/plot"
	"github.com/blasthits/hitviewer/src/session"
)

// RunScreenshotMode renders filePath as the viewer would show it, with the given points
// selected, and writes a PNG to outPath. It runs headlessly without creating a UI window.
// An empty filePath renders the drop prompt.
func RunScreenshotMode(filePath, outPath string, cfg config.Config, selected []int) error {
	sess := session.NewWithPalette(cfg.Palette())
	if filePath != "" {
		ds, err := dataset.LoadFile(filePath)
		if err != nil {
			return err
		}
		sess.Load(ds)
	}
	if len(selected) > 0 {
		if err := sess.Apply(session.Click{Indices: selected}); err != nil {
			return fmt.Errorf("select %v: %w", selected, err)
		}
	}
	style := plot.Style{MarkerSize: cfg.Plot.MarkerSize, Opacity: cfg.Plot.Opacity, HitTolerance: cfg.Plot.HitTolerance}
	img, _, err := plot.Render(plot.Build(sess.Dataset(), sess.Selection(), style), cfg.Plot.Width, cfg.Plot.Height)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode %s: %w", outPath, err)
	}
	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	logging.Viewer.Infof("wrote %s (%dx%d)", outPath, cfg.Plot.Width, cfg.Plot.Height)
	return nil
}

// parseIndices reads "0,2, 5" into point indices.
func parseIndices(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad point index %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
