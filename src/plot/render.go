package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Render draws spec at w×h pixels and returns the image together with the geometry needed
// to hit-test pointer positions against it. A spec without points renders a placeholder
// carrying its title.
func Render(spec PlotSpec, w, h int) (image.Image, Geometry, error) {
	if w <= 0 || h <= 0 {
		return nil, Geometry{}, fmt.Errorf("invalid plot size %dx%d", w, h)
	}
	n := spec.Len()
	if len(spec.Y) != n || (spec.Colors != nil && len(spec.Colors) != n) {
		return nil, Geometry{}, fmt.Errorf("plot series length mismatch: x=%d y=%d colors=%d", n, len(spec.Y), len(spec.Colors))
	}
	if n == 0 {
		title := spec.Title
		if spec.Loaded {
			title += " (no hits)"
		}
		return placeholder(w, h, title), Geometry{Width: w, Height: h}, nil
	}

	colors := spec.Colors
	alpha := uint8(math.Round(clamp01(spec.Style.Opacity) * 255))
	dotColor := func(xr, yr chart.Range, index int, x, y float64) drawing.Color {
		c := drawing.ColorBlack
		if index >= 0 && index < len(colors) {
			c = colors[index]
		}
		return c.WithAlpha(alpha)
	}
	radius := spec.Style.MarkerSize / 2
	if radius <= 0 {
		radius = DefaultStyle().MarkerSize / 2
	}

	var plotBox chart.Box
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  spec.XTitle,
			Range: &chart.ContinuousRange{Min: spec.XRange[0], Max: spec.XRange[1]},
			Ticks: makeTicks(spec.XTicks),
		},
		YAxis: chart.YAxis{
			Name:  spec.YTitle,
			Range: &chart.ContinuousRange{Min: spec.YRange[0], Max: spec.YRange[1]},
			Ticks: makeTicks(spec.YTicks),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "hits",
				XValues: spec.X,
				YValues: spec.Y,
				Style: chart.Style{
					StrokeWidth:      chart.Disabled,
					DotWidth:         radius,
					DotColorProvider: dotColor,
				},
			},
		},
	}
	// Elements are drawn with the axis-adjusted canvas box, which is where the series went.
	ch.Elements = []chart.Renderable{func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		plotBox = cb
	}}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, Geometry{}, fmt.Errorf("render plot: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, Geometry{}, fmt.Errorf("decode plot: %w", err)
	}
	geo := newGeometry(w, h, plotBox, spec.XRange, spec.YRange, spec.X, spec.Y, radius+spec.Style.HitTolerance)
	return img, geo, nil
}

func makeTicks(vs []float64) []chart.Tick {
	out := make([]chart.Tick, len(vs))
	for i, v := range vs {
		out[i] = chart.Tick{Value: v, Label: formatTick(v)}
	}
	return out
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	case av < 0.01:
		return fmt.Sprintf("%.3g", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// blank returns a dark image matching the viewer theme.
func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255}), image.Point{}, draw.Src)
	return img
}

// placeholder is a blank image with the message centred on it.
func placeholder(w, h int, text string) image.Image {
	img := blank(w, h)
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 220, G: 220, B: 220, A: 255}), Face: face}
	lines := strings.Split(text, "\n")
	lineH := face.Metrics().Height.Ceil() + 4
	y := h/2 - (len(lines)*lineH)/2 + face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		tw := dr.MeasureString(line).Ceil()
		x := (w - tw) / 2
		if x < 4 {
			x = 4
		}
		dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
		dr.DrawString(line)
		y += lineH
	}
	return img
}

// DrawHint draws a small hint string onto img near the bottom-left.
func DrawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
