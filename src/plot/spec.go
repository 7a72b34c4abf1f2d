// Package plot maps a loaded sample and its selection onto a scatter plot description
// (PlotSpec), renders it with go-chart, and maps pointer positions on the rendered image
// back to point indices.
package plot

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/blasthits/hitviewer/src/selection"
	"github.com/blasthits/hitviewer/src/types"
)

const (
	// EmptyTitle is shown before any sample is loaded.
	EmptyTitle = "To get started, drop a JSON file on this window"
	XTitle     = "Match length"
	YTitle     = "Match identity fraction"
)

// Style is the marker appearance shared by every point.
type Style struct {
	MarkerSize   float64 // diameter, pixels
	Opacity      float64 // 0..1
	HitTolerance float64 // pixels beyond the marker edge that still hit it
}

// DefaultStyle matches the viewer defaults in the config package.
func DefaultStyle() Style {
	return Style{MarkerSize: 9, Opacity: 0.4, HitTolerance: 6}
}

// PlotSpec is everything the renderer needs for one frame.
type PlotSpec struct {
	Title  string
	XTitle string
	YTitle string

	X      []float64
	Y      []float64
	Text   []string
	Colors []drawing.Color

	XRange [2]float64
	YRange [2]float64
	XTicks []float64
	YTicks []float64

	Style  Style
	Loaded bool
}

// Len is the number of plotted points.
func (p PlotSpec) Len() int { return len(p.X) }

// Empty is the placeholder shown before the first load.
func Empty(style Style) PlotSpec {
	return PlotSpec{
		Title:  EmptyTitle,
		XTitle: XTitle,
		YTitle: YTitle,
		XRange: [2]float64{0, 1},
		YRange: [2]float64{0, 1},
		XTicks: niceTicks(0, 1, 6),
		YTicks: identityTicks(),
		Style:  style,
	}
}

// Build is the loaded variant. The marker colors are regenerated from sel in full.
func Build(ds *types.SampleDataset, sel *selection.State, style Style) PlotSpec {
	if ds == nil {
		return Empty(style)
	}
	xs := ds.Xs()
	spec := PlotSpec{
		Title:  "Sample " + ds.SampleName,
		XTitle: XTitle,
		YTitle: YTitle,
		X:      xs,
		Y:      ds.Ys(),
		Text:   ds.HoverTexts(),
		YRange: [2]float64{0, 1},
		YTicks: identityTicks(),
		Style:  style,
		Loaded: true,
	}
	if sel != nil {
		spec.Colors = sel.Colors()
	}
	lo, hi := xBounds(xs)
	spec.XTicks = niceTicks(lo, hi, 8)
	spec.XRange = [2]float64{spec.XTicks[0], spec.XTicks[len(spec.XTicks)-1]}
	return spec
}

// xBounds pads the data extent to round numbers. Match lengths are never negative, so the
// lower bound does not drop below zero for non-negative data.
func xBounds(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 1
	}
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, x := range xs {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	lo, hi := niceAxisBounds(min, max)
	if min >= 0 && lo < 0 {
		lo = 0
	}
	return lo, hi
}

// identityTicks are fixed: identity fraction is bounded by definition.
func identityTicks() []float64 {
	out := make([]float64, 11)
	for i := range out {
		out[i] = roundDecimals(float64(i)/10, 1)
	}
	return out
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks returns tick positions covering [min,max] on a 1/2/2.5/5 step. The first and
// last ticks enclose the interval; the renderer uses them as the axis range.
func niceTicks(min, max float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	// Ticks are whole multiples of the step, rounded one decimal place below its magnitude.
	decimals := 0
	if mag < 1 {
		decimals = int(math.Round(-math.Log10(mag))) + 1
	}
	// min/step can land a hair off a whole number; don't add a tick for that.
	first := math.Floor(min/bestStep + 1e-9)
	last := math.Ceil(max/bestStep - 1e-9)
	out := make([]float64, 0, int(last-first)+1)
	for k := first; k <= last; k++ {
		out = append(out, roundDecimals(k*bestStep, decimals))
	}
	return out
}

// roundDecimals rounds v to d decimal places.
func roundDecimals(v float64, d int) float64 {
	p := math.Pow(10, float64(d))
	return math.Round(v*p) / p
}
