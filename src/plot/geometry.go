package plot

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Geometry is where each point landed on a rendered image, in image pixels.
type Geometry struct {
	Width, Height int
	Box           chart.Box

	centers [][2]float64
	radius  float64
}

func newGeometry(w, h int, box chart.Box, xr, yr [2]float64, xs, ys []float64, radius float64) Geometry {
	g := Geometry{Width: w, Height: h, Box: box, radius: radius, centers: make([][2]float64, len(xs))}
	for i := range xs {
		g.centers[i] = [2]float64{
			float64(box.Left) + float64(translate(xs[i], xr, box.Width())),
			float64(box.Bottom) - float64(translate(ys[i], yr, box.Height())),
		}
	}
	return g
}

// translate mirrors go-chart's ContinuousRange.Translate so hit-testing agrees with the
// drawn markers to the pixel.
func translate(v float64, r [2]float64, domain int) int {
	delta := r[1] - r[0]
	if delta == 0 {
		return 0
	}
	return int(math.Ceil((v - r[0]) / delta * float64(domain)))
}

// Len is the number of mapped points.
func (g Geometry) Len() int { return len(g.centers) }

// Center returns the image-space centre of point i.
func (g Geometry) Center(i int) (float64, float64, bool) {
	if i < 0 || i >= len(g.centers) {
		return 0, 0, false
	}
	return g.centers[i][0], g.centers[i][1], true
}

// PointsAt returns every index whose marker sits on the nearest marker to (px,py), provided
// that marker is within the hit radius. Overlapping points are clicked together.
func (g Geometry) PointsAt(px, py float64) []int {
	best, ok := g.NearestAt(px, py)
	if !ok {
		return nil
	}
	bc := g.centers[best]
	var out []int
	for i, c := range g.centers {
		if c[0] == bc[0] && c[1] == bc[1] {
			out = append(out, i)
		}
	}
	return out
}

// NearestAt returns the closest point within the hit radius. Ties go to the lowest index.
func (g Geometry) NearestAt(px, py float64) (int, bool) {
	best := -1
	bestD := math.MaxFloat64
	for i, c := range g.centers {
		dx, dy := c[0]-px, c[1]-py
		d := dx*dx + dy*dy
		if d < bestD {
			bestD = d
			best = i
		}
	}
	if best < 0 || bestD > g.radius*g.radius {
		return -1, false
	}
	return best, true
}

// ContainRect computes where an imgW×imgH image is drawn inside a viewW×viewH area with
// contain scaling (aspect preserved, centred).
func ContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, drawW, drawH, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (viewW - drawW) / 2
	drawY = (viewH - drawH) / 2
	return
}

// FromView maps a position in a viewW×viewH widget showing this geometry's image with
// contain scaling back to image pixels. ok is false outside the drawn image.
func (g Geometry) FromView(x, y, viewW, viewH float32) (px, py float64, ok bool) {
	if g.Width <= 0 || g.Height <= 0 {
		return 0, 0, false
	}
	dx, dy, dw, dh, scale := ContainRect(float32(g.Width), float32(g.Height), viewW, viewH)
	if x < dx || x > dx+dw || y < dy || y > dy+dh || scale <= 0 {
		return 0, 0, false
	}
	return float64((x - dx) / scale), float64((y - dy) / scale), true
}

// ToView is the inverse of FromView.
func (g Geometry) ToView(px, py float64, viewW, viewH float32) (float32, float32) {
	dx, dy, _, _, scale := ContainRect(float32(g.Width), float32(g.Height), viewW, viewH)
	return dx + float32(px)*scale, dy + float32(py)*scale
}
