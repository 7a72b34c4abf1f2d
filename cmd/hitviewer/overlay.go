package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/blasthits/hitviewer/src/plot"
)

// plotOverlay sits on top of the chart image. It turns pointer positions into point
// indices using the geometry of the last render and rings the hovered marker.
type plotOverlay struct {
	widget.BaseWidget
	state *uiState
}

func newPlotOverlay(state *uiState) *plotOverlay {
	o := &plotOverlay{state: state}
	o.ExtendBaseWidget(o)
	return o
}

func (o *plotOverlay) CreateRenderer() fyne.WidgetRenderer {
	// background to ensure full hit-area for hover events
	bg := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 0})
	ring := canvas.NewCircle(color.Transparent)
	ring.StrokeColor = color.RGBA{R: 240, G: 240, B: 240, A: 230}
	ring.StrokeWidth = 1.5
	return &overlayRenderer{o: o, bg: bg, ring: ring, objs: []fyne.CanvasObject{bg, ring}}
}

type overlayRenderer struct {
	o    *plotOverlay
	bg   *canvas.Rectangle
	ring *canvas.Circle
	objs []fyne.CanvasObject
}

func (r *overlayRenderer) Destroy() {}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	st := r.o.state
	if st == nil || st.hovered < 0 {
		r.ring.Move(fyne.NewPos(-100, -100))
		r.ring.Resize(fyne.NewSize(0, 0))
		return
	}
	px, py, ok := st.geo.Center(st.hovered)
	if !ok {
		r.ring.Move(fyne.NewPos(-100, -100))
		r.ring.Resize(fyne.NewSize(0, 0))
		return
	}
	x, y := st.geo.ToView(px, py, size.Width, size.Height)
	_, _, _, _, scale := plot.ContainRect(float32(st.geo.Width), float32(st.geo.Height), size.Width, size.Height)
	d := float32(st.style.MarkerSize+4) * scale
	r.ring.Resize(fyne.NewSize(d, d))
	r.ring.Move(fyne.NewPos(x-d/2, y-d/2))
}

func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *overlayRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.bg.Refresh()
	r.ring.Refresh()
}

func (o *plotOverlay) pointsAt(pos fyne.Position) []int {
	size := o.Size()
	px, py, ok := o.state.geo.FromView(pos.X, pos.Y, size.Width, size.Height)
	if !ok {
		return nil
	}
	return o.state.geo.PointsAt(px, py)
}

func (o *plotOverlay) Tapped(ev *fyne.PointEvent) {
	toggle(o.state, o.pointsAt(ev.Position))
}

func (o *plotOverlay) MouseMoved(ev *desktop.MouseEvent) {
	size := o.Size()
	px, py, ok := o.state.geo.FromView(ev.Position.X, ev.Position.Y, size.Width, size.Height)
	idx := -1
	if ok {
		idx, ok = o.state.geo.NearestAt(px, py)
	}
	hover(o.state, idx, ok)
	o.Refresh()
}

func (o *plotOverlay) MouseIn(ev *desktop.MouseEvent) { o.MouseMoved(ev) }
func (o *plotOverlay) MouseOut() {
	hover(o.state, -1, false)
	o.Refresh()
}

var (
	_ desktop.Hoverable = (*plotOverlay)(nil)
	_ fyne.Tappable     = (*plotOverlay)(nil)
)
