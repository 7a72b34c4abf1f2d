// Package types holds the data model shared by the loader, the selection state,
// the exporter and the plot adapter.
package types

// NoHoverText is shown in the hover panel when no point is under the cursor.
const NoHoverText = "No node hovered"

// Point is one plotted hit. Its index in SampleDataset.Points is its identity.
type Point struct {
	X         float64 // match length
	Y         float64 // identity fraction, 0 <= Y <= 1
	HoverText string
	// InfoText is the longer per-point detail (may carry <br>/<strong> markup); empty when
	// the input file has no infoText array.
	InfoText string
	// MatchingQueries are the sequence names this point stands for. Several sequences can
	// share one plotted coordinate.
	MatchingQueries []string
}

// SampleDataset is one sample's search hits as loaded from a single file.
type SampleDataset struct {
	SampleName string
	Points     []Point
	Sequences  map[string]string
}

// Len returns the number of points (0 for a nil dataset).
func (d *SampleDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Points)
}

// Xs returns the match lengths in point order.
func (d *SampleDataset) Xs() []float64 {
	out := make([]float64, d.Len())
	for i := range out {
		out[i] = d.Points[i].X
	}
	return out
}

// Ys returns the identity fractions in point order.
func (d *SampleDataset) Ys() []float64 {
	out := make([]float64, d.Len())
	for i := range out {
		out[i] = d.Points[i].Y
	}
	return out
}

// HoverTexts returns the short per-point labels in point order.
func (d *SampleDataset) HoverTexts() []string {
	out := make([]string, d.Len())
	for i := range out {
		out[i] = d.Points[i].HoverText
	}
	return out
}
