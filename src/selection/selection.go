// Package selection keeps the per-point selected flags for the loaded sample and
// derives the marker colors and control state from them.
package selection

import (
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrIndexOutOfRange is returned by Toggle for an index outside [0, Len).
var ErrIndexOutOfRange = errors.New("point index out of range")

var (
	// SelectedColor marks selected points.
	SelectedColor = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	// UnselectedColor marks every other point.
	UnselectedColor = drawing.Color{R: 0, G: 128, B: 0, A: 255}
)

// Palette is the pair of marker colors used by ColorFor.
type Palette struct {
	Selected   drawing.Color
	Unselected drawing.Color
}

// DefaultPalette is red for selected points and green otherwise.
func DefaultPalette() Palette {
	return Palette{Selected: SelectedColor, Unselected: UnselectedColor}
}

// State is one flag per point. The zero value is an empty selection over zero points.
type State struct {
	selected []bool
	count    int
	palette  Palette
}

// New returns a State for n points, none selected.
func New(n int) *State {
	if n < 0 {
		n = 0
	}
	return &State{selected: make([]bool, n), palette: DefaultPalette()}
}

// WithPalette sets the marker colors and returns s.
func (s *State) WithPalette(p Palette) *State {
	s.palette = p
	return s
}

// Len is the number of points covered.
func (s *State) Len() int { return len(s.selected) }

// Toggle flips each given index. All indices are checked first, so an out-of-range index
// leaves the state untouched. An index repeated within one call flips once.
func (s *State) Toggle(indices ...int) error {
	for _, i := range indices {
		if i < 0 || i >= len(s.selected) {
			return fmt.Errorf("%w: %d (points=%d)", ErrIndexOutOfRange, i, len(s.selected))
		}
	}
	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		s.selected[i] = !s.selected[i]
		if s.selected[i] {
			s.count++
		} else {
			s.count--
		}
	}
	return nil
}

// Clear unselects everything.
func (s *State) Clear() {
	for i := range s.selected {
		s.selected[i] = false
	}
	s.count = 0
}

// SelectedCount is the number of selected points.
func (s *State) SelectedCount() int { return s.count }

// ControlsEnabled reports whether Clear and Export should be enabled.
func (s *State) ControlsEnabled() bool { return s.count > 0 }

// IsSelected reports the flag at i; out-of-range indices are unselected.
func (s *State) IsSelected(i int) bool {
	return i >= 0 && i < len(s.selected) && s.selected[i]
}

// Selected returns the selected indices in ascending order.
func (s *State) Selected() []int {
	out := make([]int, 0, s.count)
	for i, v := range s.selected {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// ColorFor returns the marker color for point i.
func (s *State) ColorFor(i int) drawing.Color {
	if s.IsSelected(i) {
		return s.palette.Selected
	}
	return s.palette.Unselected
}

// Colors rebuilds the whole marker color array. The plot is always given a fresh copy.
func (s *State) Colors() []drawing.Color {
	out := make([]drawing.Color, len(s.selected))
	for i := range s.selected {
		out[i] = s.ColorFor(i)
	}
	return out
}
