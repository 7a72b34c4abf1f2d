package selection

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

func TestNew_AllUnselected(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		s := New(n)
		if s.Len() != n {
			t.Fatalf("n=%d: Len=%d", n, s.Len())
		}
		if s.SelectedCount() != 0 || s.ControlsEnabled() {
			t.Fatalf("n=%d: fresh state has selection", n)
		}
		for i, c := range s.Colors() {
			if c != UnselectedColor {
				t.Fatalf("n=%d: color[%d]=%v", n, i, c)
			}
		}
	}
	if New(-3).Len() != 0 {
		t.Fatalf("negative size should clamp to 0")
	}
}

func TestToggle_SelfInverse(t *testing.T) {
	s := New(4)
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if !s.IsSelected(2) || s.SelectedCount() != 1 {
		t.Fatalf("toggle on failed")
	}
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if s.IsSelected(2) || s.SelectedCount() != 0 {
		t.Fatalf("second toggle should restore original value")
	}
}

func TestToggle_MultiPointEvent(t *testing.T) {
	s := New(5)
	if err := s.Toggle(0, 3, 3); err != nil {
		t.Fatal(err)
	}
	if got := s.Selected(); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Fatalf("selected=%v", got)
	}
	if err := s.Toggle(3, 4); err != nil {
		t.Fatal(err)
	}
	if got := s.Selected(); !reflect.DeepEqual(got, []int{0, 4}) {
		t.Fatalf("selected=%v", got)
	}
	if s.SelectedCount() != 2 {
		t.Fatalf("count=%d", s.SelectedCount())
	}
}

func TestToggle_OutOfRangeLeavesStateUntouched(t *testing.T) {
	s := New(3)
	if err := s.Toggle(1); err != nil {
		t.Fatal(err)
	}
	for _, bad := range [][]int{{3}, {-1}, {0, 3}, {2, 100}} {
		err := s.Toggle(bad...)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("indices %v: want ErrIndexOutOfRange, got %v", bad, err)
		}
		if got := s.Selected(); !reflect.DeepEqual(got, []int{1}) {
			t.Fatalf("indices %v: state changed to %v", bad, got)
		}
	}
	if err := New(0).Toggle(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("empty state should reject every index, got %v", err)
	}
}

func TestClear_Idempotent(t *testing.T) {
	s := New(6)
	_ = s.Toggle(0, 2, 5)
	s.Clear()
	once := append([]int(nil), s.Selected()...)
	onceColors := s.Colors()
	s.Clear()
	if !reflect.DeepEqual(once, s.Selected()) || !reflect.DeepEqual(onceColors, s.Colors()) {
		t.Fatalf("clear twice differs from clear once")
	}
	if s.SelectedCount() != 0 || s.ControlsEnabled() {
		t.Fatalf("controls should be disabled after clear")
	}
}

func TestControlsEnabledTracksCount(t *testing.T) {
	s := New(3)
	steps := []struct {
		toggle []int
		want   bool
	}{
		{[]int{0}, true},
		{[]int{1}, true},
		{[]int{0}, true},
		{[]int{1}, false},
	}
	for i, st := range steps {
		if err := s.Toggle(st.toggle...); err != nil {
			t.Fatal(err)
		}
		if s.ControlsEnabled() != st.want || (s.SelectedCount() > 0) != st.want {
			t.Fatalf("step %d: enabled=%v count=%d want %v", i, s.ControlsEnabled(), s.SelectedCount(), st.want)
		}
	}
}

func TestColorsRecomputedAfterMutation(t *testing.T) {
	s := New(3)
	before := s.Colors()
	_ = s.Toggle(1)
	after := s.Colors()
	if before[1] != UnselectedColor {
		t.Fatalf("earlier color slice must not be patched in place")
	}
	want := []drawing.Color{UnselectedColor, SelectedColor, UnselectedColor}
	for i := range after {
		if after[i] != want[i] {
			t.Fatalf("color[%d]=%v want %v", i, after[i], want[i])
		}
		if after[i] != s.ColorFor(i) {
			t.Fatalf("Colors and ColorFor disagree at %d", i)
		}
	}
}

func TestWithPalette(t *testing.T) {
	p := Palette{Selected: UnselectedColor, Unselected: SelectedColor}
	s := New(2).WithPalette(p)
	_ = s.Toggle(0)
	if s.ColorFor(0) != UnselectedColor || s.ColorFor(1) != SelectedColor {
		t.Fatalf("palette not applied: %v %v", s.ColorFor(0), s.ColorFor(1))
	}
}
