package session

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/blasthits/hitviewer/src/dataset"
	"github.com/blasthits/hitviewer/src/logging"
	"github.com/blasthits/hitviewer/src/selection"
	"github.com/blasthits/hitviewer/src/types"
)

func init() { logging.SetOutput(io.Discard) }

func mustParse(t *testing.T, doc string) *types.SampleDataset {
	t.Helper()
	ds, err := dataset.ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ds
}

const s1 = `{"sampleName":"S1","x":[10,20],"y":[0.9,0.5],"hoverText":["a","b"],
  "queries":{"q1":"ACGT","q2":"TTTT"},"matchingQueries":[["q1"],["q2"]],
  "infoText":["hover-a","hover-b"]}`

func pointsDoc(n int) string {
	var b strings.Builder
	b.WriteString(`{"sampleName":"N","x":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("1")
	}
	b.WriteString(`],"y":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("0.5")
	}
	b.WriteString(`],"hoverText":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"h"`)
	}
	b.WriteString(`],"queries":{},"matchingQueries":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`[]`)
	}
	b.WriteString(`]}`)
	return b.String()
}

func TestNewSession_Empty(t *testing.T) {
	s := New()
	if s.Loaded() || s.Dataset() != nil {
		t.Fatalf("fresh session should be unloaded")
	}
	if s.HoverText() != types.NoHoverText {
		t.Fatalf("hover=%q", s.HoverText())
	}
	if c := s.Controls(); c.ClearEnabled || c.ExportEnabled {
		t.Fatalf("controls enabled on empty session: %+v", c)
	}
	if err := s.Apply(Click{Indices: []int{0}}); !errors.Is(err, selection.ErrIndexOutOfRange) {
		t.Fatalf("click on empty session: %v", err)
	}
}

func TestLoad_SelectionMatchesPointCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17} {
		s := New()
		s.Load(mustParse(t, pointsDoc(n)))
		if s.Selection().Len() != n {
			t.Fatalf("n=%d: selection len=%d", n, s.Selection().Len())
		}
		if s.Selection().SelectedCount() != 0 {
			t.Fatalf("n=%d: selection not empty after load", n)
		}
	}
}

func TestApply_ClickControlsAndExport(t *testing.T) {
	s := New()
	s.Load(mustParse(t, s1))
	if err := s.Apply(Click{Indices: []int{0}}); err != nil {
		t.Fatal(err)
	}
	if c := s.Controls(); !c.ClearEnabled || !c.ExportEnabled {
		t.Fatalf("controls should be enabled: %+v", c)
	}
	out, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != ">q1\nACGT" {
		t.Fatalf("export=%q", out)
	}
	if err := s.Apply(ClearSelection{}); err != nil {
		t.Fatal(err)
	}
	if c := s.Controls(); c.ClearEnabled || c.ExportEnabled {
		t.Fatalf("controls should be disabled after clear: %+v", c)
	}
}

func TestApply_OutOfRangeClickRejected(t *testing.T) {
	s := New()
	s.Load(mustParse(t, s1))
	_ = s.Apply(Click{Indices: []int{1}})
	err := s.Apply(Click{Indices: []int{0, 2}})
	if !errors.Is(err, selection.ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}
	if got := s.Selection().Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("state changed by rejected click: %v", got)
	}
}

func TestApply_Hover(t *testing.T) {
	s := New()
	s.Load(mustParse(t, s1))
	cases := []struct {
		ev   Hover
		want string
	}{
		{Hover{Index: 1, OK: true}, "hover-b"},
		{Hover{Index: 0, OK: true}, "hover-a"},
		{Hover{OK: false}, types.NoHoverText},
		{Hover{Index: 2, OK: true}, types.NoHoverText},
		{Hover{Index: -1, OK: true}, types.NoHoverText},
	}
	for _, tc := range cases {
		if err := s.Apply(tc.ev); err != nil {
			t.Fatalf("hover %+v: %v", tc.ev, err)
		}
		if s.HoverText() != tc.want {
			t.Fatalf("hover %+v: got %q want %q", tc.ev, s.HoverText(), tc.want)
		}
	}
	// hover never touches the selection
	if s.Selection().SelectedCount() != 0 {
		t.Fatalf("hover changed selection")
	}
}

func TestApply_HoverFallsBackToHoverText(t *testing.T) {
	s := New()
	s.Load(mustParse(t, `{"sampleName":"S","x":[1],"y":[0.2],"hoverText":["short"],"queries":{},"matchingQueries":[[]]}`))
	_ = s.Apply(Hover{Index: 0, OK: true})
	if s.HoverText() != "short" {
		t.Fatalf("hover=%q", s.HoverText())
	}
	// Hovering before any load is harmless.
	empty := New()
	if err := empty.Apply(Hover{Index: 3, OK: true}); err != nil || empty.HoverText() != types.NoHoverText {
		t.Fatalf("hover on empty session: %q %v", empty.HoverText(), err)
	}
}

func TestApply_SearchDoesNotMutate(t *testing.T) {
	s := New()
	s.Load(mustParse(t, s1))
	_ = s.Apply(Click{Indices: []int{1}})
	if err := s.Apply(Search{Text: "gi|42"}); err != nil {
		t.Fatal(err)
	}
	if s.Selection().SelectedCount() != 1 || s.Dataset().Len() != 2 {
		t.Fatalf("search mutated state")
	}
}

func TestLoad_SecondDatasetResets(t *testing.T) {
	s := New()
	s.Load(mustParse(t, s1))
	_ = s.Apply(Click{Indices: []int{0, 1}})
	_ = s.Apply(Hover{Index: 1, OK: true})
	s.Load(mustParse(t, pointsDoc(3)))
	if s.Selection().Len() != 3 || s.Selection().SelectedCount() != 0 {
		t.Fatalf("selection not reset: len=%d count=%d", s.Selection().Len(), s.Selection().SelectedCount())
	}
	if s.HoverText() != types.NoHoverText {
		t.Fatalf("hover not reset: %q", s.HoverText())
	}
}

func TestFinishIngest_FailureKeepsPriorState(t *testing.T) {
	s := New()
	s.Load(mustParse(t, s1))
	_ = s.Apply(Click{Indices: []int{1}})
	gen := s.BeginIngest()
	_, perr := dataset.ParseBytes([]byte("not json"))
	applied, err := s.FinishIngest(gen, nil, perr)
	if applied || !errors.Is(err, dataset.ErrInvalidFormat) {
		t.Fatalf("applied=%v err=%v", applied, err)
	}
	if s.Dataset().SampleName != "S1" || s.Selection().SelectedCount() != 1 {
		t.Fatalf("prior state lost")
	}
	if s.Pending() {
		t.Fatalf("no read should be pending")
	}
}

func TestFinishIngest_LatestDropWins(t *testing.T) {
	s := New()
	first := s.BeginIngest()
	second := s.BeginIngest()
	if !s.Pending() {
		t.Fatalf("reads should be pending")
	}
	applied, err := s.FinishIngest(second, mustParse(t, pointsDoc(4)), nil)
	if !applied || err != nil {
		t.Fatalf("newest read not applied: %v %v", applied, err)
	}
	applied, err = s.FinishIngest(first, mustParse(t, s1), nil)
	if applied || err != nil {
		t.Fatalf("stale read applied: %v %v", applied, err)
	}
	if s.Dataset().SampleName != "N" || s.Dataset().Len() != 4 {
		t.Fatalf("stale read replaced newer dataset: %q", s.Dataset().SampleName)
	}
	if s.Pending() {
		t.Fatalf("all reads finished")
	}
}
