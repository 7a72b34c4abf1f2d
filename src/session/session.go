// Package session owns the viewer's mutable state: the loaded sample, its selection and
// the hover text. The plot and the controls send typed events to Apply; nothing else
// mutates the state.
//
// A Session is not safe for concurrent use. The viewer only touches it from the UI
// thread; background file reads hand their result back through FinishIngest on that
// thread.
package session

import (
	"fmt"

	"github.com/blasthits/hitviewer/src/dataset"
	"github.com/blasthits/hitviewer/src/export"
	"github.com/blasthits/hitviewer/src/logging"
	"github.com/blasthits/hitviewer/src/selection"
	"github.com/blasthits/hitviewer/src/types"
)

var log = logging.New("session")

// Event is a widget or control interaction reduced by Apply.
type Event interface{ isEvent() }

// Click toggles every listed point. A click on overlapping markers lists all of them.
type Click struct{ Indices []int }

// Hover reports the point under the cursor. OK is false when no point is under it.
type Hover struct {
	Index int
	OK    bool
}

// ClearSelection unselects every point.
type ClearSelection struct{}

// Search carries the subject search box text. It is logged only.
type Search struct{ Text string }

func (Click) isEvent()          {}
func (Hover) isEvent()          {}
func (ClearSelection) isEvent() {}
func (Search) isEvent()         {}

// Controls is the enabled state of the selection buttons.
type Controls struct {
	ClearEnabled  bool
	ExportEnabled bool
}

// Session is the state of one viewer window.
type Session struct {
	dataset *types.SampleDataset
	sel     *selection.State
	hover   string
	palette selection.Palette

	// ingest generations: only the newest pending read may replace the dataset
	ingestGen   uint64
	pendingGens int
}

// New returns a session with no sample loaded.
func New() *Session {
	return NewWithPalette(selection.DefaultPalette())
}

// NewWithPalette is New with custom marker colors.
func NewWithPalette(p selection.Palette) *Session {
	return &Session{
		sel:     selection.New(0).WithPalette(p),
		hover:   types.NoHoverText,
		palette: p,
	}
}

// Dataset returns the loaded sample, or nil.
func (s *Session) Dataset() *types.SampleDataset { return s.dataset }

// Selection returns the selection for the loaded sample. It always covers exactly the
// loaded points.
func (s *Session) Selection() *selection.State { return s.sel }

// Loaded reports whether a sample has been loaded.
func (s *Session) Loaded() bool { return s.dataset != nil }

// HoverText returns the hover panel text.
func (s *Session) HoverText() string { return s.hover }

// Controls derives the button state from the selection.
func (s *Session) Controls() Controls {
	on := s.sel.ControlsEnabled()
	return Controls{ClearEnabled: on, ExportEnabled: on}
}

// Load replaces the sample and resets selection and hover. Loading nil returns the
// session to its empty state.
func (s *Session) Load(ds *types.SampleDataset) {
	s.dataset = ds
	s.sel = selection.New(ds.Len()).WithPalette(s.palette)
	s.hover = types.NoHoverText
	if ds == nil {
		return
	}
	if dangling := dataset.DanglingNames(ds); len(dangling) > 0 {
		log.Warnf("sample %q: %d matching query name(s) have no sequence: %v", ds.SampleName, len(dangling), dangling)
	}
	log.Infof("loaded sample %q: %d points, %d sequences", ds.SampleName, ds.Len(), len(ds.Sequences))
}

// Apply reduces one event into the state. An error means the event was rejected and
// the state is unchanged; callers log it and carry on.
func (s *Session) Apply(ev Event) error {
	switch e := ev.(type) {
	case Click:
		if err := s.sel.Toggle(e.Indices...); err != nil {
			log.Errorf("click ignored: %v", err)
			return err
		}
		log.Debugf("toggled %v; %d selected", e.Indices, s.sel.SelectedCount())
	case Hover:
		s.hover = s.hoverTextFor(e)
	case ClearSelection:
		s.sel.Clear()
	case Search:
		log.Debugf("search box change: %q", e.Text)
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
	return nil
}

func (s *Session) hoverTextFor(e Hover) string {
	if !e.OK || e.Index < 0 || e.Index >= s.dataset.Len() {
		return types.NoHoverText
	}
	p := s.dataset.Points[e.Index]
	if p.InfoText != "" {
		return p.InfoText
	}
	return p.HoverText
}

// Export encodes the selected sequences as FASTA.
func (s *Session) Export() ([]byte, error) {
	return export.FASTA(s.dataset, s.sel)
}

// BeginIngest registers a file read that is about to start and returns its generation.
func (s *Session) BeginIngest() uint64 {
	s.ingestGen++
	s.pendingGens++
	return s.ingestGen
}

// Pending reports whether any started read has not finished yet.
func (s *Session) Pending() bool { return s.pendingGens > 0 }

// FinishIngest completes the read started as gen. The newest read wins: a result from an
// older generation is dropped and reported as not applied. A failed read leaves the
// current sample untouched and returns its error.
func (s *Session) FinishIngest(gen uint64, ds *types.SampleDataset, readErr error) (bool, error) {
	if s.pendingGens > 0 {
		s.pendingGens--
	}
	if gen != s.ingestGen {
		log.Infof("discarding superseded file read (generation %d, newest %d)", gen, s.ingestGen)
		return false, nil
	}
	if readErr != nil {
		return false, readErr
	}
	if ds == nil {
		return false, fmt.Errorf("%w: empty result", dataset.ErrInvalidFormat)
	}
	s.Load(ds)
	return true, nil
}
