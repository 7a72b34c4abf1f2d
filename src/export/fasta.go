// Package export turns the current selection into a FASTA document.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blasthits/hitviewer/src/selection"
	"github.com/blasthits/hitviewer/src/types"
)

const (
	// Filename is the default name offered when saving an export.
	Filename = "file.fasta"
	// MIMEType is the type the export is delivered as.
	MIMEType = "application/text"
)

// ErrMissingSequence is returned when a selected point names a sequence that the
// dataset does not carry.
var ErrMissingSequence = errors.New("selected sequence missing from dataset")

// Names returns the unique sequence names behind the selected points. Order is first
// occurrence: ascending point index, then the point's own name order.
func Names(ds *types.SampleDataset, sel *selection.State) []string {
	if ds == nil || sel == nil {
		return nil
	}
	var out []string
	seen := map[string]struct{}{}
	for _, i := range sel.Selected() {
		if i >= ds.Len() {
			break
		}
		for _, name := range ds.Points[i].MatchingQueries {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// FASTA encodes one record per unique selected name: a ">name" line followed by the
// sequence line, lines joined with "\n" and no trailing newline. An empty selection
// yields an empty document.
func FASTA(ds *types.SampleDataset, sel *selection.State) ([]byte, error) {
	names := Names(ds, sel)
	lines := make([]string, 0, 2*len(names))
	for _, name := range names {
		seq, ok := ds.Sequences[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingSequence, name)
		}
		lines = append(lines, ">"+name, seq)
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// FASTALenient is FASTA that skips names without a sequence and reports them instead
// of failing.
func FASTALenient(ds *types.SampleDataset, sel *selection.State) ([]byte, []string) {
	var skipped []string
	var lines []string
	for _, name := range Names(ds, sel) {
		seq, ok := ds.Sequences[name]
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		lines = append(lines, ">"+name, seq)
	}
	return []byte(strings.Join(lines, "\n")), skipped
}

// Write encodes the selection to w. With lenient set, missing sequences are skipped and
// returned; otherwise they fail the export before anything is written.
func Write(w io.Writer, ds *types.SampleDataset, sel *selection.State, lenient bool) ([]string, error) {
	var (
		b       []byte
		skipped []string
		err     error
	)
	if lenient {
		b, skipped = FASTALenient(ds, sel)
	} else if b, err = FASTA(ds, sel); err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return skipped, fmt.Errorf("write fasta: %w", err)
	}
	return skipped, nil
}
