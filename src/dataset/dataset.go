// Package dataset parses a sample's hit file into a types.SampleDataset.
//
// The file is a single JSON object whose point arrays (x, y, hoverText,
// matchingQueries and the optional infoText) are index aligned. Anything that is not
// JSON, or that breaks the alignment, is reported as ErrInvalidFormat and nothing is
// returned, so callers can keep whatever dataset they already had.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/blasthits/hitviewer/src/types"
)

var (
	// ErrInvalidFormat marks input that is not JSON or does not have the hit file shape.
	ErrInvalidFormat = errors.New("invalid hit file format")
	// ErrMultipleFiles is returned when more than one file is offered in one drop.
	ErrMultipleFiles = errors.New("only one file can be loaded at a time")
	// ErrNoFile is returned when a drop carries no file.
	ErrNoFile = errors.New("no file given")
)

// MaxFileBytes bounds how much of a file is read before giving up.
const MaxFileBytes = 256 << 20

// rawFile mirrors the on-disk JSON. Pointers distinguish "missing" from "empty".
type rawFile struct {
	SampleName      *string           `json:"sampleName"`
	X               *[]float64        `json:"x"`
	Y               *[]float64        `json:"y"`
	HoverText       *[]string         `json:"hoverText"`
	Text            *[]string         `json:"text"` // older converter output
	Queries         map[string]string `json:"queries"`
	MatchingQueries *[][]string       `json:"matchingQueries"`
	InfoText        *[]string         `json:"infoText"`
	// Subjects is written by the older converter; it is accepted and unused.
	Subjects map[string]string `json:"subjects"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidFormat, fmt.Sprintf(format, args...))
}

// Parse decodes and validates one hit file.
func Parse(r io.Reader) (*types.SampleDataset, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read hit file: %w", err)
	}
	if len(b) > MaxFileBytes {
		return nil, invalid("file larger than %d bytes", MaxFileBytes)
	}
	return ParseBytes(b)
}

// ParseBytes is Parse for an in-memory document.
func ParseBytes(b []byte) (*types.SampleDataset, error) {
	var raw rawFile
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&raw); err != nil {
		return nil, invalid("%v", err)
	}
	// Anything but whitespace after the object, a stray '}' included, is not a hit file.
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid("unexpected data after JSON object")
	}
	return build(&raw)
}

func build(raw *rawFile) (*types.SampleDataset, error) {
	if raw.SampleName == nil || strings.TrimSpace(*raw.SampleName) == "" {
		return nil, invalid("missing sampleName")
	}
	if raw.X == nil {
		return nil, invalid("missing x")
	}
	if raw.Y == nil {
		return nil, invalid("missing y")
	}
	hover := raw.HoverText
	if hover == nil {
		hover = raw.Text
	}
	if hover == nil {
		return nil, invalid("missing hoverText")
	}
	if raw.MatchingQueries == nil {
		return nil, invalid("missing matchingQueries")
	}
	if raw.Queries == nil {
		return nil, invalid("missing queries")
	}
	n := len(*raw.X)
	lengths := []struct {
		name string
		n    int
	}{
		{"y", len(*raw.Y)},
		{"hoverText", len(*hover)},
		{"matchingQueries", len(*raw.MatchingQueries)},
	}
	if raw.InfoText != nil {
		lengths = append(lengths, struct {
			name string
			n    int
		}{"infoText", len(*raw.InfoText)})
	}
	for _, l := range lengths {
		if l.n != n {
			return nil, invalid("%s has %d entries, x has %d", l.name, l.n, n)
		}
	}

	ds := &types.SampleDataset{
		SampleName: *raw.SampleName,
		Points:     make([]types.Point, n),
		Sequences:  make(map[string]string, len(raw.Queries)),
	}
	for name, seq := range raw.Queries {
		ds.Sequences[name] = seq
	}
	for i := 0; i < n; i++ {
		x, y := (*raw.X)[i], (*raw.Y)[i]
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, invalid("x[%d] is not finite", i)
		}
		if math.IsNaN(y) || y < 0 || y > 1 {
			return nil, invalid("y[%d]=%v outside [0,1]", i, y)
		}
		p := types.Point{
			X:               x,
			Y:               y,
			HoverText:       (*hover)[i],
			MatchingQueries: uniqueNames((*raw.MatchingQueries)[i]),
		}
		if raw.InfoText != nil {
			p.InfoText = (*raw.InfoText)[i]
		}
		ds.Points[i] = p
	}
	return ds, nil
}

// uniqueNames drops repeated names within one point, keeping first occurrences.
func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// LoadFile opens and parses path.
func LoadFile(path string) (*types.SampleDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// SingleFile enforces the one-file-per-drop policy and returns the only entry.
func SingleFile[T any](items []T) (T, error) {
	var zero T
	switch len(items) {
	case 0:
		return zero, ErrNoFile
	case 1:
		return items[0], nil
	default:
		return zero, fmt.Errorf("%w (got %d)", ErrMultipleFiles, len(items))
	}
}

// DanglingNames lists matching-query names that have no sequence, sorted. Exporting a
// point that references one of them fails.
func DanglingNames(ds *types.SampleDataset) []string {
	if ds == nil {
		return nil
	}
	set := map[string]struct{}{}
	for _, p := range ds.Points {
		for _, name := range p.MatchingQueries {
			if _, ok := ds.Sequences[name]; !ok {
				set[name] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
