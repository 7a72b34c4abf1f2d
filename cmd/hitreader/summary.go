package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blasthits/hitviewer/src/dataset"
	"github.com/blasthits/hitviewer/src/types"
)

// Summary is what `hitreader summary` reports about one file.
type Summary struct {
	File         string     `json:"file" yaml:"file"`
	SizeBytes    uint64     `json:"sizeBytes" yaml:"sizeBytes"`
	SampleName   string     `json:"sampleName" yaml:"sampleName"`
	Points       int        `json:"points" yaml:"points"`
	Sequences    int        `json:"sequences" yaml:"sequences"`
	LengthRange  [2]float64 `json:"lengthRange" yaml:"lengthRange"`
	IdentityMean float64    `json:"identityMean" yaml:"identityMean"`
	Dangling     []string   `json:"dangling,omitempty" yaml:"dangling,omitempty"`
}

// Summarize describes ds as loaded from path.
func Summarize(path string, size int64, ds *types.SampleDataset) Summary {
	s := Summary{
		File:       path,
		SampleName: ds.SampleName,
		Points:     ds.Len(),
		Sequences:  len(ds.Sequences),
		Dangling:   dataset.DanglingNames(ds),
	}
	if size > 0 {
		s.SizeBytes = uint64(size)
	}
	for i, p := range ds.Points {
		if i == 0 || p.X < s.LengthRange[0] {
			s.LengthRange[0] = p.X
		}
		if i == 0 || p.X > s.LengthRange[1] {
			s.LengthRange[1] = p.X
		}
		s.IdentityMean += p.Y
	}
	if n := ds.Len(); n > 0 {
		s.IdentityMean /= float64(n)
	}
	return s
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	labelStyle = lipgloss.NewStyle().Bold(true).Width(14)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// writeText prints s as aligned label/value lines.
func writeText(w io.Writer, s Summary) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sample "+s.SampleName) + "\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("File", fmt.Sprintf("%s %s", s.File, dimStyle.Render("("+humanize.Bytes(s.SizeBytes)+")")))
	row("Points", humanize.Comma(int64(s.Points)))
	row("Sequences", humanize.Comma(int64(s.Sequences)))
	if s.Points > 0 {
		row("Length", fmt.Sprintf("%s .. %s", humanize.Ftoa(s.LengthRange[0]), humanize.Ftoa(s.LengthRange[1])))
		row("Identity", fmt.Sprintf("%.3f mean", s.IdentityMean))
	}
	if len(s.Dangling) > 0 {
		row("No sequence", strings.Join(s.Dangling, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(w io.Writer, s Summary, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		return writeText(w, s)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Print sample name, point and sequence counts of a hits file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ds, err := dataset.LoadFile(path)
			if err != nil {
				return err
			}
			var size int64
			if fi, err := os.Stat(path); err == nil {
				size = fi.Size()
			}
			return writeSummary(cmd.OutOrStdout(), Summarize(path, size, ds), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}
