package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blasthits/hitviewer/src/dataset"
	"github.com/blasthits/hitviewer/src/export"
	"github.com/blasthits/hitviewer/src/logging"
	"github.com/blasthits/hitviewer/src/selection"
	"github.com/blasthits/hitviewer/src/session"
	"github.com/blasthits/hitviewer/src/types"
)

// selectPoints loads path into a session and clicks the requested points, the way a user
// would in the viewer.
func selectPoints(path string, indices []int, all bool, p selection.Palette) (*session.Session, error) {
	ds, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}
	sess := session.NewWithPalette(p)
	sess.Load(ds)
	if all {
		indices = allIndices(ds)
	}
	if len(indices) > 0 {
		if err := sess.Apply(session.Click{Indices: indices}); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func allIndices(ds *types.SampleDataset) []int {
	out := make([]int, ds.Len())
	for i := range out {
		out[i] = i
	}
	return out
}

func newExportCmd(a *app) *cobra.Command {
	var (
		indices []int
		all     bool
		out     string
		lenient bool
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the FASTA sequences matched by the selected points",
		Long: `Selects the given points (as a click on each would) and writes one FASTA
record per distinct matching query name, in first-seen order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := selectPoints(args[0], indices, all, a.cfg.Palette())
			if err != nil {
				return err
			}
			if sess.Selection().SelectedCount() == 0 {
				return fmt.Errorf("nothing selected: use --select or --all")
			}
			var buf bytes.Buffer
			skipped, err := export.Write(&buf, sess.Dataset(), sess.Selection(), lenient)
			if err != nil {
				return fmt.Errorf("%w (use --lenient to skip them)", err)
			}
			if len(skipped) > 0 {
				logging.Reader.Warnf("skipped %d name(s) without sequence: %v", len(skipped), skipped)
			}
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logging.Reader.Infof("wrote %d record(s) to %s", len(export.Names(sess.Dataset(), sess.Selection()))-len(skipped), out)
			return nil
		},
	}
	cmd.Flags().IntSliceVarP(&indices, "select", "s", nil, "point indices to select (comma separated)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "select every point")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file ("+export.Filename+" in the viewer); stdout when empty")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "skip names that have no sequence instead of failing")
	return cmd
}
