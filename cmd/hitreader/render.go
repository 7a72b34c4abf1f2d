package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/blasthits/hitviewer/src/logging"
	"github.com/blasthits/hitviewer/src/plot"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		indices       []int
		out           string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render the scatter plot of a hits file to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := selectPoints(args[0], indices, false, a.cfg.Palette())
			if err != nil {
				return err
			}
			w, h := a.cfg.Plot.Width, a.cfg.Plot.Height
			if width > 0 {
				w = width
			}
			if height > 0 {
				h = height
			}
			style := plot.Style{MarkerSize: a.cfg.Plot.MarkerSize, Opacity: a.cfg.Plot.Opacity, HitTolerance: a.cfg.Plot.HitTolerance}
			img, _, err := plot.Render(plot.Build(sess.Dataset(), sess.Selection(), style), w, h)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return fmt.Errorf("png encode %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			logging.Reader.Infof("wrote %s (%dx%d)", out, w, h)
			return nil
		},
	}
	cmd.Flags().IntSliceVarP(&indices, "select", "s", nil, "point indices to draw as selected")
	cmd.Flags().StringVarP(&out, "out", "o", "hits.png", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "image width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "image height (default from config)")
	return cmd
}
