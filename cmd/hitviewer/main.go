package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/blasthits/hitviewer/cmd/hitviewer/uihelpers"
	"github.com/blasthits/hitviewer/src/config"
	"github.com/blasthits/hitviewer/src/dataset"
	"github.com/blasthits/hitviewer/src/export"
	"github.com/blasthits/hitviewer/src/logging"
	"github.com/blasthits/hitviewer/src/plot"
	"github.com/blasthits/hitviewer/src/session"
	"github.com/blasthits/hitviewer/src/types"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	cfg      config.Config
	style    plot.Style
	sess     *session.Session
	filePath string

	// last rendered frame; imgCanvas shows frame with the hover hint drawn on it
	imgCanvas *canvas.Image
	overlay   *plotOverlay
	spec      plot.PlotSpec
	frame     image.Image
	geo       plot.Geometry
	hovered   int
	hint      string

	fileLabel   *widget.Label
	statusLabel *widget.Label
	infoLabel   *widget.Label
	searchEntry *widget.Entry
	clearBtn    *widget.Button
	exportBtn   *widget.Button
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var fileFlag, logLevel, configPath, screenshot, selectFlag string
	flag.StringVar(&fileFlag, "file", "", "Path to a sample hits JSON file to open at startup")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.StringVar(&configPath, "config", "", "Optional config file (yaml, json or toml)")
	flag.StringVar(&screenshot, "screenshot", "", "Render -file headlessly to this PNG path and exit")
	flag.StringVar(&selectFlag, "select", "", "With -screenshot: comma separated point indices to show selected")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if !logging.SetLogLevel(logLevel) {
		logging.Viewer.Warnf("unknown log level %q, keeping %s", logLevel, cfg.LogLevel)
	}

	if screenshot != "" {
		indices, err := parseIndices(selectFlag)
		if err == nil {
			err = RunScreenshotMode(fileFlag, screenshot, cfg, indices)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.blasthits.hitviewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Hit Viewer")
	w.Resize(fyne.NewSize(float32(cfg.Plot.Width), float32(cfg.Plot.Height)+160))

	state := newUIState(a, w, cfg)
	w.SetContent(buildContent(state))
	buildMenus(state)
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) { onDropped(state, uris) })

	// Redraw the plot on window resize so it scales with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() { close(done) })
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() { redraw(state) })
					}
				}
			}
		}()
	}

	redraw(state)
	if fileFlag != "" {
		loadPath(state, fileFlag)
	}
	w.ShowAndRun()
}

func newUIState(a fyne.App, w fyne.Window, cfg config.Config) *uiState {
	state := &uiState{
		app:     a,
		window:  w,
		cfg:     cfg,
		style:   plot.Style{MarkerSize: cfg.Plot.MarkerSize, Opacity: cfg.Plot.Opacity, HitTolerance: cfg.Plot.HitTolerance},
		sess:    session.NewWithPalette(cfg.Palette()),
		hovered: -1,
	}
	state.imgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.imgCanvas.FillMode = canvas.ImageFillContain
	state.imgCanvas.SetMinSize(fyne.NewSize(640, 360))
	state.overlay = newPlotOverlay(state)

	state.fileLabel = widget.NewLabel("")
	state.statusLabel = widget.NewLabel(uihelpers.StatusLine("", 0, 0))
	state.infoLabel = widget.NewLabel(types.NoHoverText)
	state.infoLabel.Wrapping = fyne.TextWrapWord

	state.searchEntry = widget.NewEntry()
	state.searchEntry.SetPlaceHolder("Subject search")
	state.searchEntry.OnChanged = func(s string) { _ = state.sess.Apply(session.Search{Text: s}) }

	state.clearBtn = widget.NewButton("Clear", func() { clearSelection(state) })
	state.exportBtn = widget.NewButton("Export", func() { exportSelection(state) })
	updateControls(state)
	return state
}

func buildContent(state *uiState) fyne.CanvasObject {
	top := container.NewBorder(nil, nil, nil,
		container.NewHBox(state.clearBtn, state.exportBtn),
		state.searchEntry,
	)
	info := container.NewVBox(widget.NewLabelWithStyle("Info", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), state.infoLabel)
	chart := container.NewStack(state.imgCanvas, state.overlay)
	bottom := container.NewBorder(nil, nil, state.fileLabel, state.statusLabel)
	return container.NewBorder(top, container.NewVBox(info, bottom), nil, nil, chart)
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(uihelpers.TruncatePath(f, 60), func() { loadPath(state, f) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { reload(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Selection…", func() { exportSelection(state) }),
		fyne.NewMenuItem("Export Chart…", func() { exportChartPNG(state, "hits_chart.png") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	selMenu := fyne.NewMenu("Selection",
		fyne.NewMenuItem("Clear", func() { clearSelection(state) }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu, selMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openFileDialog(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { reload(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: mod}, func(fyne.Shortcut) { exportSelection(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		loadPath(state, path)
	}, state.window)
	d.Show()
}

func reload(state *uiState) {
	if state.filePath == "" {
		return
	}
	loadPath(state, state.filePath)
}

func onDropped(state *uiState, uris []fyne.URI) {
	u, err := dataset.SingleFile(uris)
	if err != nil {
		logging.Viewer.Warnf("drop rejected: %v", err)
		dialog.ShowError(err, state.window)
		return
	}
	loadPath(state, u.Path())
}

// loadPath reads path off the UI goroutine. Only the most recent request may replace the
// loaded sample.
func loadPath(state *uiState, path string) {
	gen := state.sess.BeginIngest()
	logging.Viewer.Infof("reading %s", path)
	updateControls(state)
	go func() {
		start := time.Now()
		ds, err := dataset.LoadFile(path)
		logging.Viewer.Since(start, "read "+path)
		fyne.Do(func() { finishLoad(state, gen, path, ds, err) })
	}()
}

func finishLoad(state *uiState, gen uint64, path string, ds *types.SampleDataset, readErr error) {
	applied, err := state.sess.FinishIngest(gen, ds, readErr)
	if err != nil {
		logging.Viewer.Errorf("load %s: %v", path, err)
		updateControls(state)
		if state.window != nil {
			dialog.ShowError(err, state.window)
		}
		return
	}
	if !applied {
		updateControls(state)
		return
	}
	state.filePath = path
	state.hovered = -1
	state.fileLabel.SetText(uihelpers.TruncatePath(path, 60))
	state.infoLabel.SetText(uihelpers.PlainText(state.sess.HoverText()))
	addRecentFile(state, path)
	buildMenus(state)
	redraw(state)
}

func clearSelection(state *uiState) {
	if err := state.sess.Apply(session.ClearSelection{}); err != nil {
		return
	}
	redraw(state)
}

// toggle applies a click on the given points and repaints every marker.
func toggle(state *uiState, indices []int) {
	if len(indices) == 0 {
		return
	}
	if err := state.sess.Apply(session.Click{Indices: indices}); err != nil {
		return
	}
	redraw(state)
}

func hover(state *uiState, idx int, ok bool) {
	if !ok {
		idx = -1
	}
	if idx == state.hovered {
		return
	}
	state.hovered = idx
	_ = state.sess.Apply(session.Hover{Index: idx, OK: ok})
	state.infoLabel.SetText(uihelpers.PlainText(state.sess.HoverText()))
	paintHint(state)
}

// paintHint shows the hovered point's hover text on the chart, next to the info panel
// which carries its info text.
func paintHint(state *uiState) {
	state.hint = ""
	if i := state.hovered; i >= 0 && i < len(state.spec.Text) {
		state.hint = uihelpers.OneLine(state.spec.Text[i])
	}
	state.imgCanvas.Image = plot.DrawHint(state.frame, state.hint)
	state.imgCanvas.Refresh()
}

func updateControls(state *uiState) {
	ctl := state.sess.Controls()
	setEnabled(state.clearBtn, ctl.ClearEnabled)
	setEnabled(state.exportBtn, ctl.ExportEnabled)
	if state.sess.Pending() {
		state.statusLabel.SetText(uihelpers.LoadingStatus)
		return
	}
	name, n := "", 0
	if ds := state.sess.Dataset(); ds != nil {
		name, n = ds.SampleName, ds.Len()
	}
	state.statusLabel.SetText(uihelpers.StatusLine(name, n, state.sess.Selection().SelectedCount()))
}

func setEnabled(b *widget.Button, on bool) {
	if b == nil {
		return
	}
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// chartSize picks the render size from the visible canvas width.
func chartSize(state *uiState) (int, int) {
	rawW := 0
	if state.imgCanvas != nil {
		rawW = int(state.imgCanvas.Size().Width)
	}
	if rawW <= 0 && state.window != nil && state.window.Canvas() != nil {
		rawW = int(state.window.Canvas().Size().Width) - 16
	}
	if rawW <= 0 {
		return state.cfg.Plot.Width, state.cfg.Plot.Height
	}
	return uihelpers.ComputeChartDimensions(rawW)
}

// redraw rebuilds the plot from the session. Marker colors are regenerated for every point.
func redraw(state *uiState) {
	w, h := chartSize(state)
	spec := plot.Build(state.sess.Dataset(), state.sess.Selection(), state.style)
	img, geo, err := plot.Render(spec, w, h)
	if err != nil {
		logging.Viewer.Errorf("render: %v", err)
		return
	}
	state.spec = spec
	state.geo = geo
	state.frame = img
	paintHint(state)
	if state.overlay != nil {
		state.overlay.Refresh()
	}
	updateControls(state)
}

func exportSelection(state *uiState) {
	if !state.sess.Controls().ExportEnabled {
		return
	}
	data, err := state.sess.Export()
	if errors.Is(err, export.ErrMissingSequence) {
		var skipped []string
		data, skipped = export.FASTALenient(state.sess.Dataset(), state.sess.Selection())
		logging.Viewer.Warnf("export: skipping %d name(s) without sequence: %v", len(skipped), skipped)
		dialog.ShowInformation("Export", fmt.Sprintf("Skipped %d name(s) without a sequence:\n%s", len(skipped), strings.Join(skipped, "\n")), state.window)
	} else if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if _, err := wc.Write(data); err != nil {
			dialog.ShowError(fmt.Errorf("write %s: %w", wc.URI().Path(), err), state.window)
			return
		}
		logging.Viewer.Infof("exported %d bytes (%s) to %s", len(data), export.MIMEType, wc.URI().Path())
	}, state.window)
	fs.SetFileName(export.Filename)
	fs.Show()
}

// export PNG
func exportChartPNG(state *uiState, defaultName string) {
	if state == nil || state.window == nil || state.frame == nil {
		return
	}
	img := state.frame
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	if state.app == nil {
		return
	}
	filtered := []string{path}
	for _, f := range recentFiles(state) {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs := state.app.Preferences()
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
	prefs.SetString("lastFile", path)
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}
