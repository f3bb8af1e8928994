// Package figure assembles the multi-panel benchmark figure: line and bar
// charts drawn from CSV data next to visualisation frames, each panel tagged
// with a bold letter, rendered to PNG and PDF.
package figure

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/dataset"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/logging"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/recipe"
)

var (
	outerPad = vg.Points(6)
	tileGap  = vg.Points(10)
)

// Panel is one built cell of the figure.
type Panel struct {
	// Label is the panel letter: A, B, ... in recipe order.
	Label string
	Def   recipe.Panel
	// Data is the filtered table with derived columns. Nil for images.
	Data *dataset.Table

	plot   *plot.Plot
	aspect float64
}

// Columns returns the columns the panel plots: x, hue when set, then y.
func (p *Panel) Columns() []string {
	if p.Data == nil {
		return nil
	}
	cols := []string{p.Def.X}
	if p.Def.Hue != "" {
		cols = append(cols, p.Def.Hue)
	}
	return append(cols, p.Def.Y)
}

// Figure is a fully loaded figure, ready to render.
type Figure struct {
	Recipe *recipe.Recipe
	Panels []*Panel

	theme Theme
}

// Build loads every input the recipe names and builds its panels. Nothing is
// written; an unreadable input fails the whole figure.
func Build(ctx context.Context, rec *recipe.Recipe, inputDir, visDir string) (*Figure, error) {
	logger := logging.FromContext(ctx)

	f := &Figure{Recipe: rec, theme: White()}
	slot := vg.Length(rec.WidthIn/float64(rec.Cols)) * vg.Inch

	for i, def := range rec.Panels {
		panel := &Panel{Label: panelLabel(i), Def: def}

		switch def.Kind {
		case recipe.KindImage:
			img, err := decodeImage(filepath.Join(visDir, def.Image))
			if err != nil {
				return nil, fmt.Errorf("panel %s: %w", panel.Label, err)
			}
			b := img.Bounds()
			panel.plot = imagePlot(f.theme, img)
			panel.aspect = float64(b.Dx()) / float64(b.Dy())

		default:
			t, err := loadPanelData(def, filepath.Join(inputDir, def.CSV))
			if err != nil {
				return nil, fmt.Errorf("panel %s: %w", panel.Label, err)
			}
			panel.Data = t
			if def.Kind == recipe.KindBar {
				panel.plot, err = barPlot(f.theme, def, t, slot)
			} else {
				panel.plot, err = linePlot(f.theme, def, t)
			}
			if err != nil {
				return nil, fmt.Errorf("panel %s: %w", panel.Label, err)
			}
		}

		logger.Debug("built panel", "label", panel.Label, "kind", def.Kind, "row", def.Row, "col", def.Col)
		f.Panels = append(f.Panels, panel)
	}
	return f, nil
}

// panelLabel names the i-th panel: A..Z, then AA, AB, ...
func panelLabel(i int) string {
	s := ""
	for i++; i > 0; i = (i - 1) / 26 {
		s = string(rune('A'+(i-1)%26)) + s
	}
	return s
}

// Size returns the figure dimensions.
func (f *Figure) Size() (w, h vg.Length) {
	return vg.Length(f.Recipe.WidthIn) * vg.Inch, vg.Length(f.Recipe.HeightIn) * vg.Inch
}

// Render draws the figure onto dc. Empty cells stay blank.
func (f *Figure) Render(dc draw.Canvas) {
	dc.SetColor(f.theme.Background)
	dc.Fill(dc.Rectangle.Path())

	grid := make([][]*plot.Plot, f.Recipe.Rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, f.Recipe.Cols)
	}
	for _, p := range f.Panels {
		grid[p.Def.Row][p.Def.Col] = p.plot
	}

	tiles := draw.Tiles{
		Rows:      f.Recipe.Rows,
		Cols:      f.Recipe.Cols,
		PadTop:    outerPad,
		PadBottom: outerPad,
		PadLeft:   outerPad,
		PadRight:  outerPad,
		PadX:      tileGap,
		PadY:      tileGap,
	}
	canvases := plot.Align(grid, tiles, dc)

	labelStyle := f.theme.panelLabelStyle()
	band := labelStyle.Height("A") + vg.Points(2)

	for _, p := range f.Panels {
		c := canvases[p.Def.Row][p.Def.Col]
		c.Max.Y -= band
		if p.aspect > 0 {
			c = fitAspect(c, p.aspect)
		}
		dc.FillText(labelStyle, vg.Point{X: c.Min.X, Y: c.Max.Y + band}, p.Label)
		p.plot.Draw(c)
	}
}

// WritePNG renders the figure as a PNG raster at dpi.
func (f *Figure) WritePNG(w io.Writer, dpi int) error {
	width, height := f.Size()
	c := vgimg.NewWith(
		vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(f.theme.Background),
	)
	f.Render(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WritePDF renders the figure as a vector PDF. Image panels are embedded at
// their native resolution.
func (f *Figure) WritePDF(w io.Writer) error {
	width, height := f.Size()
	c := vgpdf.New(width, height)
	f.Render(draw.New(c))
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode pdf: %w", err)
	}
	return nil
}

// Save writes the outputs the recipe names into dir and returns their paths.
func (f *Figure) Save(ctx context.Context, dir string, dpi int) ([]string, error) {
	logger := logging.FromContext(ctx)

	var paths []string
	pngPath := filepath.Join(dir, f.Recipe.Outputs.PNG)
	if err := writeFile(pngPath, func(w io.Writer) error { return f.WritePNG(w, dpi) }); err != nil {
		return paths, err
	}
	logger.Info("wrote figure", "path", pngPath, "dpi", dpi)
	paths = append(paths, pngPath)

	if f.Recipe.Outputs.PDF != "" {
		pdfPath := filepath.Join(dir, f.Recipe.Outputs.PDF)
		if err := writeFile(pdfPath, f.WritePDF); err != nil {
			return paths, err
		}
		logger.Info("wrote figure", "path", pdfPath)
		paths = append(paths, pdfPath)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := fh.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := write(fh); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
