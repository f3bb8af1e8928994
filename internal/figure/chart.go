package figure

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/dataset"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/recipe"
)

// bandAlpha is the opacity of confidence bands.
const bandAlpha = 0x40

// errBarColor is the colour of bar chart error bars.
var errBarColor = color.Gray{Y: 0x42}

// ErrNoRows is returned for a chart panel whose table is empty after
// filtering.
var ErrNoRows = errors.New("no rows to plot")

// loadPanelData reads the panel's CSV and applies its filter and derived
// columns.
func loadPanelData(def recipe.Panel, path string) (*dataset.Table, error) {
	t, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	if def.Filter != nil {
		t, err = t.FilterIn(def.Filter.Column, def.Filter.Values)
		if err != nil {
			return nil, fmt.Errorf("failed to filter %s: %w", path, err)
		}
	}
	if err := t.DeriveAll(def.Derive); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// linePlot draws one line per hue group through the mean y at each x, with
// a shaded 95% confidence band around it.
func linePlot(th Theme, def recipe.Panel, t *dataset.Table) (*plot.Plot, error) {
	if t.Len() == 0 {
		return nil, ErrNoRows
	}
	xs, err := t.Floats(def.X)
	if err != nil {
		return nil, err
	}
	ys, err := t.Floats(def.Y)
	if err != nil {
		return nil, err
	}
	groups, _, err := groupRows(t, def.Hue)
	if err != nil {
		return nil, err
	}

	p := th.NewPlot()
	p.X.Label.Text = def.XLabel
	p.Y.Label.Text = def.YLabel
	addLegendTitle(p, def)

	for i, g := range groups {
		pts := aggregate(xs, ys, g.Rows)
		if len(pts) == 0 {
			continue
		}
		clr := th.Palette(i)

		if band := confidenceBand(pts); band != nil {
			poly, err := plotter.NewPolygon(band)
			if err != nil {
				return nil, fmt.Errorf("failed to create band: %w", err)
			}
			poly.Color = withAlpha(clr, bandAlpha)
			poly.LineStyle.Width = 0
			p.Add(poly)
		}

		mean := make(plotter.XYs, len(pts))
		for j, pt := range pts {
			mean[j].X, mean[j].Y = pt.X, pt.Mean
		}
		line, err := plotter.NewLine(mean)
		if err != nil {
			return nil, fmt.Errorf("failed to create line: %w", err)
		}
		line.Color = clr
		line.Width = vg.Points(1)
		p.Add(line)
		if def.Hue != "" {
			p.Legend.Add(g.Label, line)
		}
	}
	return p, nil
}

// confidenceBand returns the outline of the band, upper edge left to right
// then lower edge back. It is nil when no point has a spread or an edge is
// not finite.
func confidenceBand(pts []point) plotter.XYs {
	spread := false
	for _, pt := range pts {
		if !finite(pt.Lo) || !finite(pt.Hi) {
			return nil
		}
		if pt.Hi > pt.Lo {
			spread = true
		}
	}
	if !spread || len(pts) < 2 {
		return nil
	}
	band := make(plotter.XYs, 0, 2*len(pts))
	for _, pt := range pts {
		band = append(band, plotter.XY{X: pt.X, Y: pt.Hi})
	}
	for i := len(pts) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: pts[i].X, Y: pts[i].Lo})
	}
	return band
}

// barPlot draws the mean y of each x category, one dodged bar per hue group,
// with a 95% confidence error bar on bars of repeated observations.
// Categories with no data for a hue get a zero height bar.
func barPlot(th Theme, def recipe.Panel, t *dataset.Table, slot vg.Length) (*plot.Plot, error) {
	if t.Len() == 0 {
		return nil, ErrNoRows
	}
	ys, err := t.Floats(def.Y)
	if err != nil {
		return nil, err
	}
	cats, rowCat, err := groupRows(t, def.X)
	if err != nil {
		return nil, err
	}
	hues, _, err := groupRows(t, def.Hue)
	if err != nil {
		return nil, err
	}

	p := th.NewPlot()
	p.X.Label.Text = def.XLabel
	p.Y.Label.Text = def.YLabel
	addLegendTitle(p, def)

	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Label
	}
	p.NominalX(names...)

	width := barWidth(slot, len(cats), len(hues))
	for h, hue := range hues {
		cells := make([][]int, len(cats))
		for _, r := range hue.Rows {
			cells[rowCat[r]] = append(cells[rowCat[r]], r)
		}
		heights := make(plotter.Values, len(cats))
		var spread cellErrors
		for c, rows := range cells {
			pt := summarize(ys, rows)
			heights[c] = pt.Mean
			if pt.Hi > pt.Lo && finite(pt.Lo) && finite(pt.Hi) {
				pt.X = float64(c)
				spread = append(spread, pt)
			}
		}

		bars, err := plotter.NewBarChart(heights, width)
		if err != nil {
			return nil, fmt.Errorf("failed to create bars: %w", err)
		}
		bars.Color = th.Palette(h)
		bars.LineStyle.Width = 0
		bars.Offset = (vg.Length(h) - vg.Length(len(hues)-1)/2) * width
		p.Add(bars)
		if def.Hue != "" {
			p.Legend.Add(hue.Label, bars)
		}

		if len(spread) > 0 {
			eb, err := plotter.NewYErrorBars(spread)
			if err != nil {
				return nil, fmt.Errorf("failed to create error bars: %w", err)
			}
			eb.Color = errBarColor
			eb.Width = vg.Points(1)
			p.Add(offsetErrorBars{YErrorBars: eb, Offset: bars.Offset})
		}
	}
	return p, nil
}

// cellErrors are the bar means with their confidence intervals, X being
// the category index.
type cellErrors []point

func (e cellErrors) Len() int                { return len(e) }
func (e cellErrors) XY(i int) (x, y float64) { return e[i].X, e[i].Mean }
func (e cellErrors) YError(i int) (low, high float64) {
	return e[i].Mean - e[i].Lo, e[i].Hi - e[i].Mean
}

// offsetErrorBars draws capless error bars shifted sideways onto a dodged
// bar.
type offsetErrorBars struct {
	*plotter.YErrorBars
	Offset vg.Length
}

// Plot implements the plot.Plotter interface.
func (e offsetErrorBars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for i, yerr := range e.YErrors {
		x := trX(e.XYs[i].X) + e.Offset
		lo := trY(e.XYs[i].Y - yerr.Low)
		hi := trY(e.XYs[i].Y + yerr.High)
		bar := c.ClipLinesY([]vg.Point{{X: x, Y: lo}, {X: x, Y: hi}})
		c.StrokeLines(e.LineStyle, bar...)
	}
}

// GlyphBoxes implements the plot.GlyphBoxer interface.
func (e offsetErrorBars) GlyphBoxes(p *plot.Plot) []plot.GlyphBox {
	boxes := e.YErrorBars.GlyphBoxes(p)
	for i := range boxes {
		boxes[i].Rectangle = boxes[i].Rectangle.Add(vg.Point{X: e.Offset})
	}
	return boxes
}

// barWidth shares the data area of one grid slot between every bar, leaving
// a gap between categories.
func barWidth(slot vg.Length, cats, hues int) vg.Length {
	n := max(cats, 1) * max(hues, 1)
	return slot * 0.7 * 0.8 / vg.Length(n)
}

// addLegendTitle puts the legend title as a first, swatchless entry.
func addLegendTitle(p *plot.Plot, def recipe.Panel) {
	if def.Hue == "" {
		return
	}
	title := def.LegendTitle
	if title == "" {
		title = def.Hue
	}
	p.Legend.Add(title)
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
