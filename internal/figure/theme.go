package figure

import (
	"image/color"
	"sync"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Theme holds the visual settings shared by every panel.
type Theme struct {
	Background color.Color
	Foreground color.Color
	Font       font.Font
	// BoldFont is used for panel letters. It must be a regular weight
	// entry of the font cache: the PDF canvas embeds every face as regular
	// and cannot select a bold style of it.
	BoldFont font.Font

	AxisLabelSize  vg.Length
	TickLabelSize  vg.Length
	LegendSize     vg.Length
	PanelLabelSize vg.Length

	// Palette returns the colour of the i-th series.
	Palette func(i int) color.Color
}

// White is a light theme: white background, sans-serif text, no grid.
func White() Theme {
	return Theme{
		Background:     color.White,
		Foreground:     color.Black,
		Font:           font.Font{Typeface: "Liberation", Variant: "Sans"},
		BoldFont:       sansBold(),
		AxisLabelSize:  vg.Points(9),
		TickLabelSize:  vg.Points(7),
		LegendSize:     vg.Points(7),
		PanelLabelSize: vg.Points(12),
		Palette:        plotutil.Color,
	}
}

var registerBold sync.Once

// sansBold registers Liberation Sans Bold under its own variant and returns
// its descriptor.
func sansBold() font.Font {
	bold := font.Font{Typeface: "Liberation", Variant: "SansBold"}
	registerBold.Do(func() {
		for _, f := range liberation.Collection() {
			if f.Font.Variant == "Sans" && f.Font.Weight == xfont.WeightBold && f.Font.Style == xfont.StyleNormal {
				font.DefaultCache.Add(font.Collection{{Font: bold, Face: f.Face}})
				return
			}
		}
	})
	return bold
}

func (th Theme) font(size vg.Length, weight xfont.Weight) font.Font {
	f := th.Font
	f.Size = size
	f.Weight = weight
	return f
}

// NewPlot returns an empty plot styled with th.
func (th Theme) NewPlot() *plot.Plot {
	p := plot.New()
	p.BackgroundColor = th.Background

	p.Title.TextStyle.Font = th.font(th.AxisLabelSize, xfont.WeightNormal)
	p.X.Label.TextStyle.Font = th.font(th.AxisLabelSize, xfont.WeightNormal)
	p.Y.Label.TextStyle.Font = th.font(th.AxisLabelSize, xfont.WeightNormal)
	p.X.Tick.Label.Font = th.font(th.TickLabelSize, xfont.WeightNormal)
	p.Y.Tick.Label.Font = th.font(th.TickLabelSize, xfont.WeightNormal)
	p.Legend.TextStyle.Font = th.font(th.LegendSize, xfont.WeightNormal)
	p.Legend.Top = true
	return p
}

// panelLabelStyle is the bold letter drawn at a panel's top left corner.
func (th Theme) panelLabelStyle() text.Style {
	return text.Style{
		Color:   th.Foreground,
		Font:    font.From(th.BoldFont, th.PanelLabelSize),
		XAlign:  text.XLeft,
		YAlign:  text.YTop,
		Handler: plot.DefaultTextHandler,
	}
}
