package figure

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// imagePlot shows img with no axes, one data unit per pixel.
func imagePlot(th Theme, img image.Image) *plot.Plot {
	b := img.Bounds()
	p := th.NewPlot()
	p.Add(plotter.NewImage(img, 0, 0, float64(b.Dx()), float64(b.Dy())))
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	return p
}

// fitAspect returns the largest sub-canvas of c with the given width to
// height ratio, centred in c.
func fitAspect(c draw.Canvas, ratio float64) draw.Canvas {
	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	if ratio <= 0 || w <= 0 || h <= 0 {
		return c
	}
	if float64(w)/float64(h) > ratio {
		nw := h * vg.Length(ratio)
		c.Min.X += (w - nw) / 2
		c.Max.X = c.Min.X + nw
	} else {
		nh := w / vg.Length(ratio)
		c.Min.Y += (h - nh) / 2
		c.Max.Y = c.Min.Y + nh
	}
	return c
}
