package frames

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/stat"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/dataset"
)

// PerStepCSV is the per-step population file read for the curve.
const PerStepCSV = "performance_scalingperStep.csv"

var percentOfInitial = []dataset.Derivation{
	{Name: "expected_pop_count", Product: []string{"pop_size", "p_occupation"}},
	{Name: "pop_count_percent", Numerator: "pop_count", Denominator: []string{"expected_pop_count"}, Scale: 100},
}

// curve is the mean population, as a percentage of the initial population,
// at each recorded step of one grid width.
type curve struct {
	Steps   []float64
	Percent []float64
}

// loadCurve reads the per-step file under dir and averages pop_count_percent
// over the repeats of gridWidth.
func loadCurve(dir string, gridWidth float64) (curve, error) {
	path := filepath.Join(dir, PerStepCSV)
	t, err := dataset.Load(path)
	if err != nil {
		return curve{}, err
	}
	t, err = t.FilterIn("grid_width", []float64{gridWidth})
	if err != nil {
		return curve{}, fmt.Errorf("failed to filter %s: %w", path, err)
	}
	if t.Len() == 0 {
		return curve{}, fmt.Errorf("%s has no rows for grid_width %g", path, gridWidth)
	}
	if err := t.DeriveAll(percentOfInitial); err != nil {
		return curve{}, fmt.Errorf("%s: %w", path, err)
	}

	steps, err := t.Floats("step")
	if err != nil {
		return curve{}, err
	}
	pct, err := t.Floats("pop_count_percent")
	if err != nil {
		return curve{}, err
	}

	byStep := make(map[float64][]float64)
	for i, s := range steps {
		if math.IsNaN(s) || math.IsNaN(pct[i]) || math.IsInf(pct[i], 0) {
			continue
		}
		byStep[s] = append(byStep[s], pct[i])
	}

	var c curve
	for s := range byStep {
		c.Steps = append(c.Steps, s)
	}
	sort.Float64s(c.Steps)
	for _, s := range c.Steps {
		c.Percent = append(c.Percent, stat.Mean(byStep[s], nil))
	}
	return c, nil
}

// upTo returns the prefix of c with steps no later than step.
func (c curve) upTo(step float64) curve {
	n := sort.Search(len(c.Steps), func(i int) bool { return c.Steps[i] > step })
	return curve{Steps: c.Steps[:n], Percent: c.Percent[:n]}
}

func (c curve) maxStep() float64 {
	if len(c.Steps) == 0 {
		return 0
	}
	return c.Steps[len(c.Steps)-1]
}

// chartHeight is the height of the curve strip above a frame of width w.
func chartHeight(w int) int {
	return max(w*3/10, 100)
}

// renderCurve draws c on fixed axes spanning the whole run, so successive
// frames line up. Fewer than two points give a blank strip.
func renderCurve(c curve, xMax, yMax float64, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillBackground(img, color.White)
	if len(c.Steps) < 2 {
		return img, nil
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 8.0},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
			Ticks: generateTicks(xMax, tickInterval(xMax)),
		},
		YAxis: chart.YAxis{
			Name:  "N %",
			Style: chart.Style{FontSize: 8.0},
			Range: &chart.ContinuousRange{Min: 0.0, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "pop_count_percent",
				XValues: c.Steps,
				YValues: clampValues(c.Percent, 0, yMax),
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 31, G: 119, B: 180, A: 255},
					StrokeWidth: 3.0,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render curve: %w", err)
	}
	graphImg, _, err := image.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode curve: %w", err)
	}
	draw.Draw(img, img.Bounds(), graphImg, image.Point{}, draw.Src)
	return img, nil
}

func tickInterval(xMax float64) float64 {
	return math.Max(1, math.Ceil(xMax/5))
}

func generateTicks(xMax float64, interval float64) []chart.Tick {
	var ticks []chart.Tick
	for value := 0.0; value <= xMax; value += interval {
		ticks = append(ticks, chart.Tick{
			Value: value,
			Label: fmt.Sprintf("%.0f", value),
		})
	}
	return ticks
}

func calculateMax(data ...[]float64) float64 {
	m := 0.0
	for _, series := range data {
		for _, v := range series {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func clampValues(data []float64, lo, hi float64) []float64 {
	clamped := make([]float64, len(data))
	for i, v := range data {
		clamped[i] = math.Min(math.Max(v, lo), hi)
	}
	return clamped
}
