// Package fixture writes small benchmark outputs for tests: the three CSV
// files the figure plots and a few visualisation frames.
package fixture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// GridWidths are the grid widths in the per-step CSV. 8192 is not one of
// the widths the paper figure keeps.
var GridWidths = []int{256, 512, 1024, 2048, 4096, 8192}

// Steps is the number of steps recorded per run.
const Steps = 4

// Frames are the visualisation frames written by WriteFrames.
var Frames = []string{"0.png", "1.png", "50.png"}

// PerStepCSV is the per-step population file.
func PerStepCSV() string {
	var b strings.Builder
	b.WriteString("grid_width, pop_size ,p_occupation,seed,step,pop_count\n")
	for _, w := range GridWidths {
		for seed := 0; seed < 2; seed++ {
			for step := 0; step < Steps; step++ {
				expected := float64(w*w) * 0.5
				count := expected * (1 - 0.1*float64(step)) * (1 + 0.01*float64(seed))
				fmt.Fprintf(&b, "%d,%d,0.5,%d,%d,%g\n", w, w*w, seed, step, count)
			}
		}
	}
	return b.String()
}

// ResolutionCSV is the resolution-steps file. Its first row has an empty
// unresolved count.
func ResolutionCSV() string {
	var b strings.Builder
	b.WriteString("resolution_iterations,p_occupation,mean_unresolved_count,mean_pop_count\n")
	b.WriteString("0,0.25,,1000\n")
	for _, it := range []int{1, 2, 4} {
		for _, p := range []float64{0.25, 0.5} {
			fmt.Fprintf(&b, "%d,%g,%g,1000\n", it, p, 100/float64(it)*p*4)
		}
	}
	b.WriteString("0,0.5,200,1000\n")
	return b.String()
}

// ScalingCSV is the performance-scaling file with two repeats per size.
func ScalingCSV() string {
	var b strings.Builder
	b.WriteString("pop_size,repeat,s_step_mean\n")
	for _, w := range GridWidths {
		for r := 0; r < 2; r++ {
			fmt.Fprintf(&b, "%d,%d,%g\n", w*w, r, float64(w*w)*1e-9*(1+0.05*float64(r)))
		}
	}
	return b.String()
}

// WriteInputs writes the three CSV files into dir.
func WriteInputs(t testing.TB, dir string) {
	t.Helper()
	Write(t, filepath.Join(dir, "performance_scalingperStep.csv"), PerStepCSV())
	Write(t, filepath.Join(dir, "resolution_steps.csv"), ResolutionCSV())
	Write(t, filepath.Join(dir, "performance_scaling.csv"), ScalingCSV())
}

// WriteFrames writes small solid frames named by step into dir.
func WriteFrames(t testing.TB, dir string, names ...string) {
	t.Helper()
	if len(names) == 0 {
		names = Frames
	}
	for i, name := range names {
		WritePNG(t, filepath.Join(dir, name), 40, 30, color.RGBA{R: uint8(60 * i), G: 120, B: 200, A: 255})
	}
}

// Write writes content to path, creating parent directories.
func Write(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// WritePNG writes a w x h image filled with c to path, creating parent
// directories.
func WritePNG(t testing.TB, path string, w, h int, c color.Color) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}
