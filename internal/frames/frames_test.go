package frames

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/fixture"
)

func validOptions(t *testing.T) Options {
	t.Helper()
	input, vis := t.TempDir(), t.TempDir()
	fixture.WriteInputs(t, input)
	fixture.WriteFrames(t, vis)
	return Options{
		InputDir:  input,
		VisDir:    vis,
		OutputDir: t.TempDir(),
		FPS:       DefaultFPS,
		Width:     320,
		Group:     DefaultGroup,
		Strip:     DefaultStrip,
	}
}

func TestListFrames_Order(t *testing.T) {
	dir := t.TempDir()
	fixture.WriteFrames(t, dir, "10.png", "2.png", "0.png", "x.png")
	fixture.Write(t, filepath.Join(dir, "notes.txt"), "ignored")
	if err := os.Mkdir(filepath.Join(dir, "5.png"), 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	frames, err := ListFrames(dir)
	if err != nil {
		t.Fatalf("ListFrames: %v", err)
	}
	var steps []int
	for _, f := range frames {
		steps = append(steps, f.Step)
	}
	want := []int{0, 2, 10}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("steps = %v, want %v", steps, want)
			break
		}
	}
}

func TestListFrames_Empty(t *testing.T) {
	if _, err := ListFrames(t.TempDir()); err == nil {
		t.Error("expected error for a directory without frames")
	}
	if _, err := ListFrames(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestOptionsCheck(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"valid", func(*Options) {}, ""},
		{"zero fps", func(o *Options) { o.FPS = 0 }, "--fps"},
		{"narrow", func(o *Options) { o.Width = MinWidth - 1 }, "--width"},
		{"no group", func(o *Options) { o.Group = 0 }, "--group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{FPS: 1, Width: MinWidth, Group: 256}
			tt.mutate(&opts)
			err := opts.Check()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Check() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCurve(t *testing.T) {
	dir := t.TempDir()
	fixture.WriteInputs(t, dir)

	c, err := loadCurve(dir, 256)
	if err != nil {
		t.Fatalf("loadCurve: %v", err)
	}
	if len(c.Steps) != fixture.Steps {
		t.Fatalf("got %d steps, want %d", len(c.Steps), fixture.Steps)
	}
	for i, s := range c.Steps {
		if s != float64(i) {
			t.Errorf("Steps[%d] = %v, want %d", i, s, i)
		}
		// mean of the two seeds: 100*(1-0.1s) * (1.00 + 1.01)/2
		want := 100 * (1 - 0.1*s) * 1.005
		if math.Abs(c.Percent[i]-want) > 1e-9 {
			t.Errorf("Percent[%d] = %v, want %v", i, c.Percent[i], want)
		}
	}

	if _, err := loadCurve(dir, 3); err == nil {
		t.Error("expected error for a grid width with no rows")
	}
}

func TestCurveUpTo(t *testing.T) {
	c := curve{Steps: []float64{0, 1, 2, 5}, Percent: []float64{100, 90, 80, 50}}

	tests := []struct {
		step float64
		want int
	}{
		{-1, 0},
		{0, 1},
		{2, 3},
		{3, 3},
		{50, 4},
	}
	for _, tt := range tests {
		got := c.upTo(tt.step)
		if len(got.Steps) != tt.want || len(got.Percent) != tt.want {
			t.Errorf("upTo(%v) has %d points, want %d", tt.step, len(got.Steps), tt.want)
		}
	}
}

func TestRenderCurve_BlankForSinglePoint(t *testing.T) {
	img, err := renderCurve(curve{Steps: []float64{0}, Percent: []float64{100}}, 10, 100, 200, 100)
	if err != nil {
		t.Fatalf("renderCurve: %v", err)
	}
	if got := img.RGBAAt(100, 50); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want white", got)
	}
}

func TestRenderCurve_Size(t *testing.T) {
	c := curve{Steps: []float64{0, 1, 2}, Percent: []float64{100, 90, 80}}
	img, err := renderCurve(c, 2, 105, 320, 120)
	if err != nil {
		t.Fatalf("renderCurve: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 120 {
		t.Errorf("size = %dx%d, want 320x120", b.Dx(), b.Dy())
	}
}

func TestGenerateTicks(t *testing.T) {
	ticks := generateTicks(10, tickInterval(10))
	var labels []string
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	if got := strings.Join(labels, ","); got != "0,2,4,6,8,10" {
		t.Errorf("labels = %q, want 0,2,4,6,8,10", got)
	}
	if got := tickInterval(3); got != 1 {
		t.Errorf("tickInterval(3) = %v, want 1", got)
	}
}

func TestClampAndMax(t *testing.T) {
	got := clampValues([]float64{-1, 50, 150}, 0, 100)
	want := []float64{0, 50, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("clampValues[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if m := calculateMax([]float64{1, 5}, []float64{3}, nil); m != 5 {
		t.Errorf("calculateMax = %v, want 5", m)
	}
	if m := calculateMax(); m != 0 {
		t.Errorf("calculateMax() = %v, want 0", m)
	}
}

func TestCombineHorizontally(t *testing.T) {
	if combineHorizontally(nil) != nil {
		t.Error("combineHorizontally(nil) should be nil")
	}
	a := image.NewRGBA(image.Rect(0, 0, 10, 20))
	b := image.NewRGBA(image.Rect(0, 0, 30, 5))
	got := combineHorizontally([]*image.RGBA{a, b}).Bounds()
	if got.Dx() != 40 || got.Dy() != 20 {
		t.Errorf("combined size = %dx%d, want 40x20", got.Dx(), got.Dy())
	}
}

func TestStack(t *testing.T) {
	top := image.NewRGBA(image.Rect(0, 0, 50, 10))
	bottom := image.NewRGBA(image.Rect(0, 0, 50, 30))
	got := stack(top, bottom).Bounds()
	if got.Dx() != 50 || got.Dy() != 40 {
		t.Errorf("stacked size = %dx%d, want 50x40", got.Dx(), got.Dy())
	}
}

func TestHeightFor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	if got := heightFor(img, 320); got != 240 {
		t.Errorf("heightFor = %d, want 240", got)
	}
	if got := heightFor(image.NewRGBA(image.Rect(0, 0, 1000, 1)), 10); got != 1 {
		t.Errorf("heightFor thin = %d, want 1", got)
	}
}

func TestRender(t *testing.T) {
	opts := validOptions(t)

	res, err := Render(context.Background(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Frames != len(fixture.Frames) {
		t.Errorf("Frames = %d, want %d", res.Frames, len(fixture.Frames))
	}

	data, err := os.ReadFile(res.Video)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Errorf("video does not start with RIFF")
	}
	if filepath.Base(res.Video) != VideoName {
		t.Errorf("video = %q, want %s", res.Video, VideoName)
	}

	f, err := os.Open(res.Strip)
	if err != nil {
		t.Fatalf("Open strip: %v", err)
	}
	defer f.Close()
	strip, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode strip: %v", err)
	}
	// three 320 wide frames, 240 high below a 100 high curve
	if b := strip.Bounds(); b.Dx() != 3*320 || b.Dy() != 240+chartHeight(320) {
		t.Errorf("strip size = %dx%d, want %dx%d", b.Dx(), b.Dy(), 3*320, 240+chartHeight(320))
	}
}

func TestRender_NoStrip(t *testing.T) {
	opts := validOptions(t)
	opts.Strip = nil

	res, err := Render(context.Background(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Strip != "" {
		t.Errorf("Strip = %q, want none", res.Strip)
	}
	if _, err := os.Stat(filepath.Join(opts.OutputDir, StripName)); !os.IsNotExist(err) {
		t.Errorf("strip file should not exist, stat err = %v", err)
	}
}

func TestRender_Cancelled(t *testing.T) {
	opts := validOptions(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Render(ctx, opts); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestRender_BadOptions(t *testing.T) {
	opts := validOptions(t)
	opts.FPS = 0
	if _, err := Render(context.Background(), opts); err == nil {
		t.Error("expected error for zero fps")
	}
}
