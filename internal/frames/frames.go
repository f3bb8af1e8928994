// Package frames packs the visualisation frames of a run into an MJPEG video.
// Each frame is topped by the population curve up to that frame's step and
// tagged with the step number.
package frames

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/icza/mjpeg"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/logging"
)

const (
	// VideoName is the video written under the output directory.
	VideoName = "visualisation.avi"
	// StripName holds the selected frames side by side.
	StripName = "visualisation_strip.png"

	DefaultFPS   = 5
	DefaultWidth = 640
	DefaultGroup = 1024

	// MinWidth keeps the curve strip legible.
	MinWidth = 160

	jpegQuality = 100
)

// DefaultStrip are the steps shown in the paper figure.
var DefaultStrip = []int{0, 1, 50}

// Options configures Render.
type Options struct {
	InputDir  string
	VisDir    string
	OutputDir string

	FPS   int
	Width int
	// Group is the grid width whose curve is drawn.
	Group float64
	// Strip lists the steps combined into StripName. Empty skips the strip.
	Strip []int
}

// Check reports invalid numeric options.
func (o Options) Check() error {
	var errs []error
	if o.FPS < 1 {
		errs = append(errs, fmt.Errorf("--fps must be a positive value. %d", o.FPS))
	}
	if o.Width < MinWidth {
		errs = append(errs, fmt.Errorf("--width must be at least %d. %d", MinWidth, o.Width))
	}
	if o.Group <= 0 {
		errs = append(errs, fmt.Errorf("--group must be a positive value. %g", o.Group))
	}
	return errors.Join(errs...)
}

// Frame is one visualisation image named by its step.
type Frame struct {
	Step int
	Path string
}

// ListFrames returns the <step>.png files in dir ordered by step. Other
// files are ignored.
func ListFrames(dir string) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var frames []Frame
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		step, err := strconv.Atoi(strings.TrimSuffix(name, ".png"))
		if err != nil || step < 0 {
			continue
		}
		frames = append(frames, Frame{Step: step, Path: filepath.Join(dir, name)})
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no <step>.png frames in %s", dir)
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Step < frames[j].Step })
	return frames, nil
}

// Result describes what Render wrote.
type Result struct {
	Video  string
	Strip  string
	Frames int
}

// Render writes the video, and the strip when requested, into
// opts.OutputDir.
func Render(ctx context.Context, opts Options) (Result, error) {
	logger := logging.FromContext(ctx)

	if err := opts.Check(); err != nil {
		return Result{}, err
	}
	frames, err := ListFrames(opts.VisDir)
	if err != nil {
		return Result{}, err
	}
	full, err := loadCurve(opts.InputDir, opts.Group)
	if err != nil {
		return Result{}, err
	}

	first, err := loadImage(frames[0].Path)
	if err != nil {
		return Result{}, err
	}
	frameW, frameH := opts.Width, heightFor(first, opts.Width)
	stripH := chartHeight(frameW)
	xMax := max(full.maxStep(), 1)
	yMax := max(calculateMax(full.Percent)*1.05, 1)

	res := Result{Video: filepath.Join(opts.OutputDir, VideoName)}
	videoWriter, err := mjpeg.New(res.Video, int32(frameW), int32(frameH+stripH), int32(opts.FPS))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create video writer: %w", err)
	}
	closed := false
	defer func() {
		if !closed {
			videoWriter.Close()
		}
	}()

	wantStrip := make(map[int]bool, len(opts.Strip))
	for _, s := range opts.Strip {
		wantStrip[s] = true
	}
	var selected []*image.RGBA

	var buf bytes.Buffer
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		img, err := loadImage(f.Path)
		if err != nil {
			return Result{}, err
		}
		strip, err := renderCurve(full.upTo(float64(f.Step)), xMax, yMax, frameW, stripH)
		if err != nil {
			return Result{}, fmt.Errorf("frame %d: %w", f.Step, err)
		}
		composed := stack(strip, fitTo(img, frameW, frameH))
		drawTextWithBackground(composed, 6, stripH+16, fmt.Sprintf("t=%d", f.Step), color.Black, color.White)

		buf.Reset()
		if err := jpeg.Encode(&buf, composed, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return Result{}, fmt.Errorf("failed to encode frame %d: %w", f.Step, err)
		}
		if err := videoWriter.AddFrame(buf.Bytes()); err != nil {
			return Result{}, fmt.Errorf("failed to add frame %d: %w", f.Step, err)
		}
		logger.Debug("added frame", "step", f.Step)
		res.Frames++

		if wantStrip[f.Step] {
			selected = append(selected, composed)
		}
	}

	closed = true
	if err := videoWriter.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to finish video: %w", err)
	}
	logger.Info("wrote video", "path", res.Video, "frames", res.Frames, "fps", opts.FPS)

	if len(selected) > 0 {
		res.Strip = filepath.Join(opts.OutputDir, StripName)
		if err := savePNGImage(combineHorizontally(selected), res.Strip); err != nil {
			return res, err
		}
		logger.Info("wrote frame strip", "path", res.Strip, "frames", len(selected))
	}
	return res, nil
}
