package frames

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func loadImage(path string) (image.Image, error) {
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

// fitTo scales img to exactly w x h.
func fitTo(img image.Image, w, h int) *image.RGBA {
	scaled := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	return toRGBA(scaled)
}

// heightFor returns the height that keeps img's aspect ratio at width w.
func heightFor(img image.Image, w int) int {
	b := img.Bounds()
	h := (b.Dy()*w + b.Dx()/2) / b.Dx()
	return max(h, 1)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func fillBackground(img *image.RGBA, bg color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// stack places top above bottom on a canvas as wide as the wider of them.
func stack(top, bottom *image.RGBA) *image.RGBA {
	w := max(top.Bounds().Dx(), bottom.Bounds().Dx())
	th := top.Bounds().Dy()
	canvas := image.NewRGBA(image.Rect(0, 0, w, th+bottom.Bounds().Dy()))
	fillBackground(canvas, color.White)

	draw.Draw(canvas, image.Rect(0, 0, w, th), top, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, th, w, canvas.Bounds().Dy()), bottom, image.Point{}, draw.Src)
	return canvas
}

// combineHorizontally joins images left to right, top aligned.
func combineHorizontally(images []*image.RGBA) *image.RGBA {
	if len(images) == 0 {
		return nil
	}

	totalWidth, maxHeight := 0, 0
	for _, img := range images {
		totalWidth += img.Bounds().Dx()
		maxHeight = max(maxHeight, img.Bounds().Dy())
	}

	combined := image.NewRGBA(image.Rect(0, 0, totalWidth, maxHeight))
	fillBackground(combined, color.White)
	offsetX := 0
	for _, img := range images {
		rect := img.Bounds()
		draw.Draw(combined, image.Rect(offsetX, 0, offsetX+rect.Dx(), rect.Dy()), img, rect.Min, draw.Src)
		offsetX += rect.Dx()
	}
	return combined
}

// drawTextWithBackground writes text with its baseline at y over a filled box.
func drawTextWithBackground(img *image.RGBA, x, y int, text string, textColor, bgColor color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	box := image.Rect(x-2, y-face.Ascent-2, x+width+2, y+face.Descent+2)
	draw.Draw(img, box, image.NewUniform(bgColor), image.Point{}, draw.Src)
	addLabel(img, x, y, text, textColor)
}

func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

func savePNGImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return nil
}
