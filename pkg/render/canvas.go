package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/matzehuels/accumap/pkg/transform"
)

// Size is the canvas edge length in pixels: every transform coordinate in
// [0, transform.AxisExtent] is a pixel.
const Size = transform.AxisExtent + 1

// Canvas is the image being rendered. It is created once per run, mutated by
// Composite and Annotate, then encoded.
type Canvas struct {
	img *image.RGBA
	bg  Background
}

// NewCanvas returns a Size×Size canvas filled with the background colour.
func NewCanvas(bg Background) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg.Fill()), image.Point{}, draw.Src)
	return &Canvas{img: img, bg: bg}
}

// Background returns the canvas polarity.
func (c *Canvas) Background() Background { return c.bg }

// Image exposes the pixel buffer for encoding and drawing.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Contains reports whether (x, y) is a pixel of the canvas.
func (c *Canvas) Contains(x, y int) bool {
	return image.Pt(x, y).In(c.img.Bounds())
}

// RGB returns the colour channels at (x, y).
func (c *Canvas) RGB(x, y int) [3]uint8 {
	p := c.img.RGBAAt(x, y)
	return [3]uint8{p.R, p.G, p.B}
}

func (c *Canvas) set(x, y int, rgb [3]uint8) {
	c.img.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
}
