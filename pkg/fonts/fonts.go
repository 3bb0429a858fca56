// Package fonts provides the typeface used for axis labels.
//
// The Go Regular font is compiled into the binary by golang.org/x/image, so
// rendering needs no font files on the host.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DPI is the resolution faces are rasterised at. At 72 DPI one point is one
// pixel, so label sizes are pixel heights.
const DPI = 72

// Parsed font (computed once on first access).
var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a Go Regular face of the given pixel size.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
}
