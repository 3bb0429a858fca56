package render

import (
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/accumap/pkg/fonts"
)

// Drawer is the raster drawing capability the annotator needs.
type Drawer interface {
	// FillRect fills the w×h rectangle whose top-left corner is (x, y).
	FillRect(x, y, w, h int, c color.Color)
	// DrawText draws text with its top-left corner at (x, y).
	DrawText(x, y int, size float64, c color.Color, text string)
}

// GGDrawer draws onto a Canvas with fogleman/gg.
type GGDrawer struct {
	dc    *gg.Context
	faces map[float64]font.Face
	err   error
}

// NewGGDrawer returns a drawer that writes straight into c's pixel buffer.
func NewGGDrawer(c *Canvas) *GGDrawer {
	return &GGDrawer{
		dc:    gg.NewContextForRGBA(c.Image()),
		faces: make(map[float64]font.Face),
	}
}

// FillRect implements Drawer.
func (d *GGDrawer) FillRect(x, y, w, h int, c color.Color) {
	d.dc.SetColor(c)
	d.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	d.dc.Fill()
}

// DrawText implements Drawer. A font that fails to load is recorded and the
// text skipped; Err reports it.
func (d *GGDrawer) DrawText(x, y int, size float64, c color.Color, text string) {
	face, ok := d.faces[size]
	if !ok {
		var err error
		face, err = fonts.Face(size)
		if err != nil {
			d.err = err
			return
		}
		d.faces[size] = face
	}
	d.dc.SetFontFace(face)
	d.dc.SetColor(c)
	d.dc.DrawStringAnchored(text, float64(x), float64(y), 0, 1)
}

// Err returns the first font error encountered by DrawText.
func (d *GGDrawer) Err() error { return d.err }
