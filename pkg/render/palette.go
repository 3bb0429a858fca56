package render

import (
	"fmt"
	"image/color"
	"strings"
)

// Background is the canvas polarity.
type Background int

const (
	// Dark is a black background; datasets add light.
	Dark Background = iota
	// Light is a white background; datasets subtract light.
	Light
)

// ParseBackground accepts "black"/"dark" and "white"/"light".
// The empty string selects Dark.
func ParseBackground(name string) (Background, error) {
	switch strings.ToLower(name) {
	case "", "black", "dark":
		return Dark, nil
	case "white", "light":
		return Light, nil
	default:
		return Dark, fmt.Errorf("unknown background %q (must be black or white)", name)
	}
}

// String returns the configuration name of the background.
func (b Background) String() string {
	if b == Light {
		return "white"
	}
	return "black"
}

// Fill is the uniform colour of an empty canvas.
func (b Background) Fill() color.RGBA {
	if b == Light {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{A: 255}
}

// Ink is the colour of ticks and labels, contrasting with Fill.
func (b Background) Ink() color.RGBA {
	if b == Light {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

// Color is a named palette entry. Its channels are 0 or 1.
type Color struct {
	Name string
	unit [3]float64
}

// Palette entries.
var (
	Red    = Color{Name: "red", unit: [3]float64{1, 0, 0}}
	Green  = Color{Name: "green", unit: [3]float64{0, 1, 0}}
	Blue   = Color{Name: "blue", unit: [3]float64{0, 0, 1}}
	Purple = Color{Name: "purple", unit: [3]float64{1, 0, 1}}
	Yellow = Color{Name: "yellow", unit: [3]float64{1, 1, 0}}
	Cyan   = Color{Name: "cyan", unit: [3]float64{0, 1, 1}}
)

// Palette lists every named colour in lookup order.
var Palette = []Color{Red, Green, Blue, Purple, Yellow, Cyan}

// DefaultColors are assigned to datasets in order when none are configured.
var DefaultColors = []Color{Red, Green, Blue}

// ParseColor looks up a palette entry by name, case-insensitively.
func ParseColor(name string) (Color, error) {
	for _, c := range Palette {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Color{}, fmt.Errorf("unknown color %q (must be one of: %s)", name, paletteNames())
}

// Vector returns the channel intensities this colour contributes at full
// density. On Dark it is the unit vector scaled to 255. On Light it is the
// 255-vector of the channels the colour does not contain, the light removed
// from white.
func (c Color) Vector(bg Background) [3]float64 {
	var v [3]float64
	for i, u := range c.unit {
		if bg == Light {
			u = 1 - u
		}
		v[i] = 255 * u
	}
	return v
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Name }

func paletteNames() string {
	names := make([]string, len(Palette))
	for i, c := range Palette {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
