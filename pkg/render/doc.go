// Package render turns per-dataset histograms into an annotated heatmap image.
//
// # Overview
//
// Rendering happens in three stages on a single owned [Canvas]:
//
//  1. [Composite] paints every populated bin of one to three histograms,
//     each dataset in its own palette [Color].
//  2. [Annotate] overlays axis ticks and labels through a [Drawer].
//  3. [WritePNG] (or [EncodePNG]) encodes the canvas losslessly.
//
// The canvas is passed by pointer from stage to stage and never shared
// between goroutines.
//
//	c := render.NewCanvas(render.Dark)
//	stats, err := render.Composite(c, []render.Layer{{Hist: h, Color: render.Red}})
//	render.Annotate(render.NewGGDrawer(c), transform.Percent{}, render.Dark)
//	err = render.WritePNG("accuracy_heatmap.png", c)
//
// # Polarity
//
// On a dark background each dataset adds light in its colour channels. On a
// light background each dataset removes light from the other channels, so a
// dense red bin on white turns saturated red rather than washing out.
package render
