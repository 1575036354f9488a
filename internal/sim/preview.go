package sim

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"nifri2/neomatrix/internal/display"
)

// PreviewOptions controls how the matrix is drawn.
type PreviewOptions struct {
	// Cell is the size in pixels of one LED cell.
	Cell int
	// Width, when set, rescales the image to this width.
	Width int
	// Landscape rotates the tall panel a quarter turn.
	Landscape bool
}

// dim LED colours are boosted so they are visible on a monitor.
const previewGain = 4

// Preview draws the strip as it looks on the panel: each board cell shows
// the colour of the LED the layout wires to it.
func Preview(colors []color.RGBA, layout display.Layout, opts PreviewOptions) image.Image {
	cell := opts.Cell
	if cell <= 0 {
		cell = 16
	}

	dc := gg.NewContext(layout.Cols()*cell, layout.Rows()*cell)
	dc.SetRGB(0.05, 0.05, 0.05)
	dc.Clear()

	radius := float64(cell) * 0.4
	for r := 0; r < layout.Rows(); r++ {
		for c := 0; c < layout.Cols(); c++ {
			led := colors[layout.Index(r, c)]
			dc.SetRGB255(boost(led.R), boost(led.G), boost(led.B))
			dc.DrawCircle(float64(c*cell)+float64(cell)/2, float64(r*cell)+float64(cell)/2, radius)
			dc.Fill()
		}
	}

	var img image.Image = dc.Image()
	if opts.Landscape {
		img = imaging.Rotate90(img)
	}
	if opts.Width > 0 {
		img = imaging.Resize(img, opts.Width, 0, imaging.NearestNeighbor)
	}
	return img
}

func boost(v uint8) int {
	out := int(v) * previewGain
	if out > 255 {
		return 255
	}
	return out
}
