package render

import "github.com/gogpu/term/vt"

// RGBA is a premultiplied linear color. Terminal colors are opaque, so
// premultiplication is the identity and the channels are plain values.
type RGBA [4]float32

func rgb(r, g, b uint8) RGBA {
	return RGBA{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

// The classic xterm palette: 8 normal colors, 8 bright variants used
// when bold brightening applies.
var (
	palette = [8]RGBA{
		rgb(0, 0, 0),       // black
		rgb(205, 0, 0),     // red
		rgb(0, 205, 0),     // green
		rgb(205, 205, 0),   // yellow
		rgb(0, 0, 238),     // blue
		rgb(205, 0, 205),   // magenta
		rgb(0, 205, 205),   // cyan
		rgb(229, 229, 229), // white
	}
	brightPalette = [8]RGBA{
		rgb(127, 127, 127),
		rgb(255, 0, 0),
		rgb(0, 255, 0),
		rgb(255, 255, 0),
		rgb(92, 92, 255),
		rgb(255, 0, 255),
		rgb(0, 255, 255),
		rgb(255, 255, 255),
	}

	defaultFG = rgb(229, 229, 229)
	defaultBG = rgb(0, 0, 0)
)

// foreground resolves a cell's foreground color, brightening palette
// colors when the cell is bold.
func foreground(c vt.Cell) RGBA {
	idx, ok := c.FG.Palette()
	if !ok {
		if c.Bold {
			return brightPalette[7]
		}
		return defaultFG
	}
	if c.Bold {
		return brightPalette[idx]
	}
	return palette[idx]
}

// background resolves a cell's background color. Bold never brightens
// backgrounds.
func background(c vt.Cell) RGBA {
	idx, ok := c.BG.Palette()
	if !ok {
		return defaultBG
	}
	return palette[idx]
}
