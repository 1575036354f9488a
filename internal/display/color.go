package display

import (
	"fmt"
	"image/color"
)

// CellColor is the colour code the game engine stores in each board cell.
type CellColor int8

const (
	Empty CellColor = iota - 1 // background, LED off
	CellS
	CellZ
	CellT
	CellL
	CellJ
	CellSquare
	CellI
)

// Off is the colour of an unlit LED.
var Off = rgb(0, 0, 0)

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ColorOf maps a cell code to the LED colour. Codes outside the enumeration
// mean the board is corrupt, so they panic instead of falling back.
func ColorOf(c CellColor) color.RGBA {
	switch c {
	case CellS:
		return rgb(0, 50, 0) // green
	case CellZ:
		return rgb(50, 0, 0) // red
	case CellT:
		return rgb(50, 0, 50) // magenta
	case CellL:
		return rgb(50, 25, 0) // orange
	case CellJ:
		return rgb(0, 0, 50) // blue
	case CellSquare:
		return rgb(50, 50, 0) // yellow
	case CellI:
		return rgb(0, 50, 50) // light blue
	case Empty:
		return Off
	default:
		panic(fmt.Sprintf("display: invalid cell colour %d", c))
	}
}
