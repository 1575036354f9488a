package display

import "image/color"

// Overlay is a small bitmap drawn on top of whatever the strip shows. Each
// mask byte is one row; the most significant bit is the leftmost column.
type Overlay struct {
	Name  string
	Top   int
	Left  int
	Rows  []uint8
	Color color.RGBA
}

// PauseIcon is two vertical bars.
var PauseIcon = Overlay{
	Name: "pause",
	Top:  3,
	Rows: []uint8{
		0b00010100,
		0b00010100,
		0b00010100,
		0b00010100,
	},
	Color: rgb(50, 50, 50),
}

// PlayAgainIcon is a play triangle with a looping arrow, shown after game over.
var PlayAgainIcon = Overlay{
	Name: "play-again",
	Top:  2,
	Rows: []uint8{
		0b01000010,
		0b01100101,
		0b01110001,
		0b01100010,
		0b01000010,
	},
	Color: rgb(100, 100, 100),
}
