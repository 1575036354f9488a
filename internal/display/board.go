package display

import (
	"fmt"
	"io"
)

// Board is the engine's grid of cell colours, indexed [row][col].
type Board [][]CellColor

// NewBoard returns a rows x cols board with every cell Empty.
func NewBoard(rows, cols int) Board {
	b := make(Board, rows)
	for r := range b {
		b[r] = make([]CellColor, cols)
		for c := range b[r] {
			b[r][c] = Empty
		}
	}
	return b
}

func (b Board) Rows() int { return len(b) }

func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Dump prints the board with row and column headers. Empty cells are blank.
func (b Board) Dump(w io.Writer) {
	fmt.Fprint(w, "   ")
	for c := 0; c < b.Cols(); c++ {
		fmt.Fprintf(w, "%-4d", c)
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, "   ")
	for c := 0; c < b.Cols(); c++ {
		fmt.Fprint(w, "----")
	}
	fmt.Fprintln(w, "----")

	for r, row := range b {
		fmt.Fprintf(w, "%-3d| ", r)
		for _, cell := range row {
			if cell >= 0 {
				fmt.Fprintf(w, "%-3d ", cell)
			} else {
				fmt.Fprint(w, "    ")
			}
		}
		fmt.Fprintln(w, "|")
	}
}
