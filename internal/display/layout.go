package display

import "fmt"

// Matrix geometry of the 8x32 panel the appliance ships with.
const (
	Rows       = 32
	Cols       = 8
	PixelCount = Rows * Cols
)

// DefaultLayout maps the stock panel: LED 0 sits at the top right corner and
// the strip winds back and forth down to LED 255 at the bottom right.
var DefaultLayout = Serpentine(Rows, Cols, true)

// Layout is a precomputed (row, col) to strip index table.
type Layout struct {
	rows  int
	cols  int
	table []uint16 // row major
}

// Serpentine builds the table for a strip whose rows alternate direction.
// Row r always owns indices [r*cols, (r+1)*cols). When firstReversed is set,
// even rows run right to left and odd rows left to right.
func Serpentine(rows, cols int, firstReversed bool) Layout {
	if rows <= 0 || cols <= 0 {
		panic("display: layout needs a positive size")
	}

	l := Layout{rows: rows, cols: cols, table: make([]uint16, rows*cols)}
	for i := 0; i < rows*cols; i++ {
		row := i / cols
		offset := i % cols
		reversed := row%2 == 0
		if !firstReversed {
			reversed = !reversed
		}

		col := offset
		if reversed {
			col = cols - offset - 1
		}
		l.table[row*cols+col] = uint16(i)
	}
	return l
}

// NewLayout wraps a hand written table. The table must be rectangular and
// address every strip index in [0, rows*cols) exactly once, otherwise a
// frame could write the same LED twice.
func NewLayout(table [][]int) Layout {
	if len(table) == 0 || len(table[0]) == 0 {
		panic("display: empty layout table")
	}

	rows, cols := len(table), len(table[0])
	l := Layout{rows: rows, cols: cols, table: make([]uint16, rows*cols)}
	seen := make([]bool, rows*cols)

	for r, line := range table {
		if len(line) != cols {
			panic(fmt.Sprintf("display: layout row %d has %d columns, want %d", r, len(line), cols))
		}
		for c, idx := range line {
			if idx < 0 || idx >= rows*cols {
				panic(fmt.Sprintf("display: layout [%d][%d]=%d outside strip", r, c, idx))
			}
			if seen[idx] {
				panic(fmt.Sprintf("display: layout addresses LED %d twice", idx))
			}
			seen[idx] = true
			l.table[r*cols+c] = uint16(idx)
		}
	}
	return l
}

func (l Layout) Rows() int { return l.rows }
func (l Layout) Cols() int { return l.cols }
func (l Layout) Len() int  { return l.rows * l.cols }

// Index returns the strip position of the board cell at (row, col).
func (l Layout) Index(row, col int) int {
	if row < 0 || row >= l.rows || col < 0 || col >= l.cols {
		panic(fmt.Sprintf("display: cell (%d,%d) outside %dx%d matrix", row, col, l.rows, l.cols))
	}
	return int(l.table[row*l.cols+col])
}
