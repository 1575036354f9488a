package game

import "nifri2/neomatrix/internal/display"

// Sandbox is a tiny stand-in engine used by the simulator and bench tests:
// single cells fall, can be steered, and full rows clear. It is not Tetris.
type Sandbox struct {
	rows, cols int
	settled    display.Board
	frame      display.Board

	row, col int
	color    display.CellColor
	gravity  int
	ticks    int

	over         bool
	level, score int
}

const sandboxGravity = 30

func NewSandbox(rows, cols int) *Sandbox {
	s := &Sandbox{
		rows:    rows,
		cols:    cols,
		settled: display.NewBoard(rows, cols),
		frame:   display.NewBoard(rows, cols),
		gravity: sandboxGravity,
		color:   display.CellI,
		level:   1,
	}
	s.spawn()
	return s
}

// SandboxFactory starts a new sandbox game of the given size per call.
func SandboxFactory(rows, cols int) Factory {
	return func() Engine { return NewSandbox(rows, cols) }
}

func (s *Sandbox) Tick(m Move) {
	if s.over {
		return
	}

	switch m {
	case MoveLeft:
		s.shift(-1)
	case MoveRight:
		s.shift(1)
	case MoveDown:
		s.fall()
	case MoveUp:
		s.color = nextColor(s.color)
	case MoveQuit:
		s.over = true
		return
	}

	s.ticks++
	if s.ticks%s.gravity == 0 {
		s.fall()
	}
}

func (s *Sandbox) Board() display.Board {
	for r := range s.settled {
		copy(s.frame[r], s.settled[r])
	}
	if !s.over {
		s.frame[s.row][s.col] = s.color
	}
	return s.frame
}

func (s *Sandbox) Over() bool { return s.over }

func (s *Sandbox) Score() (int, int) { return s.level, s.score }

func (s *Sandbox) free(row, col int) bool {
	return row >= 0 && row < s.rows && col >= 0 && col < s.cols && s.settled[row][col] == display.Empty
}

func (s *Sandbox) shift(d int) {
	if s.free(s.row, s.col+d) {
		s.col += d
	}
}

func (s *Sandbox) fall() {
	if s.free(s.row+1, s.col) {
		s.row++
		return
	}
	s.settled[s.row][s.col] = s.color
	s.clearRows()
	s.color = nextColor(s.color)
	s.spawn()
}

func (s *Sandbox) spawn() {
	s.row, s.col = 0, s.cols/2
	if !s.free(s.row, s.col) {
		s.over = true
	}
}

func (s *Sandbox) clearRows() {
	for r := s.rows - 1; r >= 0; {
		full := true
		for _, cell := range s.settled[r] {
			if cell == display.Empty {
				full = false
				break
			}
		}
		if !full {
			r--
			continue
		}

		for rr := r; rr > 0; rr-- {
			copy(s.settled[rr], s.settled[rr-1])
		}
		for c := range s.settled[0] {
			s.settled[0][c] = display.Empty
		}
		s.score++
		s.level = s.score/10 + 1
	}
}

func nextColor(c display.CellColor) display.CellColor {
	if c >= display.CellI {
		return display.CellS
	}
	return c + 1
}
