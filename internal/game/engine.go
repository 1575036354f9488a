// Package game runs the appliance's outer loop around a game engine: it turns
// remote buttons into moves, ticks the engine and pushes frames to the display.
package game

import "nifri2/neomatrix/internal/display"

// Move is the discrete command an engine accepts each tick.
type Move int

const (
	MoveNone Move = iota
	MoveLeft
	MoveUp
	MoveDown
	MoveRight
	MoveQuit
)

func (m Move) String() string {
	switch m {
	case MoveNone:
		return "none"
	case MoveLeft:
		return "left"
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveRight:
		return "right"
	case MoveQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Engine is the game rules. The loop owns it from a single goroutine.
type Engine interface {
	Tick(m Move)
	// Board returns the current grid. The loop reads it between ticks only.
	Board() display.Board
	Over() bool
	Score() (level, score int)
}

// Factory starts a fresh game.
type Factory func() Engine
