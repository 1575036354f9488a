package game

import "nifri2/neomatrix/internal/remote"

// Action is what a remote button means to the loop.
type Action int

const (
	ActionNone Action = iota
	ActionRedraw
	ActionQuit
	ActionPause
	ActionMove
)

// Control pairs an action with the move it produces, if any.
type Control struct {
	Action Action
	Move   Move
}

var controls = map[remote.Button]Control{
	remote.ButtonOn:    {Action: ActionRedraw},
	remote.ButtonOff:   {Action: ActionQuit, Move: MoveQuit},
	remote.ButtonNight: {Action: ActionPause},
	remote.ButtonOne:   {Action: ActionMove, Move: MoveLeft},
	remote.ButtonTwo:   {Action: ActionMove, Move: MoveUp},
	remote.ButtonThree: {Action: ActionMove, Move: MoveDown},
	remote.ButtonFour:  {Action: ActionMove, Move: MoveRight},
	// Brightness keys are accepted but do nothing in game.
	remote.ButtonBrightDown: {},
	remote.ButtonBrightUp:   {},
}

// ControlFor maps a button to its in-game meaning. Unknown buttons and
// ButtonNone map to the zero Control.
func ControlFor(b remote.Button) Control {
	return controls[b]
}
