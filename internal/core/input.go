package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionJump           // Space, W, Up - jump press; a press while airborne glides
	ActionRelease        // synthesized when the jump key stops repeating, or S/Down
	ActionConfirm        // Enter - start from the title screen
	ActionPause          // P, Escape - pause/unpause
	ActionRestart        // R - restart after game over
	ActionShare          // S on the game over screen
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionRelease:
		return "Release"
	case ActionConfirm:
		return "Confirm"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionShare:
		return "Share"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions delivered between two simulation ticks.
// Actions keep their arrival order so a press followed by a release is not
// confused with a release followed by a press.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make([]Action, 0, 4)}
}

// Set appends an action to the frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Clear resets the frame for the next tick, keeping its storage.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}
