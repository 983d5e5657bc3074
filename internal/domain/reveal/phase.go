package reveal

// Phase is the sequencer state.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAwaitingReveal Phase = "awaiting_reveal"
	PhaseCountdown      Phase = "countdown"
	PhaseCelebrating    Phase = "celebrating"
	PhaseComplete       Phase = "complete"
)

// Busy reports whether timed playback owns the session and user input is ignored.
func (p Phase) Busy() bool {
	return p == PhaseCountdown || p == PhaseCelebrating
}

// Input is a user-facing trigger.
type Input string

const (
	InputStart   Input = "start"
	InputPrimary Input = "primary"
	InputAdvance Input = "advance"
	InputReset   Input = "reset"
)

// KeyInput maps a keyboard key to an input. Letter keys match either case.
func KeyInput(key string) (Input, bool) {
	switch key {
	case " ", "space", "Space", "Spacebar", "enter", "Enter":
		return InputPrimary, true
	case "n", "N":
		return InputAdvance, true
	case "r", "R":
		return InputReset, true
	case "s", "S":
		return InputStart, true
	}
	return "", false
}
