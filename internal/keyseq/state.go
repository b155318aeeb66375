package keyseq

import "image/color"

type State int

const (
	StateIdle State = iota
	StatePreDelay
	StateKeyHeld
	StateReleasing
	StateCancelling
)

func (s State) String() string {
	switch s {
	case StatePreDelay:
		return "pre-delay"
	case StateKeyHeld:
		return "key-held"
	case StateReleasing:
		return "releasing"
	case StateCancelling:
		return "cancelling"
	default:
		return "idle"
	}
}

// Status is the text shown in the status bar for s.
func (s State) Status() string {
	switch s {
	case StatePreDelay:
		return "Waiting Before Sending..."
	case StateKeyHeld:
		return "Holding Key..."
	case StateReleasing:
		return "Releasing Key..."
	case StateCancelling:
		return "Cancelling..."
	default:
		return "Ready"
	}
}

var (
	colorReady      = color.NRGBA{A: 0xff}
	colorWaiting    = color.NRGBA{R: 0x80, B: 0x80, A: 0xff}
	colorHolding    = color.NRGBA{G: 0x80, A: 0xff}
	colorCancelling = color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}

	// ColorCancelled is used for the "Ready (Operation Cancelled)" status.
	ColorCancelled = color.NRGBA{R: 0x8b, G: 0x45, B: 0x13, A: 0xff}
)

// Color is the status text color for s.
func (s State) Color() color.Color {
	switch s {
	case StatePreDelay:
		return colorWaiting
	case StateKeyHeld, StateReleasing:
		return colorHolding
	case StateCancelling:
		return colorCancelling
	default:
		return colorReady
	}
}

// Observer is told about every state change. Calls come from the goroutine
// running Send; implementations own any thread hopping they need.
type Observer interface {
	OnState(state State)
	OnControls(enabled bool)
}

type nopObserver struct{}

func (nopObserver) OnState(State)   {}
func (nopObserver) OnControls(bool) {}
