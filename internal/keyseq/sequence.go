package keyseq

import "fmt"

type Phase int

const (
	PhaseDown Phase = iota
	PhaseUp
)

func (p Phase) String() string {
	if p == PhaseUp {
		return "up"
	}
	return "down"
}

// InjectionEvent is one key transition handed to an Injector.
type InjectionEvent struct {
	Codes KeyCodePair
	Phase Phase
}

func (e InjectionEvent) String() string {
	return fmt.Sprintf("%s %s", e.Codes, e.Phase)
}

type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

func (m Modifiers) String() string {
	s := ""
	if m.Ctrl {
		s += "Ctrl+"
	}
	if m.Shift {
		s += "Shift+"
	}
	if m.Alt {
		s += "Alt+"
	}
	return s
}

// BuildSequence returns the press order (ctrl, shift, alt, target) and the
// release order, which is always its exact reverse.
//
// Modifiers carry the target's extended flag, same as the legacy sender.
func BuildSequence(target KeyCodePair, mods Modifiers) (down, up []InjectionEvent) {
	keys := make([]KeyCodePair, 0, 4)
	if mods.Ctrl {
		keys = append(keys, withExtended(modLCtrl, target.Extended))
	}
	if mods.Shift {
		keys = append(keys, withExtended(modLShift, target.Extended))
	}
	if mods.Alt {
		keys = append(keys, withExtended(modLAlt, target.Extended))
	}
	keys = append(keys, target)

	down = make([]InjectionEvent, 0, len(keys))
	up = make([]InjectionEvent, 0, len(keys))
	for _, k := range keys {
		down = append(down, InjectionEvent{Codes: k, Phase: PhaseDown})
	}
	for i := len(keys) - 1; i >= 0; i-- {
		up = append(up, InjectionEvent{Codes: keys[i], Phase: PhaseUp})
	}
	return down, up
}

func withExtended(p KeyCodePair, extended bool) KeyCodePair {
	p.Extended = extended
	return p
}
