// internal/keyseq/injector.go
package keyseq

import (
	"fmt"
	"strings"
)

// Method names an injection strategy.
type Method string

const (
	MethodSendInput  Method = "sendinput"
	MethodKeybdEvent Method = "keybd_event"
	MethodXTest      Method = "xtest"
	MethodRobotgo    Method = "robotgo"
	MethodDryRun     Method = "dryrun"
)

// ParseMethod accepts the method names plus a few spellings used by the old
// dropdown ("SendInput", "keybd_event").
func ParseMethod(raw string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sendinput", "send_input", "send-input":
		return MethodSendInput, nil
	case "keybd_event", "keybdevent", "keybd-event", "legacy":
		return MethodKeybdEvent, nil
	case "xtest", "x11":
		return MethodXTest, nil
	case "robotgo":
		return MethodRobotgo, nil
	case "dryrun", "dry-run", "none":
		return MethodDryRun, nil
	default:
		return "", fmt.Errorf("unknown injection method %q (expected sendinput|keybd_event|xtest|robotgo|dryrun)", raw)
	}
}

// Injector writes key transitions to the OS input stream.
//
// Dispatch receives a whole down- or up-sequence. Bulk injectors submit it in
// one call; single-event injectors submit one call per event, in order.
type Injector interface {
	Method() Method

	// Check reports whether codes can be injected at all. It is called
	// before anything is sent and must not touch the input stream.
	Check(codes KeyCodePair) error

	Dispatch(events []InjectionEvent) error
}
