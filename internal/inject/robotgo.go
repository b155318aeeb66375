package inject

import (
	"fmt"

	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/go-vgo/robotgo"
	"github.com/sirupsen/logrus"
)

// Robotgo injects through robotgo, one toggle per event. It only knows keys
// by name, so raw scan codes and unmapped virtual keys are refused.
type Robotgo struct {
	log logrus.FieldLogger
}

func NewRobotgo(log logrus.FieldLogger) *Robotgo {
	return &Robotgo{log: log}
}

func (r *Robotgo) Method() keyseq.Method { return keyseq.MethodRobotgo }

func (r *Robotgo) Check(codes keyseq.KeyCodePair) error {
	if codes.ScanOnly() {
		return unsupported(keyseq.MethodRobotgo, codes, "scan codes are not supported")
	}
	if _, ok := robotgoKeyName(codes.VirtualKey); !ok {
		return unsupported(keyseq.MethodRobotgo, codes, "no key name for this virtual-key code")
	}
	return nil
}

func (r *Robotgo) Dispatch(events []keyseq.InjectionEvent) error {
	var firstErr error
	for _, ev := range events {
		name, ok := robotgoKeyName(ev.Codes.VirtualKey)
		if !ok {
			continue
		}
		dir := "down"
		if ev.Phase == keyseq.PhaseUp {
			dir = "up"
		}
		if err := robotgo.KeyToggle(name, dir); err != nil {
			r.log.WithError(err).WithField("key", name).Warn("robotgo key toggle failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("robotgo %s %s: %w", name, dir, err)
			}
		}
	}
	return firstErr
}
