package inject

import (
	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
)

// DryRun logs events instead of sending them.
type DryRun struct {
	log logrus.FieldLogger
}

func NewDryRun(log logrus.FieldLogger) *DryRun {
	return &DryRun{log: log}
}

func (d *DryRun) Method() keyseq.Method { return keyseq.MethodDryRun }

func (d *DryRun) Check(keyseq.KeyCodePair) error { return nil }

func (d *DryRun) Dispatch(events []keyseq.InjectionEvent) error {
	for i, ev := range events {
		d.log.WithFields(logrus.Fields{
			"n":     i,
			"vk":    ev.Codes.VirtualKey,
			"scan":  ev.Codes.ScanCode,
			"ext":   ev.Codes.Extended,
			"phase": ev.Phase.String(),
		}).Info("dry-run key event")
	}
	return nil
}
