// internal/inject/inject.go
package inject

import (
	"fmt"
	"runtime"

	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
)

// DefaultMethod is the preferred injection method for this OS.
func DefaultMethod() keyseq.Method {
	switch runtime.GOOS {
	case "windows":
		return keyseq.MethodSendInput
	case "linux":
		return keyseq.MethodXTest
	default:
		return keyseq.MethodRobotgo
	}
}

// Open builds every injector that can work here. Failures to open optional
// backends (no X display, for instance) are logged and skipped. The returned
// closer releases backend connections.
func Open(log logrus.FieldLogger) ([]keyseq.Injector, func()) {
	injectors := []keyseq.Injector{NewDryRun(log)}
	var closers []func()

	for _, open := range platformOpeners() {
		inj, closeFn, err := open(log)
		if err != nil {
			log.WithError(err).Debug("injection backend unavailable")
			continue
		}
		injectors = append(injectors, inj)
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}
	injectors = append(injectors, NewRobotgo(log))

	return injectors, func() {
		for _, c := range closers {
			c()
		}
	}
}

type opener func(log logrus.FieldLogger) (keyseq.Injector, func(), error)

func unsupported(m keyseq.Method, codes keyseq.KeyCodePair, why string) error {
	return fmt.Errorf("%s cannot send %s (%s): %w", m, codes, why, keyseq.ErrUnsupportedOperation)
}
