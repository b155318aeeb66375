// cmd/fkeysender/syslog_hook.go
package main

import (
	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
)

// systemLogHook forwards logrus entries to the platform system log
// (Event Log on Windows, syslog/journald elsewhere) via kardianos/service.
type systemLogHook struct {
	logger service.Logger
}

func newSystemLogHook(name string) (logrus.Hook, error) {
	// Not installed as a service; the instance only provides the logger.
	svc, err := service.New(nil, &service.Config{
		Name:        name,
		DisplayName: name,
		Description: "F13-F24 key sender",
	})
	if err != nil {
		return nil, err
	}

	// Logger would hand back the console logger in an interactive session.
	logger, err := svc.SystemLogger(nil)
	if err != nil {
		return nil, err
	}
	return &systemLogHook{logger: logger}, nil
}

func (h *systemLogHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel,
		logrus.WarnLevel, logrus.InfoLevel,
	}
}

func (h *systemLogHook) Fire(e *logrus.Entry) error {
	line, _ := e.String()
	line = redactLine(line)

	switch e.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return h.logger.Error(line)
	case logrus.WarnLevel:
		return h.logger.Warning(line)
	default:
		return h.logger.Info(line)
	}
}
