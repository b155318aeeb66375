// cmd/fkeysender/syslog_hook_test.go
package main

import (
	"testing"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
)

func TestSystemLogHookUsesSystemLogger(t *testing.T) {
	hook, err := newSystemLogHook("FKeySenderTest")
	if err != nil {
		t.Skipf("no system log on this host: %v", err)
	}
	h, ok := hook.(*systemLogHook)
	if !ok {
		t.Fatalf("unexpected hook type %T", hook)
	}
	if h.logger == service.ConsoleLogger {
		t.Fatalf("hook writes to the console logger, not the system log")
	}
}

func TestSystemLogHookSkipsDebug(t *testing.T) {
	h := &systemLogHook{}
	for _, l := range h.Levels() {
		if l == logrus.DebugLevel || l == logrus.TraceLevel {
			t.Fatalf("level %v should not reach the system log", l)
		}
	}
}
