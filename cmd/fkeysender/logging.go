// cmd/fkeysender/logging.go
package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	redactMu sync.RWMutex
	secrets  = map[string]struct{}{}

	secretReplacer atomic.Value // stores *strings.Replacer
)

func parseLogLevel(value string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warning", "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q (expected debug|info|warning|error)", value)
	}
}

// initLogging points the standard logrus logger at stderr and/or the
// rotating log file, behind the redacting writer.
func initLogging() error {
	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	dst, file, err := logDestination(cfg.Logging)
	if file != nil {
		logrus.RegisterExitHandler(func() { _ = file.Close() })
	}
	logrus.SetOutput(newLineSanitizingWriter(dst))
	if err != nil {
		logrus.WithError(err).Warn("log file unavailable; logging to stderr only")
	}

	if cfg.Logging.System {
		hook, err := newSystemLogHook("FKeySender")
		if err != nil {
			logrus.WithError(err).Warn("system log unavailable")
		} else {
			logrus.AddHook(hook)
		}
	}

	rebuildSecretReplacer()
	return nil
}

func loggingRedactEnabled() bool {
	if cfg.Logging.Redact == nil {
		return true
	}
	return *cfg.Logging.Redact
}

// addSecret makes s show up as [REDACTED] in every later log line.
func addSecret(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}

	redactMu.Lock()
	defer redactMu.Unlock()
	if _, ok := secrets[s]; ok {
		return
	}
	secrets[s] = struct{}{}
	rebuildSecretReplacerLocked()
}

func rebuildSecretReplacer() {
	redactMu.Lock()
	defer redactMu.Unlock()
	rebuildSecretReplacerLocked()
}

func rebuildSecretReplacerLocked() {
	pairs := make([]string, 0, len(secrets)*2)
	for sec := range secrets {
		pairs = append(pairs, sec, "[REDACTED]")
	}
	secretReplacer.Store(strings.NewReplacer(pairs...))
}

type lineSanitizingWriter struct {
	dst io.Writer
	mu  sync.Mutex
	buf bytes.Buffer
}

func newLineSanitizingWriter(dst io.Writer) *lineSanitizingWriter {
	return &lineSanitizingWriter{dst: dst}
}

func (w *lineSanitizingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(p)
	_, _ = w.buf.Write(p)

	for {
		b := w.buf.Bytes()
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			break
		}
		line := string(b[:i+1])
		w.buf.Next(i + 1)

		if _, err := io.WriteString(w.dst, redactLine(line)); err != nil {
			return n, err
		}
	}
	return n, nil
}

func redactLine(line string) string {
	if !loggingRedactEnabled() {
		return line
	}

	out := line
	if v := secretReplacer.Load(); v != nil {
		if r, ok := v.(*strings.Replacer); ok {
			out = r.Replace(out)
		}
	}
	return redactKeyValueHints(out)
}

// Redact token-looking key/value pairs, including URL query params.
func redactKeyValueHints(s string) string {
	keys := []string{"token=", "token_hash=", strings.ToLower(cfg.Control.TokenHeader) + "="}
	out := s

	for _, k := range keys {
		from := 0
		for {
			lo := strings.ToLower(out)
			idx := strings.Index(lo[from:], k)
			if idx < 0 {
				break
			}
			start := from + idx + len(k)
			end := start
			for end < len(out) {
				ch := out[end]
				if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' ||
					ch == ',' || ch == '"' || ch == '\'' ||
					ch == '&' || ch == '?' || ch == '#' || ch == ';' ||
					ch == ')' || ch == ']' || ch == '}' {
					break
				}
				end++
			}
			if start < end && out[start:end] != "[REDACTED]" {
				out = out[:start] + "[REDACTED]" + out[end:]
			}
			from = start
		}
	}
	return out
}
