// cmd/fkeysender/logging_test.go
package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRedactLine_SecretsAndHints(t *testing.T) {
	cfg = defaultSettings()
	addSecret("s3cr3t-value")

	cases := []struct {
		in, want string
	}{
		{"token is s3cr3t-value here\n", "token is [REDACTED] here\n"},
		{"GET /status?token=abc123&x=1\n", "GET /status?token=[REDACTED]&x=1\n"},
		{"x-fkeysender-token=zzz other\n", "x-fkeysender-token=[REDACTED] other\n"},
		{"nothing to hide\n", "nothing to hide\n"},
	}
	for _, tc := range cases {
		if got := redactLine(tc.in); got != tc.want {
			t.Fatalf("redactLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactLine_Disabled(t *testing.T) {
	cfg = defaultSettings()
	off := false
	cfg.Logging.Redact = &off
	defer func() { cfg = defaultSettings() }()

	in := "token=abc\n"
	if got := redactLine(in); got != in {
		t.Fatalf("redaction disabled but got %q", got)
	}
}

func TestLineSanitizingWriter_BuffersPartialLines(t *testing.T) {
	cfg = defaultSettings()
	var out bytes.Buffer
	w := newLineSanitizingWriter(&out)

	_, _ = w.Write([]byte("token=ab"))
	if out.Len() != 0 {
		t.Fatalf("partial line must not be flushed, got %q", out.String())
	}
	_, _ = w.Write([]byte("cd rest\nnext"))
	if got := out.String(); got != "token=[REDACTED] rest\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, ok := range []string{"", "debug", "INFO", "warn", "warning", "error"} {
		if _, err := parseLogLevel(ok); err != nil {
			t.Fatalf("parseLogLevel(%q): %v", ok, err)
		}
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestRotatingFile_RotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fkeysender.log")
	w, err := openRotatingFile(logFileOptions{Path: path, MaxBytes: 10, Keep: 1})
	if err != nil {
		t.Fatalf("openRotatingFile: %v", err)
	}
	defer w.Close()

	for i := 0; i < 3; i++ {
		if _, err := w.Write([]byte("1234567\n")); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	rotated, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(rotated) != 1 {
		t.Fatalf("expected 1 rotated file kept, got %d", len(rotated))
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Size() != 8 {
		t.Fatalf("current log should hold only the last write, size=%d", fi.Size())
	}
}

func TestRotatingFile_ReopensAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fkeysender.log")
	w, err := openRotatingFile(logFileOptions{Path: path, MaxBytes: 1 << 20, Keep: 2})
	if err != nil {
		t.Fatalf("openRotatingFile: %v", err)
	}
	_, _ = w.Write([]byte("first\n"))
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("write after Close: %v", err)
	}
	w.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "first\nsecond\n" {
		t.Fatalf("log contents = %q", b)
	}
}

func TestLogFileOptionsFor(t *testing.T) {
	s := defaultSettings()
	if _, ok := logFileOptionsFor(s.Logging); ok {
		t.Fatalf("no file or dir configured, expected no log file")
	}

	s.Logging.Dir = "/var/log/fk"
	opts, ok := logFileOptionsFor(s.Logging)
	if !ok || opts.Path != filepath.Join("/var/log/fk", defaultLogName) {
		t.Fatalf("dir fallback = %+v, %v", opts, ok)
	}
	if opts.MaxBytes != 10<<20 || opts.Keep != 10 {
		t.Fatalf("rotation defaults = %+v", opts)
	}

	s.Logging.File = "/tmp/explicit.log"
	if opts, _ := logFileOptionsFor(s.Logging); opts.Path != "/tmp/explicit.log" {
		t.Fatalf("file should win over dir, got %q", opts.Path)
	}
}

func TestLogDestination_FileOnly(t *testing.T) {
	s := defaultSettings()
	off := false
	s.Logging.Stderr = &off
	s.Logging.Dir = t.TempDir()

	dst, closer, err := logDestination(s.Logging)
	if err != nil {
		t.Fatalf("logDestination: %v", err)
	}
	if closer == nil {
		t.Fatalf("expected a log file to be opened")
	}
	defer closer.Close()

	if _, err := io.WriteString(dst, "hello\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(s.Logging.Dir, defaultLogName))
	if err != nil || string(b) != "hello\n" {
		t.Fatalf("log file = %q, %v", b, err)
	}
}
