// cmd/fkeysender/send_test.go
package main

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/OsbornePro/FKeySender/internal/keyseq"
)

func TestParseSendArgs(t *testing.T) {
	cfg = defaultSettings()
	cfg.Send.Method = "dryrun"

	req, err := parseSendArgs([]string{"--ctrl", "--hold", "250ms", "--delay", "1s", "F17"}, io.Discard)
	if err != nil {
		t.Fatalf("parseSendArgs: %v", err)
	}
	if req.Target != keyseq.Named("F17") {
		t.Fatalf("target = %v", req.Target)
	}
	if !req.Modifiers.Ctrl || req.Modifiers.Shift || req.Modifiers.Alt {
		t.Fatalf("modifiers = %+v", req.Modifiers)
	}
	if req.Hold != 250*time.Millisecond || req.PreDelay != time.Second {
		t.Fatalf("durations = %v / %v", req.PreDelay, req.Hold)
	}
	if req.Method != keyseq.MethodDryRun {
		t.Fatalf("method = %q", req.Method)
	}

	req, err = parseSendArgs([]string{"--scan", "E01D"}, io.Discard)
	if err != nil {
		t.Fatalf("parseSendArgs scan: %v", err)
	}
	if req.Target != keyseq.ScanCode("E01D") {
		t.Fatalf("target = %v", req.Target)
	}
	if req.Hold != time.Duration(cfg.Send.HoldMillis())*time.Millisecond {
		t.Fatalf("hold should default from config, got %v", req.Hold)
	}
}

func TestParseSendArgs_ZeroHoldFromConfig(t *testing.T) {
	cfg = defaultSettings()
	zero := 0
	cfg.Send.HoldMs = &zero
	defer func() { cfg = defaultSettings() }()

	req, err := parseSendArgs([]string{"F18"}, io.Discard)
	if err != nil {
		t.Fatalf("parseSendArgs: %v", err)
	}
	if req.Hold != 0 {
		t.Fatalf("hold = %v, want 0", req.Hold)
	}
}

func TestParseSendArgs_DryRunOverridesMethod(t *testing.T) {
	cfg = defaultSettings()
	req, err := parseSendArgs([]string{"--method", "sendinput", "--dry-run", "F13"}, io.Discard)
	if err != nil {
		t.Fatalf("parseSendArgs: %v", err)
	}
	if req.Method != keyseq.MethodDryRun {
		t.Fatalf("method = %q, want dryrun", req.Method)
	}
}

func TestParseSendArgs_Rejects(t *testing.T) {
	cfg = defaultSettings()
	cases := [][]string{
		{},
		{"F13", "F14"},
		{"--vk", "7C", "--scan", "1D"},
		{"--vk", "7C", "F13"},
		{"--method", "bogus", "F13"},
		{"--hold", "-1s", "F13"},
		{"--nope", "F13"},
	}
	for _, args := range cases {
		if _, err := parseSendArgs(args, io.Discard); err == nil {
			t.Fatalf("parseSendArgs(%q) should fail", args)
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{fmt.Errorf("%w: ctx", keyseq.ErrCancelled), exitCancelled},
		{fmt.Errorf("vk %q: %w", "ZZ", keyseq.ErrInvalidKeyFormat), exitUsage},
		{keyseq.ErrMissingModeSelection, exitUsage},
		{keyseq.ErrUnsupportedOperation, exitUsage},
		{errors.New("boom"), exitFailure},
	}
	for _, tc := range cases {
		if got := exitCodeFor(tc.err); got != tc.want {
			t.Fatalf("exitCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestSendOnceDryRun(t *testing.T) {
	cfg = defaultSettings()
	req := keyseq.SendRequest{
		Target:    keyseq.Named("F20"),
		Modifiers: keyseq.Modifiers{Shift: true},
		Hold:      10 * time.Millisecond,
		Method:    keyseq.MethodDryRun,
	}
	if code := sendOnce(req, io.Discard); code != exitOK {
		t.Fatalf("sendOnce = %d, want %d", code, exitOK)
	}
}
