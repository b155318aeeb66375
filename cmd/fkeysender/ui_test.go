// cmd/fkeysender/ui_test.go
package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OsbornePro/FKeySender/internal/inject"
	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeButton struct {
	disabled bool
}

func (b *fakeButton) Enable()  { b.disabled = false }
func (b *fakeButton) Disable() { b.disabled = true }

func TestPressCancelDisablesButton(t *testing.T) {
	log, _ := test.NewNullLogger()
	seq := keyseq.NewSequencer([]keyseq.Injector{inject.NewDryRun(log)}, nil, log)
	btn := &fakeButton{}

	pressCancel(seq, btn)
	if btn.disabled {
		t.Fatalf("nothing in flight; the button should stay as it was")
	}

	done, err := seq.Start(context.Background(), keyseq.SendRequest{
		Target:   keyseq.Named("F19"),
		PreDelay: 5 * time.Second,
		Method:   keyseq.MethodDryRun,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	pressCancel(seq, btn)
	if !btn.disabled {
		t.Fatalf("Cancel button should be disabled once pressed")
	}
	if err := <-done; !keyseq.IsCancelled(err) {
		t.Fatalf("send result = %v, want cancelled", err)
	}
}

func TestParseDelaySeconds(t *testing.T) {
	cases := map[string]time.Duration{
		"":    0,
		"0":   0,
		"3":   3 * time.Second,
		"1.5": 1500 * time.Millisecond,
	}
	for in, want := range cases {
		got, err := parseDelaySeconds(in)
		if err != nil || got != want {
			t.Fatalf("parseDelaySeconds(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"-1", "soon"} {
		if _, err := parseDelaySeconds(bad); err == nil {
			t.Fatalf("parseDelaySeconds(%q) should fail", bad)
		}
	}
}

func TestParseHoldMillis(t *testing.T) {
	cfg = defaultSettings()
	if got, err := parseHoldMillis("250"); err != nil || got != 250*time.Millisecond {
		t.Fatalf("parseHoldMillis(250) = %v, %v", got, err)
	}
	if got, _ := parseHoldMillis(""); got != 100*time.Millisecond {
		t.Fatalf("empty hold should use config default, got %v", got)
	}
	if _, err := parseHoldMillis("1.5"); err == nil {
		t.Fatalf("fractional hold should fail")
	}
}

func TestCustomTargetNeedsMode(t *testing.T) {
	if _, err := customTarget("7C", ""); !errors.Is(err, keyseq.ErrMissingModeSelection) {
		t.Fatalf("expected ErrMissingModeSelection, got %v", err)
	}
	if id, err := customTarget("7C", customModeVK); err != nil || id != keyseq.VirtualKey("7C") {
		t.Fatalf("VK mode = %v, %v", id, err)
	}
	if id, err := customTarget("E01D", customModeSC); err != nil || id != keyseq.ScanCode("E01D") {
		t.Fatalf("SC mode = %v, %v", id, err)
	}
}

func TestPickHelpers(t *testing.T) {
	items := pickItems()
	if items[0] != "F13" || items[len(items)-1] != pickCustomScan {
		t.Fatalf("unexpected pick items %v", items)
	}
	if err := validateHex("0x7C"); err != nil {
		t.Fatalf("validateHex(0x7C): %v", err)
	}
	if err := validateHex("GG"); err == nil {
		t.Fatalf("validateHex(GG) should fail")
	}
	if err := validateMillis("-5"); err == nil {
		t.Fatalf("validateMillis(-5) should fail")
	}
}
