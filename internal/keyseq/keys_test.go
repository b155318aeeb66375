package keyseq

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveSymbolicKeysAnyCase(t *testing.T) {
	want := map[string]KeyCodePair{
		"F13": {VirtualKey: 0x7C, ScanCode: 100},
		"F17": {VirtualKey: 0x80, ScanCode: 104},
		"F20": {VirtualKey: 0x83, ScanCode: 107},
		"F24": {VirtualKey: 0x87, ScanCode: 118},
		"X":   {VirtualKey: 0x58, ScanCode: 45},
	}
	for name, pair := range want {
		for _, variant := range []string{name, strings.ToLower(name), " " + name + " "} {
			got, err := Resolve(Named(variant))
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", variant, err)
			}
			if got != pair {
				t.Fatalf("Resolve(%q)=%v want %v", variant, got, pair)
			}
		}
	}
}

func TestEveryTableKeyResolves(t *testing.T) {
	names := KeyNames()
	if len(names) != 13 {
		t.Fatalf("KeyNames() has %d entries, want 13", len(names))
	}
	if names[0] != "F13" || names[11] != "F24" || names[12] != "X" {
		t.Fatalf("unexpected key order: %v", names)
	}
	for _, name := range names {
		got, err := Resolve(Named(name))
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", name, err)
		}
		if got.Extended {
			t.Fatalf("symbolic key %q should not be extended", name)
		}
	}
}

func TestParseHexCodeValid(t *testing.T) {
	cases := []struct {
		in       string
		value    uint16
		extended bool
	}{
		{in: "7C", value: 0x7C},
		{in: "7c", value: 0x7C},
		{in: "0x7C", value: 0x7C},
		{in: "0X87", value: 0x87},
		{in: "  58  ", value: 0x58},
		{in: "FFFF", value: 0xFFFF},
		{in: "E013", value: 0x13, extended: true},
		{in: "e05b", value: 0xE05B, extended: false},
		{in: "0xe013", value: 0xE013, extended: false},
		{in: "0xE01D", value: 0x1D, extended: true},
		{in: "E0", value: 0xE0},
		{in: "E0 48", value: 0x48, extended: true},
	}
	for _, tc := range cases {
		v, ext, err := ParseHexCode(tc.in)
		if err != nil {
			t.Fatalf("ParseHexCode(%q) error = %v", tc.in, err)
		}
		if v != tc.value || ext != tc.extended {
			t.Fatalf("ParseHexCode(%q)=(0x%X,%v) want (0x%X,%v)", tc.in, v, ext, tc.value, tc.extended)
		}
	}
}

func TestParseHexCodeInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "0x", "ZZ", "7G", "hello", "12-34", "0x7C!", "1 2", "10000", "E0FFFFF", "#7C"} {
		_, _, err := ParseHexCode(in)
		if !errors.Is(err, ErrInvalidKeyFormat) {
			t.Fatalf("ParseHexCode(%q) err = %v, want ErrInvalidKeyFormat", in, err)
		}
	}
}

func TestResolveCustomCodes(t *testing.T) {
	got, err := Resolve(VirtualKey("0x7C"))
	if err != nil {
		t.Fatalf("Resolve(vk) error = %v", err)
	}
	if got != (KeyCodePair{VirtualKey: 0x7C}) {
		t.Fatalf("Resolve(vk)=%v", got)
	}

	got, err = Resolve(ScanCode("E013"))
	if err != nil {
		t.Fatalf("Resolve(scan) error = %v", err)
	}
	if got != (KeyCodePair{ScanCode: 0x13, Extended: true}) {
		t.Fatalf("Resolve(scan)=%v", got)
	}
	if !got.ScanOnly() {
		t.Fatalf("expected scan-only pair")
	}

	got, err = Resolve(VirtualKey("e013"))
	if err != nil {
		t.Fatalf("Resolve(vk e013) error = %v", err)
	}
	if got != (KeyCodePair{VirtualKey: 0xE013}) {
		t.Fatalf("lower-case e0 must not mark extended, got %v", got)
	}

	if _, err := Resolve(VirtualKey("ZZ")); !errors.Is(err, ErrInvalidKeyFormat) {
		t.Fatalf("Resolve(vk ZZ) err = %v, want ErrInvalidKeyFormat", err)
	}
	if _, err := Resolve(Named("7C")); !errors.Is(err, ErrMissingModeSelection) {
		t.Fatalf("Resolve(named 7C) err = %v, want ErrMissingModeSelection", err)
	}
}

func TestParseMethod(t *testing.T) {
	cases := map[string]Method{
		"SendInput":   MethodSendInput,
		"keybd_event": MethodKeybdEvent,
		"legacy":      MethodKeybdEvent,
		"X11":         MethodXTest,
		"robotgo":     MethodRobotgo,
		"dry-run":     MethodDryRun,
	}
	for in, want := range cases {
		got, err := ParseMethod(in)
		if err != nil || got != want {
			t.Fatalf("ParseMethod(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseMethod("postmessage"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}
