// internal/keyseq/keys.go
package keyseq

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// KeyCodePair is what an injector needs to synthesize one key transition.
// Custom codes populate only one of VirtualKey or ScanCode.
type KeyCodePair struct {
	VirtualKey uint16
	ScanCode   uint16
	Extended   bool
}

// ScanOnly reports whether the pair carries a scan code but no virtual key.
func (p KeyCodePair) ScanOnly() bool {
	return p.VirtualKey == 0 && p.ScanCode != 0
}

func (p KeyCodePair) String() string {
	s := fmt.Sprintf("vk=0x%02X scan=0x%02X", p.VirtualKey, p.ScanCode)
	if p.Extended {
		s += " ext"
	}
	return s
}

type KeyKind int

const (
	KindNamed KeyKind = iota
	KindVirtualKey
	KindScanCode
)

func (k KeyKind) String() string {
	switch k {
	case KindVirtualKey:
		return "vk"
	case KindScanCode:
		return "scan"
	default:
		return "named"
	}
}

// KeyIdentifier is a key as the user asked for it, before resolution.
type KeyIdentifier struct {
	Token string
	Kind  KeyKind
}

func Named(name string) KeyIdentifier { return KeyIdentifier{Token: name, Kind: KindNamed} }

func VirtualKey(hex string) KeyIdentifier { return KeyIdentifier{Token: hex, Kind: KindVirtualKey} }

func ScanCode(hex string) KeyIdentifier { return KeyIdentifier{Token: hex, Kind: KindScanCode} }

func (id KeyIdentifier) String() string {
	if id.Kind == KindNamed {
		return strings.ToUpper(strings.TrimSpace(id.Token))
	}
	return id.Kind.String() + ":" + strings.TrimSpace(id.Token)
}

// Scan codes are set-1 make codes, written in decimal to match the usual
// keyboard tables.
var symbolicKeys = map[string]KeyCodePair{
	"F13": {VirtualKey: 0x7C, ScanCode: 100},
	"F14": {VirtualKey: 0x7D, ScanCode: 101},
	"F15": {VirtualKey: 0x7E, ScanCode: 102},
	"F16": {VirtualKey: 0x7F, ScanCode: 103},
	"F17": {VirtualKey: 0x80, ScanCode: 104},
	"F18": {VirtualKey: 0x81, ScanCode: 105},
	"F19": {VirtualKey: 0x82, ScanCode: 106},
	"F20": {VirtualKey: 0x83, ScanCode: 107},
	"F21": {VirtualKey: 0x84, ScanCode: 108},
	"F22": {VirtualKey: 0x85, ScanCode: 109},
	"F23": {VirtualKey: 0x86, ScanCode: 110},
	"F24": {VirtualKey: 0x87, ScanCode: 118},
	"X":   {VirtualKey: 0x58, ScanCode: 45},
}

// Left-side modifiers. The extended flag is filled in per request.
var (
	modLCtrl  = KeyCodePair{VirtualKey: 0x11, ScanCode: 29}
	modLShift = KeyCodePair{VirtualKey: 0x10, ScanCode: 42}
	modLAlt   = KeyCodePair{VirtualKey: 0x12, ScanCode: 56}
)

// LookupKey returns the fixed codes for a symbolic key name.
func LookupKey(name string) (KeyCodePair, bool) {
	p, ok := symbolicKeys[strings.ToUpper(strings.TrimSpace(name))]
	return p, ok
}

// KeyNames lists the symbolic keys in button order (F13..F24, then X).
func KeyNames() []string {
	names := make([]string, 0, len(symbolicKeys))
	for name := range symbolicKeys {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return symbolicKeys[names[i]].VirtualKey < symbolicKeys[names[j]].VirtualKey
	})
	// X (0x58) sorts first by vk; the F-keys come first on screen.
	if len(names) > 0 && names[0] == "X" {
		names = append(names[1:], "X")
	}
	return names
}

// Resolve turns a KeyIdentifier into the codes to inject.
func Resolve(id KeyIdentifier) (KeyCodePair, error) {
	if p, ok := LookupKey(id.Token); ok {
		return p, nil
	}

	switch id.Kind {
	case KindVirtualKey:
		v, ext, err := ParseHexCode(id.Token)
		if err != nil {
			return KeyCodePair{}, err
		}
		return KeyCodePair{VirtualKey: v, Extended: ext}, nil
	case KindScanCode:
		v, ext, err := ParseHexCode(id.Token)
		if err != nil {
			return KeyCodePair{}, err
		}
		return KeyCodePair{ScanCode: v, Extended: ext}, nil
	default:
		return KeyCodePair{}, fmt.Errorf("%q is not a known key: %w", id.Token, ErrMissingModeSelection)
	}
}

// ParseHexCode parses a user supplied code such as "7C", "0x7c" or "E05B".
// A leading "E0" followed by more digits marks an extended key and is not
// part of the value.
func ParseHexCode(raw string) (uint16, bool, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = strings.TrimSpace(s[2:])
	}
	if s == "" {
		return 0, false, fmt.Errorf("empty code: %w", ErrInvalidKeyFormat)
	}
	for _, r := range s {
		if !isHexOrSpace(r) {
			return 0, false, fmt.Errorf("%q contains non-hex character %q: %w", raw, r, ErrInvalidKeyFormat)
		}
	}

	// Only an upper-case "E0" marks an extended key; "e013" is the value 0xE013.
	extended := false
	if strings.HasPrefix(s, "E0") && len(s) > 2 {
		extended = true
		s = strings.TrimSpace(s[2:])
	}

	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false, fmt.Errorf("%q is not a 16-bit hex value: %w", raw, ErrInvalidKeyFormat)
	}
	return uint16(v), extended, nil
}

func isHexOrSpace(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return true
	case r == ' ', r == '\t', r == '\r', r == '\n':
		return true
	}
	return false
}
