package inject

import (
	"time"

	"github.com/OsbornePro/FKeySender/internal/keyseq"
)

// KEYBDINPUT.dwFlags / keybd_event dwFlags.
const (
	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
	keyeventfScanCode    = 0x0008
)

// keyboardFlags translates an event into Win32 key flags. Scan-only pairs
// get KEYEVENTF_SCANCODE so Windows reads wScan instead of wVk.
func keyboardFlags(ev keyseq.InjectionEvent) uint32 {
	var flags uint32
	if ev.Phase == keyseq.PhaseUp {
		flags |= keyeventfKeyUp
	}
	if ev.Codes.Extended {
		flags |= keyeventfExtendedKey
	}
	if ev.Codes.ScanOnly() {
		flags |= keyeventfScanCode
	}
	return flags
}

var processStart = time.Now()

// eventTime is the INPUT timestamp: milliseconds since this process started.
func eventTime() uint32 {
	return uint32(time.Since(processStart).Milliseconds())
}
