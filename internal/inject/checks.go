// internal/inject/checks.go
package inject

import "github.com/OsbornePro/FKeySender/internal/keyseq"

// Capability checks for the Windows injectors. No syscalls.

func checkSendInput(codes keyseq.KeyCodePair) error {
	if codes.VirtualKey == 0 && codes.ScanCode == 0 {
		return unsupported(keyseq.MethodSendInput, codes, "both codes are zero")
	}
	return nil
}

// keybd_event takes a BYTE virtual key and cannot be driven by scan code alone.
func checkKeybdEvent(codes keyseq.KeyCodePair) error {
	if codes.VirtualKey == 0 {
		return unsupported(keyseq.MethodKeybdEvent, codes, "keybd_event does not support scan codes, use SendInput")
	}
	if codes.VirtualKey > 0xFF {
		return unsupported(keyseq.MethodKeybdEvent, codes, "keybd_event takes an 8-bit virtual-key code")
	}
	return nil
}
