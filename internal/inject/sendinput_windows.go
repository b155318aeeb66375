// internal/inject/sendinput_windows.go
//go:build windows

package inject

import (
	"fmt"
	"unsafe"

	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSendInput      = user32.NewProc("SendInput")
	procKeybdEvent     = user32.NewProc("keybd_event")
	procMapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

const (
	inputKeyboard = 1

	mapvkVKToVSC = 0
)

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// input mirrors INPUT with the keyboard arm of the union. The padding makes
// up the size of MOUSEINPUT, the largest member (40 bytes on amd64, 28 on 386).
type input struct {
	Type    uint32
	Ki      keybdInput
	padding [8]byte
}

// SendInput submits each sequence as one atomic SendInput batch.
type SendInput struct {
	log logrus.FieldLogger
}

func NewSendInput(log logrus.FieldLogger) *SendInput {
	return &SendInput{log: log}
}

func (s *SendInput) Method() keyseq.Method { return keyseq.MethodSendInput }

func (s *SendInput) Check(codes keyseq.KeyCodePair) error { return checkSendInput(codes) }

func (s *SendInput) Dispatch(events []keyseq.InjectionEvent) error {
	if len(events) == 0 {
		return nil
	}
	inputs := make([]input, len(events))
	now := eventTime()
	for i, ev := range events {
		inputs[i] = input{
			Type: inputKeyboard,
			Ki: keybdInput{
				Vk:    ev.Codes.VirtualKey,
				Scan:  ev.Codes.ScanCode,
				Flags: keyboardFlags(ev),
				Time:  now,
			},
		}
	}

	r1, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(r1) != len(inputs) {
		return fmt.Errorf("SendInput inserted %d of %d events: %v", r1, len(inputs), err)
	}
	s.log.WithField("count", len(inputs)).Debug("SendInput batch sent")
	return nil
}

// KeybdEvent calls keybd_event once per event. keybd_event takes an 8-bit
// virtual key and cannot be driven by scan code alone.
type KeybdEvent struct {
	log logrus.FieldLogger
}

func NewKeybdEvent(log logrus.FieldLogger) *KeybdEvent {
	return &KeybdEvent{log: log}
}

func (k *KeybdEvent) Method() keyseq.Method { return keyseq.MethodKeybdEvent }

func (k *KeybdEvent) Check(codes keyseq.KeyCodePair) error { return checkKeybdEvent(codes) }

func (k *KeybdEvent) Dispatch(events []keyseq.InjectionEvent) error {
	for _, ev := range events {
		vk := byte(ev.Codes.VirtualKey)
		scan := byte(ev.Codes.ScanCode)
		if scan == 0 {
			r1, _, _ := procMapVirtualKeyW.Call(uintptr(vk), mapvkVKToVSC)
			scan = byte(r1 & 0xFF)
		}
		// keybd_event has no return value; failures are invisible.
		procKeybdEvent.Call(
			uintptr(vk),
			uintptr(scan),
			uintptr(keyboardFlags(ev)&^keyeventfScanCode),
			0,
		)
	}
	return nil
}

func platformOpeners() []opener {
	return []opener{
		func(log logrus.FieldLogger) (keyseq.Injector, func(), error) {
			if err := procSendInput.Find(); err != nil {
				return nil, nil, err
			}
			return NewSendInput(log), nil, nil
		},
		func(log logrus.FieldLogger) (keyseq.Injector, func(), error) {
			if err := procKeybdEvent.Find(); err != nil {
				return nil, nil, err
			}
			return NewKeybdEvent(log), nil, nil
		},
	}
}
