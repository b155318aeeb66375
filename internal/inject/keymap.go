package inject

import "fmt"

// Virtual-key codes we know how to translate for non-Windows backends.
const (
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
	vkF1      = 0x70
	vkF24     = 0x87
)

// x11KeysymName maps a Windows virtual-key code to an X keysym name usable
// with keybind.StrToKeycodes.
func x11KeysymName(vk uint16) (string, bool) {
	switch {
	case vk == vkShift:
		return "Shift_L", true
	case vk == vkControl:
		return "Control_L", true
	case vk == vkMenu:
		return "Alt_L", true
	case vk >= vkF1 && vk <= vkF24:
		return fmt.Sprintf("F%d", vk-vkF1+1), true
	case vk >= 'A' && vk <= 'Z':
		return string(rune(vk + ('a' - 'A'))), true
	case vk >= '0' && vk <= '9':
		return string(rune(vk)), true
	}
	return "", false
}

// robotgoKeyName maps a Windows virtual-key code to a robotgo key name.
func robotgoKeyName(vk uint16) (string, bool) {
	switch {
	case vk == vkShift:
		return "lshift", true
	case vk == vkControl:
		return "lctrl", true
	case vk == vkMenu:
		return "lalt", true
	case vk >= vkF1 && vk <= vkF24:
		return fmt.Sprintf("f%d", vk-vkF1+1), true
	case vk >= 'A' && vk <= 'Z':
		return string(rune(vk + ('a' - 'A'))), true
	case vk >= '0' && vk <= '9':
		return string(rune(vk)), true
	}
	return "", false
}

// evdevKeycodeOffset is the distance between Linux evdev key codes (which
// equal set-1 scan codes for the main block) and X11 keycodes.
const evdevKeycodeOffset = 8
