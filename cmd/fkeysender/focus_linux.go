// cmd/fkeysender/focus_linux.go
//go:build linux

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// focusedTarget returns the process name and title of the active X11 window.
func focusedTarget() (string, string, error) {
	// Wayland: no portable way to ask for the focused client.
	if os.Getenv("XDG_SESSION_TYPE") == "wayland" {
		return "", "", fmt.Errorf("wayland session: focused app detection not implemented")
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return "", "", fmt.Errorf("x11 connect: %w", err)
	}
	defer xu.Conn().Close()

	win, err := ewmh.ActiveWindowGet(xu)
	if err != nil {
		return "", "", fmt.Errorf("_NET_ACTIVE_WINDOW: %w", err)
	}

	title, _ := ewmh.WmNameGet(xu, win)
	pid, err := ewmh.WmPidGet(xu, win)
	if err != nil {
		return "", title, fmt.Errorf("_NET_WM_PID: %w", err)
	}

	b, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", title, err
	}
	return strings.TrimSpace(string(b)), title, nil
}
