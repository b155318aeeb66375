// cmd/fkeysender/focus_other.go
//go:build !windows && !linux

package main

import "errors"

func focusedTarget() (string, string, error) {
	return "", "", errors.New("focused app detection not implemented on this platform")
}
