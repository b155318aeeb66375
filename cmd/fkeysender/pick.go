// cmd/fkeysender/pick.go
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/manifoldco/promptui"
)

const (
	pickCustomVK   = "Custom virtual-key code..."
	pickCustomScan = "Custom scan code..."
)

// pickItems lists the named keys followed by the two custom-code entries.
func pickItems() []string {
	items := append([]string{}, keyseq.KeyNames()...)
	return append(items, pickCustomVK, pickCustomScan)
}

func validateMillis(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return errors.New("enter a non-negative number of milliseconds")
	}
	return nil
}

func validateHex(s string) error {
	if _, _, err := keyseq.ParseHexCode(s); err != nil {
		return err
	}
	return nil
}

func cmdPick(args []string, stderr io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintln(stderr, "usage: fkeysender pick")
		return exitUsage
	}

	req, err := pickRequest()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return exitCancelled
		}
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	return sendOnce(req, stderr)
}

func pickRequest() (keyseq.SendRequest, error) {
	var req keyseq.SendRequest

	keySel := promptui.Select{Label: "Key", Items: pickItems(), Size: 16}
	_, key, err := keySel.Run()
	if err != nil {
		return req, err
	}

	switch key {
	case pickCustomVK, pickCustomScan:
		p := promptui.Prompt{Label: "Hex code", Validate: validateHex}
		code, err := p.Run()
		if err != nil {
			return req, err
		}
		if key == pickCustomVK {
			req.Target = keyseq.VirtualKey(code)
		} else {
			req.Target = keyseq.ScanCode(code)
		}
	default:
		req.Target = keyseq.Named(key)
	}

	modSel := promptui.Select{
		Label: "Modifiers",
		Items: []string{"none", "Ctrl", "Shift", "Alt", "Ctrl+Shift", "Ctrl+Alt", "Shift+Alt", "Ctrl+Shift+Alt"},
	}
	_, mods, err := modSel.Run()
	if err != nil {
		return req, err
	}
	req.Modifiers = keyseq.Modifiers{
		Ctrl:  strings.Contains(mods, "Ctrl"),
		Shift: strings.Contains(mods, "Shift"),
		Alt:   strings.Contains(mods, "Alt"),
	}

	delayPrompt := promptui.Prompt{Label: "Delay (ms)", Default: strconv.Itoa(cfg.Send.DelayMs), Validate: validateMillis}
	delay, err := delayPrompt.Run()
	if err != nil {
		return req, err
	}
	holdPrompt := promptui.Prompt{Label: "Hold (ms)", Default: strconv.Itoa(cfg.Send.HoldMillis()), Validate: validateMillis}
	hold, err := holdPrompt.Run()
	if err != nil {
		return req, err
	}
	delayMs, _ := strconv.Atoi(strings.TrimSpace(delay))
	holdMs, _ := strconv.Atoi(strings.TrimSpace(hold))
	req.PreDelay = time.Duration(delayMs) * time.Millisecond
	req.Hold = time.Duration(holdMs) * time.Millisecond

	methods := []string{
		string(keyseq.MethodSendInput), string(keyseq.MethodKeybdEvent),
		string(keyseq.MethodXTest), string(keyseq.MethodRobotgo), string(keyseq.MethodDryRun),
	}
	cursor := 0
	if m, err := keyseq.ParseMethod(defaultMethod()); err == nil {
		for i, name := range methods {
			if name == string(m) {
				cursor = i
			}
		}
	}
	methodSel := promptui.Select{Label: "Method", Items: methods, CursorPos: cursor}
	_, method, err := methodSel.Run()
	if err != nil {
		return req, err
	}
	req.Method = keyseq.Method(method)
	return req, nil
}
