// cmd/fkeysender/ui.go
package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
)

const (
	customModeVK = "Virtual Key (VK)"
	customModeSC = "Scan Code (SC)"
)

// disabler is the subset of fyne widgets the window toggles while a send runs.
type disabler interface {
	Enable()
	Disable()
}

// uiObserver moves sequencer callbacks onto the fyne goroutine.
type uiObserver struct {
	status   *canvas.Text
	controls []disabler
	cancel   *widget.Button
	log      logrus.FieldLogger
}

func (o *uiObserver) OnState(s keyseq.State) {
	o.log.WithField("state", s.String()).Debug("state change")
	if s == keyseq.StateKeyHeld {
		go logFocusedTarget(o.log)
	}
	fyne.Do(func() {
		o.setStatus("Status: "+s.Status(), s)
	})
}

func (o *uiObserver) OnControls(enabled bool) {
	fyne.Do(func() {
		for _, c := range o.controls {
			if enabled {
				c.Enable()
			} else {
				c.Disable()
			}
		}
		if enabled {
			o.cancel.Disable()
		} else {
			o.cancel.Enable()
		}
	})
}

func (o *uiObserver) setStatus(text string, s keyseq.State) {
	o.status.Text = text
	o.status.Color = s.Color()
	o.status.Refresh()
}

func (o *uiObserver) showCancelled() {
	fyne.Do(func() {
		o.status.Text = "Status: Ready (Operation Cancelled)"
		o.status.Color = keyseq.ColorCancelled
		o.status.Refresh()
	})
}

// pressCancel cancels the in-flight send and greys out the button until the
// sequencer re-enables the controls.
func pressCancel(seq *keyseq.Sequencer, btn disabler) {
	if seq.Cancel() {
		btn.Disable()
	}
}

// parseDelaySeconds reads the delay entry, which is in (possibly fractional) seconds.
func parseDelaySeconds(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("delay must be a non-negative number of seconds (got %q)", raw)
	}
	return time.Duration(v * float64(time.Second)), nil
}

// parseHoldMillis reads the hold entry, which is in whole milliseconds.
func parseHoldMillis(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Duration(cfg.Send.HoldMillis()) * time.Millisecond, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("hold must be a non-negative number of milliseconds (got %q)", raw)
	}
	return time.Duration(v) * time.Millisecond, nil
}

// customTarget turns the custom-code entry and its mode radio into a key identifier.
func customTarget(code, mode string) (keyseq.KeyIdentifier, error) {
	switch mode {
	case customModeVK:
		return keyseq.VirtualKey(code), nil
	case customModeSC:
		return keyseq.ScanCode(code), nil
	default:
		return keyseq.KeyIdentifier{}, fmt.Errorf("%w: choose Virtual Key or Scan Code", keyseq.ErrMissingModeSelection)
	}
}

func cmdUI(args []string, stderr io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintln(stderr, "usage: fkeysender ui")
		return exitUsage
	}

	log := logrus.WithField("component", "ui")

	fApp := app.New()
	window := fApp.NewWindow("F13-F24 Key Sender")
	window.Resize(fyne.NewSize(560, 420))
	window.CenterOnScreen()

	status := canvas.NewText("Status: "+keyseq.StateIdle.Status(), keyseq.StateIdle.Color())
	status.TextStyle = fyne.TextStyle{Bold: true}

	obs := &uiObserver{status: status, log: log}
	seq, closeAll := newSequencer(obs)
	defer closeAll()

	ctrlCheck := widget.NewCheck("Ctrl", nil)
	shiftCheck := widget.NewCheck("Shift", nil)
	altCheck := widget.NewCheck("Alt", nil)
	ctrlCheck.SetChecked(cfg.Send.Ctrl)
	shiftCheck.SetChecked(cfg.Send.Shift)
	altCheck.SetChecked(cfg.Send.Alt)

	delayEntry := widget.NewEntry()
	delayEntry.SetText(strconv.FormatFloat(float64(cfg.Send.DelayMs)/1000, 'f', -1, 64))
	holdEntry := widget.NewEntry()
	holdEntry.SetText(strconv.Itoa(cfg.Send.HoldMillis()))

	methods := seq.Methods()
	methodNames := make([]string, 0, len(methods))
	for _, m := range methods {
		methodNames = append(methodNames, string(m))
	}
	methodSelect := widget.NewSelect(methodNames, nil)
	if m, err := keyseq.ParseMethod(defaultMethod()); err == nil {
		methodSelect.SetSelected(string(m))
	} else if len(methodNames) > 0 {
		methodSelect.SetSelected(methodNames[0])
	}

	customEntry := widget.NewEntry()
	customEntry.SetPlaceHolder("hex, e.g. 0x7C or E01D")
	customMode := widget.NewRadioGroup([]string{customModeVK, customModeSC}, nil)
	customMode.Horizontal = true

	send := func(target keyseq.KeyIdentifier) {
		delay, err := parseDelaySeconds(delayEntry.Text)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		hold, err := parseHoldMillis(holdEntry.Text)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}

		req := keyseq.SendRequest{
			Target:    target,
			Modifiers: keyseq.Modifiers{Ctrl: ctrlCheck.Checked, Shift: shiftCheck.Checked, Alt: altCheck.Checked},
			PreDelay:  delay,
			Hold:      hold,
			Method:    keyseq.Method(methodSelect.Selected),
		}
		done, err := seq.Start(context.Background(), req)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}

		go func() {
			err := <-done
			switch {
			case err == nil:
			case keyseq.IsCancelled(err):
				obs.showCancelled()
			default:
				log.WithError(err).Warn("send failed")
				fyne.Do(func() { dialog.ShowError(err, window) })
			}
		}()
	}

	var controls []disabler
	var keyButtons []fyne.CanvasObject
	for _, name := range keyseq.KeyNames() {
		name := name
		label := name
		if name == "X" {
			label = "Test X"
		}
		b := widget.NewButton(label, func() { send(keyseq.Named(name)) })
		keyButtons = append(keyButtons, b)
		controls = append(controls, b)
	}

	sendCustom := widget.NewButton("Send Custom", func() {
		target, err := customTarget(customEntry.Text, customMode.Selected)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		send(target)
	})

	var cancelBtn *widget.Button
	cancelBtn = widget.NewButton("Cancel", func() {
		pressCancel(seq, cancelBtn)
	})
	cancelBtn.Importance = widget.DangerImportance
	cancelBtn.Disable()

	controls = append(controls,
		ctrlCheck, shiftCheck, altCheck,
		delayEntry, holdEntry, methodSelect,
		customEntry, customMode, sendCustom,
	)
	obs.controls = controls
	obs.cancel = cancelBtn

	options := widget.NewForm(
		widget.NewFormItem("Modifiers", container.NewHBox(ctrlCheck, shiftCheck, altCheck)),
		widget.NewFormItem("Delay (s)", delayEntry),
		widget.NewFormItem("Hold (ms)", holdEntry),
		widget.NewFormItem("Method", methodSelect),
	)
	custom := container.NewVBox(
		customEntry,
		customMode,
		sendCustom,
	)

	content := container.NewVBox(
		widget.NewCard("Keys", "", container.NewGridWithColumns(4, keyButtons...)),
		widget.NewCard("Options", "", options),
		widget.NewCard("Custom Code", "", custom),
		container.NewBorder(nil, nil, nil, cancelBtn, status),
	)

	// Let a cancelled send finish its key-up events before the window goes away.
	window.SetCloseIntercept(func() {
		seq.Cancel()
		go func() {
			for i := 0; i < 50 && seq.Busy(); i++ {
				time.Sleep(20 * time.Millisecond)
			}
			fyne.Do(func() {
				window.SetCloseIntercept(nil)
				window.Close()
			})
		}()
	})

	window.SetContent(container.NewPadded(content))
	window.ShowAndRun()
	return exitOK
}
