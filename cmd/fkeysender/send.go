// cmd/fkeysender/send.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/OsbornePro/FKeySender/internal/inject"
	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
)

// parseSendArgs builds a SendRequest from `send` flags on top of cfg.Send.
func parseSendArgs(args []string, stderr io.Writer) (keyseq.SendRequest, error) {
	var req keyseq.SendRequest

	flags := flag.NewFlagSet("send", flag.ContinueOnError)
	flags.SetOutput(stderr)

	ctrl := flags.Bool("ctrl", cfg.Send.Ctrl, "hold left Ctrl")
	shift := flags.Bool("shift", cfg.Send.Shift, "hold left Shift")
	alt := flags.Bool("alt", cfg.Send.Alt, "hold left Alt")
	delay := flags.Duration("delay", time.Duration(cfg.Send.DelayMs)*time.Millisecond, "wait before pressing, e.g. 3s")
	hold := flags.Duration("hold", time.Duration(cfg.Send.HoldMillis())*time.Millisecond, "how long the key stays down, e.g. 100ms")
	methodRaw := flags.String("method", defaultMethod(), "sendinput|keybd_event|xtest|robotgo|dryrun")
	dryRun := flags.Bool("dry-run", false, "log events instead of injecting them")
	vk := flags.String("vk", "", "custom virtual-key code in hex")
	scan := flags.String("scan", "", "custom scan code in hex")

	if err := flags.Parse(args); err != nil {
		return req, err
	}

	switch {
	case *vk != "" && *scan != "":
		return req, errors.New("--vk and --scan are mutually exclusive")
	case *vk != "":
		req.Target = keyseq.VirtualKey(*vk)
	case *scan != "":
		req.Target = keyseq.ScanCode(*scan)
	case flags.NArg() == 1:
		req.Target = keyseq.Named(flags.Arg(0))
	case flags.NArg() == 0:
		return req, errors.New("missing key: give a key name, --vk or --scan")
	}
	if flags.NArg() > 1 || (flags.NArg() > 0 && (*vk != "" || *scan != "")) {
		return req, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}
	if *delay < 0 || *hold < 0 {
		return req, errors.New("--delay and --hold must be >= 0")
	}

	method, err := keyseq.ParseMethod(*methodRaw)
	if err != nil {
		return req, err
	}
	if *dryRun {
		method = keyseq.MethodDryRun
	}

	req.Modifiers = keyseq.Modifiers{Ctrl: *ctrl, Shift: *shift, Alt: *alt}
	req.PreDelay = *delay
	req.Hold = *hold
	req.Method = method
	return req, nil
}

// logObserver reports sequencer states on the log, the terminal's status bar.
type logObserver struct {
	log logrus.FieldLogger
}

func (o logObserver) OnState(s keyseq.State) {
	o.log.WithField("state", s.String()).Infof("Status: %s", s.Status())
	if s == keyseq.StateKeyHeld {
		go logFocusedTarget(o.log)
	}
}

func (o logObserver) OnControls(bool) {}

// logFocusedTarget records which window received the key-down.
func logFocusedTarget(log logrus.FieldLogger) {
	proc, title, err := focusedTarget()
	if err != nil {
		log.WithError(err).Debug("focused target unknown")
		return
	}
	log.WithFields(logrus.Fields{"proc": proc, "title": title}).Info("key held in focused window")
}

func newSequencer(obs keyseq.Observer) (*keyseq.Sequencer, func()) {
	log := logrus.WithField("component", "sequencer")
	injectors, closeAll := inject.Open(logrus.WithField("component", "inject"))
	return keyseq.NewSequencer(injectors, obs, log), closeAll
}

func cmdSend(args []string, stderr io.Writer) int {
	req, err := parseSendArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	return sendOnce(req, stderr)
}

func sendOnce(req keyseq.SendRequest, stderr io.Writer) int {
	seq, closeAll := newSequencer(logObserver{log: logrus.StandardLogger()})
	defer closeAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := seq.Send(ctx, req)
	switch {
	case err == nil:
	case keyseq.IsCancelled(err):
		logrus.Info("Status: Ready (Operation Cancelled)")
	default:
		fmt.Fprintln(stderr, err)
	}
	return exitCodeFor(err)
}
