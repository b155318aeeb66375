// cmd/fkeysender/main.go
// FKeySender - sends F13-F24 and modifier combinations through the OS input queue.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OsbornePro/FKeySender/internal/config"
	"github.com/OsbornePro/FKeySender/internal/inject"
	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// cfg is loaded once at startup; flags override individual fields.
var cfg = defaultSettings()

func defaultSettings() *config.Settings {
	s := &config.Settings{}
	s.ApplyDefaults()
	return s
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
}

const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  fkeysender send [flags] KEY          send a named key (F13..F24, X)\n")
	fmt.Fprintf(w, "  fkeysender send [flags] --vk HEX     send a custom virtual-key code\n")
	fmt.Fprintf(w, "  fkeysender send [flags] --scan HEX   send a custom scan code (E0 prefix = extended)\n")
	fmt.Fprintf(w, "  fkeysender ui                        open the desktop window\n")
	fmt.Fprintf(w, "  fkeysender pick                      choose a key interactively\n")
	fmt.Fprintf(w, "  fkeysender serve                     run the local control API\n")
	fmt.Fprintf(w, "  fkeysender token new|show            manage the control API token\n")
	fmt.Fprintf(w, "  fkeysender keys                      list named keys\n")
	fmt.Fprintf(w, "  fkeysender version\n\n")
	fmt.Fprintf(w, "Global flags (before the subcommand):\n")
	fmt.Fprintf(w, "  --config PATH       settings file (default %s)\n", config.DefaultPath())
	fmt.Fprintf(w, "  --log-level LEVEL   debug|info|warning|error\n")
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("fkeysender", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { usage(stderr) }
	configPath := global.String("config", config.DefaultPath(), "settings file (.yaml/.yml/.json)")
	logLevel := global.String("log-level", "", "log verbosity: debug|info|warning|error")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return exitUsage
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if cmd == "version" {
		fmt.Fprintf(stdout, "FKeySender %s (built %s)\n", version, buildDate)
		return exitOK
	}

	if err := loadConfig(*configPath); err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := initLogging(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	switch cmd {
	case "send":
		return cmdSend(cmdArgs, stderr)
	case "ui":
		return cmdUI(cmdArgs, stderr)
	case "pick":
		return cmdPick(cmdArgs, stderr)
	case "serve":
		return cmdServe(cmdArgs, stderr)
	case "token":
		return cmdToken(cmdArgs, *configPath, stdout, stderr)
	case "keys":
		return cmdKeys(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		usage(stderr)
		return exitUsage
	}
}

func loadConfig(path string) error {
	s, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loadConfig: %w", err)
	}
	cfg = s
	return nil
}

func cmdKeys(stdout io.Writer) int {
	for _, name := range keyseq.KeyNames() {
		p, _ := keyseq.LookupKey(name)
		fmt.Fprintf(stdout, "%-4s vk=0x%02X scan=%d\n", name, p.VirtualKey, p.ScanCode)
	}
	return exitOK
}

// exitCodeFor maps a send error to a process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case keyseq.IsCancelled(err):
		return exitCancelled
	case errors.Is(err, keyseq.ErrInvalidKeyFormat),
		errors.Is(err, keyseq.ErrMissingModeSelection),
		errors.Is(err, keyseq.ErrUnsupportedOperation):
		return exitUsage
	default:
		return exitFailure
	}
}

func defaultMethod() string {
	if m := strings.TrimSpace(cfg.Send.Method); m != "" {
		return m
	}
	return string(inject.DefaultMethod())
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
