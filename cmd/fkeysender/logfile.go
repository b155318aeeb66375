// cmd/fkeysender/logfile.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/OsbornePro/FKeySender/internal/config"
	"github.com/sirupsen/logrus"
)

const defaultLogName = "fkeysender.log"

// logFileOptions describes where the log file lives and how it rotates.
type logFileOptions struct {
	Path     string
	MaxBytes int64 // 0 disables rotation
	Keep     int   // rotated files kept next to Path
}

// logFileOptionsFor resolves the file settings. ok is false when no log file
// is configured.
func logFileOptionsFor(ls config.LogSettings) (opts logFileOptions, ok bool) {
	path := strings.TrimSpace(ls.File)
	if path == "" {
		dir := strings.TrimSpace(ls.Dir)
		if dir == "" {
			return opts, false
		}
		path = filepath.Join(dir, defaultLogName)
	}

	opts.Path = path
	opts.MaxBytes = int64(max(ls.RotateMB, 1)) << 20
	opts.Keep = max(ls.Keep, 1)
	return opts, true
}

// logDestination combines stderr and the optional log file into one writer.
// The returned closer is nil when no file was opened.
func logDestination(ls config.LogSettings) (io.Writer, io.Closer, error) {
	toStderr := ls.Stderr == nil || *ls.Stderr

	var writers []io.Writer
	if toStderr {
		writers = append(writers, os.Stderr)
	}

	opts, ok := logFileOptionsFor(ls)
	if !ok {
		if len(writers) == 0 {
			return io.Discard, nil, nil
		}
		return os.Stderr, nil, nil
	}

	f, err := openRotatingFile(opts)
	if err != nil {
		// Keep logging to stderr; the caller reports the file error.
		return os.Stderr, nil, err
	}
	writers = append(writers, f)
	return io.MultiWriter(writers...), f, nil
}

// rotatingFile appends to Path and moves it aside once it would grow past
// MaxBytes. Rotated copies are named Path.<timestamp> and pruned to Keep.
type rotatingFile struct {
	opts logFileOptions

	mu   sync.Mutex
	f    *os.File
	size int64
}

func openRotatingFile(opts logFileOptions) (*rotatingFile, error) {
	r := &rotatingFile{opts: opts}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(r.opts.Path), 0o755); err != nil {
		return fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(r.opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.f, r.size = f, fi.Size()
	return nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.opts.MaxBytes > 0 && r.size > 0 && r.size+int64(len(p)) > r.opts.MaxBytes {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.f.Write(p)
	r.size += int64(n)
	return n, err
}

// Close flushes and closes the file. A later Write reopens it.
func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

func (r *rotatingFile) rotate() error {
	if err := r.f.Close(); err != nil {
		return err
	}
	r.f = nil

	// Nanoseconds keep names unique when several rotations land in one second.
	aside := r.opts.Path + "." + time.Now().Format("20060102-150405.000000000")
	if err := os.Rename(r.opts.Path, aside); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}
	r.prune()
	return r.open()
}

// prune removes the oldest rotated files beyond Keep. Timestamp suffixes sort
// chronologically.
func (r *rotatingFile) prune() {
	old, err := filepath.Glob(r.opts.Path + ".*")
	if err != nil || len(old) <= r.opts.Keep {
		return
	}
	sort.Strings(old)
	for _, name := range old[:len(old)-r.opts.Keep] {
		if err := os.Remove(name); err != nil {
			logrus.WithError(err).WithField("file", name).Debug("prune rotated log")
		}
	}
}
