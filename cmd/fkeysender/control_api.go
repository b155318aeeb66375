// cmd/fkeysender/control_api.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/OsbornePro/FKeySender/internal/config"
	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
)

// controlServer exposes one Sequencer over loopback HTTP.
type controlServer struct {
	seq    *keyseq.Sequencer
	log    logrus.FieldLogger
	header string
	hash   string

	// last token that passed bcrypt, so each request is not a full compare
	verified atomic.Value // stores string
}

type statusResponse struct {
	State  string `json:"state"`
	Status string `json:"status"`
	Busy   bool   `json:"busy"`
}

type sendRequestBody struct {
	Key     string `json:"key,omitempty"`
	VK      string `json:"vk,omitempty"`
	Scan    string `json:"scan,omitempty"`
	Ctrl    bool   `json:"ctrl"`
	Shift   bool   `json:"shift"`
	Alt     bool   `json:"alt"`
	DelayMs *int   `json:"delay_ms,omitempty"`
	HoldMs  *int   `json:"hold_ms,omitempty"`
	Method  string `json:"method,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newControlServer(seq *keyseq.Sequencer, log logrus.FieldLogger) *controlServer {
	return &controlServer{
		seq:    seq,
		log:    log,
		header: cfg.Control.TokenHeader,
		hash:   cfg.Control.TokenHash,
	}
}

func (c *controlServer) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", c.requireToken(c.handleStatus))
	mux.HandleFunc("/send", c.requireToken(c.handleSend))
	mux.HandleFunc("/cancel", c.requireToken(c.handleCancel))
	return mux
}

func (c *controlServer) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := strings.TrimSpace(r.Header.Get(c.header))
		if got == "" || !c.tokenOK(got) {
			c.log.WithField("remote", r.RemoteAddr).Warn("unauthorized control request")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (c *controlServer) tokenOK(tok string) bool {
	if v, ok := c.verified.Load().(string); ok && v != "" && v == tok {
		return true
	}
	if !config.CheckSecret(c.hash, []byte(tok)) {
		return false
	}
	c.verified.Store(tok)
	addSecret(tok)
	return true
}

func (c *controlServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	st := c.seq.State()
	writeJSON(w, http.StatusOK, statusResponse{
		State:  st.String(),
		Status: st.Status(),
		Busy:   c.seq.Busy(),
	})
}

func (c *controlServer) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var body sendRequestBody
	dec := json.NewDecoder(io.LimitReader(r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	req, err := body.toSendRequest()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	done, err := c.seq.Start(context.Background(), req)
	switch {
	case errors.Is(err, keyseq.ErrBusy):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	log := c.log.WithFields(logrus.Fields{"key": req.Target.String(), "method": req.Method})
	go func() {
		err := <-done
		switch {
		case err == nil:
		case keyseq.IsCancelled(err):
			log.Info("Status: Ready (Operation Cancelled)")
		default:
			log.WithError(err).Warn("control send failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]bool{"started": true})
}

func (c *controlServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	cancelled := c.seq.Cancel()
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (b sendRequestBody) toSendRequest() (keyseq.SendRequest, error) {
	var req keyseq.SendRequest

	set := 0
	for _, s := range []string{b.Key, b.VK, b.Scan} {
		if strings.TrimSpace(s) != "" {
			set++
		}
	}
	if set != 1 {
		return req, errors.New("exactly one of key, vk, scan is required")
	}
	switch {
	case b.Key != "":
		req.Target = keyseq.Named(b.Key)
	case b.VK != "":
		req.Target = keyseq.VirtualKey(b.VK)
	default:
		req.Target = keyseq.ScanCode(b.Scan)
	}

	delayMs, holdMs := cfg.Send.DelayMs, cfg.Send.HoldMillis()
	if b.DelayMs != nil {
		delayMs = *b.DelayMs
	}
	if b.HoldMs != nil {
		holdMs = *b.HoldMs
	}
	if delayMs < 0 || holdMs < 0 {
		return req, errors.New("delay_ms and hold_ms must be >= 0")
	}

	methodRaw := b.Method
	if methodRaw == "" {
		methodRaw = defaultMethod()
	}
	method, err := keyseq.ParseMethod(methodRaw)
	if err != nil {
		return req, err
	}

	req.Modifiers = keyseq.Modifiers{Ctrl: b.Ctrl, Shift: b.Shift, Alt: b.Alt}
	req.PreDelay = time.Duration(delayMs) * time.Millisecond
	req.Hold = time.Duration(holdMs) * time.Millisecond
	req.Method = method
	return req, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func cmdServe(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags.SetOutput(stderr)
	listen := flags.String("listen", cfg.Control.ListenAddr, "loopback host:port")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	// Refuse non-loopback binds.
	if !isLoopbackListenAddr(*listen) {
		fmt.Fprintf(stderr, "refusing to serve: listen address must be loopback (got %q)\n", *listen)
		return exitUsage
	}
	if strings.TrimSpace(cfg.Control.TokenHash) == "" {
		fmt.Fprintln(stderr, "no control token configured; run `fkeysender token new` first")
		return exitFailure
	}

	log := logrus.WithField("component", "control")
	seq, closeAll := newSequencer(logObserver{log: log})
	defer closeAll()

	srv := &http.Server{
		Addr:              *listen,
		Handler:           newControlServer(seq, log).mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("control API listening on http://%s (header: %s)", *listen, cfg.Control.TokenHeader)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			return exitFailure
		}
	case <-ctx.Done():
		log.Info("shutting down control API")
		seq.Cancel()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return exitOK
}

func isLoopbackListenAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	ip := net.ParseIP(host)
	if ip != nil {
		return ip.IsLoopback()
	}
	ips, err := net.LookupIP(host)
	if err != nil || len(ips) == 0 {
		return false
	}
	for _, x := range ips {
		if !x.IsLoopback() {
			return false
		}
	}
	return true
}
