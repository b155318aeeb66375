// internal/keyseq/sequencer.go
package keyseq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SendRequest describes one key press as chosen by the user.
type SendRequest struct {
	Target    KeyIdentifier
	Modifiers Modifiers
	PreDelay  time.Duration
	Hold      time.Duration
	Method    Method
}

// Sequencer runs one send at a time through the state machine
// Idle -> PreDelay -> KeyHeld -> Releasing -> Idle.
type Sequencer struct {
	injectors map[Method]Injector
	obs       Observer
	log       logrus.FieldLogger

	mu     sync.Mutex
	state  State
	busy   bool
	cancel context.CancelFunc
}

// NewSequencer returns a Sequencer that can use any of the given injectors.
// A nil observer or logger is replaced by a no-op.
func NewSequencer(injectors []Injector, obs Observer, log logrus.FieldLogger) *Sequencer {
	if obs == nil {
		obs = nopObserver{}
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	byMethod := make(map[Method]Injector, len(injectors))
	for _, inj := range injectors {
		if inj != nil {
			byMethod[inj.Method()] = inj
		}
	}
	return &Sequencer{injectors: byMethod, obs: obs, log: log}
}

// Methods lists the injection methods this Sequencer was built with.
func (s *Sequencer) Methods() []Method {
	out := make([]Method, 0, len(s.injectors))
	for _, m := range []Method{MethodSendInput, MethodKeybdEvent, MethodXTest, MethodRobotgo, MethodDryRun} {
		if _, ok := s.injectors[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// State returns the current state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a send is in flight.
func (s *Sequencer) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Validate resolves req and checks it against its injector without sending
// anything.
func (s *Sequencer) Validate(req SendRequest) (KeyCodePair, Injector, error) {
	if req.PreDelay < 0 || req.Hold < 0 {
		return KeyCodePair{}, nil, fmt.Errorf("negative delay or hold duration")
	}
	inj, ok := s.injectors[req.Method]
	if !ok {
		return KeyCodePair{}, nil, fmt.Errorf("method %q is not available on this platform: %w", req.Method, ErrUnsupportedOperation)
	}
	codes, err := Resolve(req.Target)
	if err != nil {
		return KeyCodePair{}, nil, err
	}
	if err := inj.Check(codes); err != nil {
		return KeyCodePair{}, nil, err
	}
	return codes, inj, nil
}

// Send performs req and blocks until the keys are released or the send is
// abandoned. Validation errors are returned before any state change.
//
// Once the down-sequence has been dispatched the up-sequence is dispatched
// exactly once, whether the hold ran out or the send was cancelled. A
// cancelled send returns ErrCancelled.
func (s *Sequencer) Send(ctx context.Context, req SendRequest) error {
	run, err := s.reserve(ctx, req)
	if err != nil {
		return err
	}
	return run()
}

// Start is Send without the wait: the sequencer is claimed before Start
// returns, so a concurrent Send or Start gets ErrBusy. The result of the send
// arrives on the returned channel.
func (s *Sequencer) Start(ctx context.Context, req SendRequest) (<-chan error, error) {
	run, err := s.reserve(ctx, req)
	if err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- run() }()
	return done, nil
}

// reserve validates req and marks the sequencer busy. The returned func runs
// the send and frees the sequencer when it finishes.
func (s *Sequencer) reserve(ctx context.Context, req SendRequest) (func() error, error) {
	codes, inj, err := s.Validate(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	s.busy = true
	s.cancel = cancel
	s.mu.Unlock()

	return func() error {
		return s.run(ctx, cancel, req, codes, inj)
	}, nil
}

func (s *Sequencer) run(ctx context.Context, cancel context.CancelFunc, req SendRequest, codes KeyCodePair, inj Injector) error {
	log := s.log.WithFields(logrus.Fields{
		"key":    req.Target.String(),
		"codes":  codes.String(),
		"mods":   req.Modifiers.String(),
		"method": string(req.Method),
	})

	defer func() {
		cancel()
		s.mu.Lock()
		s.busy = false
		s.cancel = nil
		s.mu.Unlock()
		s.setState(StateIdle)
		s.obs.OnControls(true)
	}()

	down, up := BuildSequence(codes, req.Modifiers)

	s.obs.OnControls(false)
	s.setState(StatePreDelay)
	log.WithField("delay", req.PreDelay).Debug("waiting before sending")

	if err := wait(ctx, req.PreDelay); err != nil {
		s.markCancelling()
		log.Info("send cancelled before any key was pressed")
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	return s.pressAndRelease(ctx, inj, down, up, req.Hold, log)
}

func (s *Sequencer) pressAndRelease(ctx context.Context, inj Injector, down, up []InjectionEvent, hold time.Duration, log logrus.FieldLogger) (err error) {
	defer func() {
		s.setState(StateReleasing)
		if derr := inj.Dispatch(up); derr != nil {
			log.WithError(derr).Warn("key-up dispatch failed")
		}
		log.Debug("keys released")
	}()

	if derr := inj.Dispatch(down); derr != nil {
		log.WithError(derr).Warn("key-down dispatch failed")
	}
	s.setState(StateKeyHeld)
	log.WithField("hold", hold).Debug("holding keys")

	if werr := wait(ctx, hold); werr != nil {
		s.markCancelling()
		log.Info("send cancelled while holding; releasing keys")
		return fmt.Errorf("%w: %v", ErrCancelled, werr)
	}
	log.Info("key sent")
	return nil
}

// Cancel asks the in-flight send to stop. It returns false when nothing is in
// flight or the send is already cancelling.
func (s *Sequencer) Cancel() bool {
	s.mu.Lock()
	if !s.busy || s.cancel == nil || s.state == StateCancelling || s.state == StateReleasing {
		s.mu.Unlock()
		return false
	}
	cancel := s.cancel
	s.state = StateCancelling
	s.mu.Unlock()

	s.obs.OnState(StateCancelling)
	cancel()
	return true
}

// markCancelling covers cancellation that arrived through the caller's
// context rather than Cancel.
func (s *Sequencer) markCancelling() {
	s.mu.Lock()
	already := s.state == StateCancelling
	s.state = StateCancelling
	s.mu.Unlock()
	if !already {
		s.obs.OnState(StateCancelling)
	}
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.obs.OnState(st)
}

// wait sleeps for d unless ctx ends first. Cancellation is checked before
// the timer starts and again after it fires.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	return ctx.Err()
}

// IsCancelled reports whether err came from a cancelled send.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
