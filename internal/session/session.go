// Package session runs assistant turns: it hears an utterance, routes it, answers and keeps
// the visualizer mode, the status text and the transcript in step.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iburimskiy/nero/internal/spectrum"
)

// ErrBusy is returned while a turn or greeting is already running.
var ErrBusy = errors.New("turn already in progress")

// Status texts shown for each phase.
const (
	StatusReady     = "Ready"
	StatusListening = "Listening..."
	StatusThinking  = "Thinking..."
	StatusSpeaking  = "Speaking..."
)

// ModeSetter receives mode changes. *spectrum.Animator satisfies it.
type ModeSetter interface {
	SetMode(spectrum.Mode)
}

// Speaker plays a reply and returns once it has finished or ctx is done.
type Speaker interface {
	Play(ctx context.Context, path string) error
}

// Actions are the collaborators a turn hands work to: speech recognition, the language model
// and the desktop.
type Actions interface {
	Listen(ctx context.Context) (string, error)
	Think(ctx context.Context, prompt string) (string, error)
	PlayMedia(ctx context.Context, query string) error
	OpenURL(ctx context.Context, url string) error
}

// Config wires a Session. Modes and Actions are required.
type Config struct {
	Modes      ModeSetter
	Actions    Actions
	Speaker    Speaker     // nil speaks silently for SpeakFor
	Router     *Router     // nil uses NewRouter(nil)
	Transcript *Transcript // nil uses NewTranscript(DefaultVisible, Now)
	SpeakFor   time.Duration
	Now        func() time.Time
	Log        *slog.Logger
}

// Session runs at most one turn at a time.
type Session struct {
	modes      ModeSetter
	actions    Actions
	speaker    Speaker
	router     *Router
	transcript *Transcript
	speakFor   time.Duration
	now        func() time.Time
	log        *slog.Logger

	busy     atomic.Bool
	finished atomic.Bool

	mu     sync.Mutex
	status string
}

// New returns an idle Session.
func New(cfg Config) *Session {
	s := &Session{
		modes:      cfg.Modes,
		actions:    cfg.Actions,
		speaker:    cfg.Speaker,
		router:     cfg.Router,
		transcript: cfg.Transcript,
		speakFor:   cfg.SpeakFor,
		now:        cfg.Now,
		log:        cfg.Log,
		status:     StatusReady,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.router == nil {
		s.router = NewRouter(nil)
	}
	if s.transcript == nil {
		s.transcript = NewTranscript(DefaultVisible, s.now)
	}
	return s
}

// Busy reports whether a turn is running.
func (s *Session) Busy() bool { return s.busy.Load() }

// Finished reports whether the user has said goodbye.
func (s *Session) Finished() bool { return s.finished.Load() }

// Transcript returns the conversation log.
func (s *Session) Transcript() *Transcript { return s.transcript }

// Status returns the text for the current phase.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start runs a turn in the background. done, if not nil, receives the turn's result.
func (s *Session) Start(ctx context.Context, reply string, done func(error)) error {
	return s.launch(func() error { return s.turn(ctx, reply) }, done)
}

// StartGreeting speaks the time-of-day greeting in the background.
func (s *Session) StartGreeting(ctx context.Context, reply string, done func(error)) error {
	return s.launch(func() error { return s.greet(ctx, reply) }, done)
}

// Turn runs one turn in the calling goroutine: listen, route, answer, act.
// The mode always ends at idle and the status at Ready, including on error or cancellation.
func (s *Session) Turn(ctx context.Context, reply string) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)
	return s.turn(ctx, reply)
}

// Greet speaks the greeting in the calling goroutine.
func (s *Session) Greet(ctx context.Context, reply string) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)
	return s.greet(ctx, reply)
}

func (s *Session) launch(fn func() error, done func(error)) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	go func() {
		defer s.busy.Store(false)
		err := fn()
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error("turn failed", "err", err)
		}
		if done != nil {
			done(err)
		}
	}()
	return nil
}

func (s *Session) greet(ctx context.Context, reply string) error {
	defer s.settle()
	return s.say(ctx, Greeting(s.now()), reply)
}

func (s *Session) turn(ctx context.Context, reply string) error {
	defer s.settle()

	s.enter(spectrum.Listening, StatusListening)
	text, err := s.actions.Listen(ctx)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.handle(ctx, text, reply)
}

func (s *Session) handle(ctx context.Context, text, reply string) error {
	s.transcript.Add(RoleUser, text)

	cmd := s.router.Route(text, s.now())
	s.log.Debug("routed", "intent", cmd.Intent, "text", text)

	if cmd.Intent == IntentChat {
		s.enter(spectrum.Thinking, StatusThinking)
		answer, err := s.actions.Think(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("language model failed", "err", err)
			answer = fmt.Sprintf("I heard you say: %s. My AI connection is having issues.", text)
		}
		cmd.Reply = answer
	}

	if err := s.say(ctx, cmd.Reply, reply); err != nil {
		return err
	}

	switch cmd.Intent {
	case IntentFarewell:
		s.finished.Store(true)
	case IntentPlay:
		if err := s.actions.PlayMedia(ctx, cmd.Arg); err != nil {
			return fmt.Errorf("play %q: %w", cmd.Arg, err)
		}
	case IntentOpen:
		if err := s.actions.OpenURL(ctx, cmd.Arg); err != nil {
			return fmt.Errorf("open %s: %w", cmd.Arg, err)
		}
	}
	return nil
}

// say logs text as the assistant and speaks it: the reply file when there is one, otherwise
// a silent pause of SpeakFor.
func (s *Session) say(ctx context.Context, text, reply string) error {
	s.transcript.Add(RoleAssistant, text)
	s.enter(spectrum.Speaking, StatusSpeaking)

	if reply == "" || s.speaker == nil {
		return sleep(ctx, s.speakFor)
	}
	if err := s.speaker.Play(ctx, reply); err != nil {
		return fmt.Errorf("speak %s: %w", reply, err)
	}
	return nil
}

func (s *Session) enter(m spectrum.Mode, status string) {
	s.log.Debug("mode", "to", m)
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.modes.SetMode(m)
}

func (s *Session) settle() {
	s.enter(spectrum.Idle, StatusReady)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
