// Package recitation drives the speech-recognition lifecycle of a live
// recitation session as an explicit state machine. The recognizer itself runs
// on the client; this package decides when it should start, restart or stop.
package recitation

import (
	"sync"
	"time"

	"github.com/quran-reader-api/internal/cache"
)

// State is the recognizer lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateRestarting State = "restarting"
	StateStopped    State = "stopped"
)

// ErrorKind is a recognizer error code as reported by the client.
type ErrorKind string

const (
	ErrNoSpeech             ErrorKind = "no-speech"
	ErrNetwork              ErrorKind = "network"
	ErrAudioCapture         ErrorKind = "audio-capture"
	ErrAborted              ErrorKind = "aborted"
	ErrNotAllowed           ErrorKind = "not-allowed"
	ErrServiceNotAllowed    ErrorKind = "service-not-allowed"
	ErrLanguageNotSupported ErrorKind = "language-not-supported"
)

// Recoverable reports whether the recognizer should be restarted after k.
func (k ErrorKind) Recoverable() bool {
	switch k {
	case ErrNoSpeech, ErrNetwork, ErrAudioCapture, ErrAborted:
		return true
	}
	return false
}

// Command tells the client what to do with its recognizer.
type Command string

const (
	CommandNone    Command = ""
	CommandStart   Command = "start"
	CommandRestart Command = "restart"
	CommandStop    Command = "stop"
)

// Stop and restart reasons.
const (
	ReasonUser            = "user"
	ReasonInactivity      = "inactivity"
	ReasonTooManyRestarts = "too-many-restarts"
)

// Config bounds the restart loop.
type Config struct {
	RestartDelay      time.Duration
	MaxRestarts       int
	InactivityTimeout time.Duration
}

// DefaultConfig restarts after 300ms, gives up after 5 consecutive restarts
// without a result, and force-restarts after 6s of silence.
func DefaultConfig() Config {
	return Config{
		RestartDelay:      300 * time.Millisecond,
		MaxRestarts:       5,
		InactivityTimeout: 6 * time.Second,
	}
}

// Transition is the outcome of one event.
type Transition struct {
	From    State         `json:"from"`
	To      State         `json:"state"`
	Command Command       `json:"command,omitempty"`
	Delay   time.Duration `json:"-"`
	Reason  string        `json:"reason,omitempty"`
}

// Changed reports whether the event moved the machine or issued a command.
func (t Transition) Changed() bool {
	return t.From != t.To || t.Command != CommandNone
}

// Session is one recognizer's state machine. It is safe for concurrent use.
type Session struct {
	cfg   Config
	clock cache.Clock

	mu        sync.Mutex
	state     State
	restarts  int
	lastEvent time.Time
}

// NewSession creates an idle session. A nil clock uses the wall clock.
func NewSession(cfg Config, clock cache.Clock) *Session {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &Session{cfg: cfg, clock: clock, state: StateIdle}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Restarts returns the number of consecutive restarts since the last result.
func (s *Session) Restarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts
}

func (s *Session) noop() Transition {
	return Transition{From: s.state, To: s.state}
}

func (s *Session) move(to State, cmd Command, reason string) Transition {
	t := Transition{From: s.state, To: to, Command: cmd, Reason: reason}
	if cmd == CommandRestart {
		t.Delay = s.cfg.RestartDelay
	}
	s.state = to
	return t
}

// Start begins listening from idle or stopped.
func (s *Session) Start() Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateListening || s.state == StateRestarting {
		return s.noop()
	}
	s.restarts = 0
	s.lastEvent = s.clock.Now()
	return s.move(StateListening, CommandStart, "")
}

// Result records a recognition result. Any result proves the recognizer is
// alive, so the restart budget is refilled.
func (s *Session) Result() Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateListening:
		s.restarts = 0
		s.lastEvent = s.clock.Now()
		return s.noop()
	case StateRestarting:
		s.restarts = 0
		s.lastEvent = s.clock.Now()
		return s.move(StateListening, CommandNone, "")
	}
	return s.noop()
}

// Error handles a recognizer error. Recoverable kinds schedule a restart;
// anything else stops the session.
func (s *Session) Error(kind ErrorKind) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateListening && s.state != StateRestarting {
		return s.noop()
	}
	if !kind.Recoverable() {
		return s.move(StateStopped, CommandStop, string(kind))
	}
	s.lastEvent = s.clock.Now()
	return s.restart(string(kind))
}

func (s *Session) restart(reason string) Transition {
	s.restarts++
	if s.restarts > s.cfg.MaxRestarts {
		return s.move(StateStopped, CommandStop, ReasonTooManyRestarts)
	}
	return s.move(StateRestarting, CommandRestart, reason)
}

// Restarted confirms the client restarted its recognizer.
func (s *Session) Restarted() Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRestarting {
		return s.noop()
	}
	s.lastEvent = s.clock.Now()
	return s.move(StateListening, CommandNone, "")
}

// Tick runs the inactivity watchdog at now. It fires while listening and
// while a restart is pending without the client confirming it; both cases
// spend the restart budget.
func (s *Session) Tick(now time.Time) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if (s.state != StateListening && s.state != StateRestarting) || s.cfg.InactivityTimeout <= 0 {
		return s.noop()
	}
	if now.Sub(s.lastEvent) < s.cfg.InactivityTimeout {
		return s.noop()
	}
	s.lastEvent = now
	return s.restart(ReasonInactivity)
}

// Stop ends the session on user request.
func (s *Session) Stop() Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped || s.state == StateIdle {
		return s.move(StateStopped, CommandNone, ReasonUser)
	}
	return s.move(StateStopped, CommandStop, ReasonUser)
}
