package scan

import (
	"context"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

// State is the session's position in the capture lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateRequesting  State = "requesting"
	StateScanning    State = "scanning"
	StateMatched     State = "matched"
	StateTimedOut    State = "timed_out"
	StateManualEntry State = "manual_entry"
)

// Outcome labels reported to the metrics hook.
const (
	OutcomeMatched  = "matched"
	OutcomeTimedOut = "timed_out"
	OutcomeManual   = "manual"
)

// Options configures a session.
type Options struct {
	TimeoutUnits int
	UnitInterval time.Duration
	OnOutcome    func(outcome string)
}

// Session owns one capture attempt. All methods are safe for
// concurrent use; the capability is released exactly once no matter
// which exit path fires first.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	state     State
	provider  CapabilityProvider
	scheduler Scheduler
	log       *logger.Logger

	timeoutUnits int
	unitInterval time.Duration
	remaining    int

	capture Capture
	handle  TaskHandle

	result    string
	delivered bool

	onOutcome func(string)
	closed    bool
}

// NewSession builds an idle session. Call Start to begin scanning.
func NewSession(provider CapabilityProvider, scheduler Scheduler, logg *logger.Logger, opts Options) *Session {
	if opts.TimeoutUnits <= 0 {
		opts.TimeoutUnits = 10
	}
	if opts.UnitInterval <= 0 {
		opts.UnitInterval = time.Second
	}
	return &Session{
		id:           uuid.New(),
		state:        StateIdle,
		provider:     provider,
		scheduler:    scheduler,
		log:          logg,
		timeoutUnits: opts.TimeoutUnits,
		unitInterval: opts.UnitInterval,
		onOutcome:    opts.OnOutcome,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// View is a read-only snapshot of the session.
type View struct {
	ID        uuid.UUID `json:"id"`
	State     State     `json:"state"`
	Remaining int       `json:"remaining"`
	Result    string    `json:"result,omitempty"`
}

// Snapshot returns the current state without consuming the result.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := View{ID: s.id, State: s.state}
	if s.state == StateScanning {
		view.Remaining = s.remaining
	}
	if s.state == StateMatched {
		view.Result = s.result
	}
	return view
}

// Start moves the session from Idle into Scanning. When the capability
// cannot be acquired the session lands in ManualEntry instead of
// dead-ending.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "session is closed")
	}
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot start from state "+string(state))
	}
	s.state = StateRequesting
	s.mu.Unlock()

	return s.beginScanning(ctx)
}

func (s *Session) beginScanning(ctx context.Context) error {
	capture, err := s.provider.Acquire(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		if capture != nil {
			_ = capture.Release()
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "session is closed")
	}

	if err != nil {
		s.state = StateManualEntry
		if s.log != nil {
			s.log.Warn(ctx, "capability acquisition failed, falling back to manual entry: "+err.Error())
		}
		return nil
	}

	s.capture = capture
	s.state = StateScanning
	s.remaining = s.timeoutUnits
	s.handle = s.scheduler.Schedule(s.unitInterval, s.tick)
	return nil
}

// tick burns one countdown unit; at zero the session times out and the
// capability is released.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning {
		return
	}
	s.remaining--
	if s.remaining > 0 {
		return
	}
	s.releaseLocked()
	s.state = StateTimedOut
	s.reportOutcome(OutcomeTimedOut)
}

// SubmitFrame runs one detection pass. The first decoded value wins;
// decode misses keep the session scanning.
func (s *Session) SubmitFrame(ctx context.Context, frame image.Image) (View, error) {
	s.mu.Lock()
	if s.state != StateScanning {
		state := s.state
		s.mu.Unlock()
		return View{}, pkgerrors.New(pkgerrors.CodeStateConflict, "session is not scanning (state "+string(state)+")")
	}
	capture := s.capture
	s.mu.Unlock()

	values, err := capture.Detect(ctx, frame)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			return View{}, err
		}
		if s.log != nil {
			s.log.Warn(ctx, "frame detection failed, continuing: "+err.Error())
		}
		return s.Snapshot(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning {
		// timed out or torn down while detecting
		return View{ID: s.id, State: s.state}, nil
	}
	if len(values) == 0 {
		return View{ID: s.id, State: s.state, Remaining: s.remaining}, nil
	}

	s.result = values[0]
	s.delivered = false
	s.releaseLocked()
	s.state = StateMatched
	s.reportOutcome(OutcomeMatched)
	return View{ID: s.id, State: s.state, Result: s.result}, nil
}

// TakeResult consumes the matched value. It yields the value exactly
// once per match; later calls report nothing until a new match lands.
func (s *Session) TakeResult() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateMatched || s.delivered {
		return "", false
	}
	s.delivered = true
	return s.result, true
}

// EnterManual toggles manual entry from any state, releasing an active
// capture on the way out of Scanning.
func (s *Session) EnterManual() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	s.stopCountdownLocked()
	s.state = StateManualEntry
	return View{ID: s.id, State: s.state}
}

// SubmitManual records a hand-typed code. Empty input is rejected and
// the session stays in ManualEntry.
func (s *Session) SubmitManual(code string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateManualEntry {
		return View{}, pkgerrors.New(pkgerrors.CodeStateConflict, "session is not in manual entry")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return View{ID: s.id, State: s.state}, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	s.result = trimmed
	s.delivered = false
	s.state = StateMatched
	s.reportOutcome(OutcomeManual)
	return View{ID: s.id, State: s.state, Result: s.result}, nil
}

// Restart re-arms a timed-out session with a fresh countdown.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "session is closed")
	}
	if s.state != StateTimedOut {
		state := s.state
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot restart from state "+string(state))
	}
	s.stopCountdownLocked()
	s.state = StateRequesting
	s.mu.Unlock()

	return s.beginScanning(ctx)
}

// Close tears the session down, releasing any held capability.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	s.stopCountdownLocked()
	s.closed = true
	s.state = StateIdle
}

func (s *Session) releaseLocked() {
	if s.capture == nil {
		return
	}
	if err := s.capture.Release(); err != nil && s.log != nil {
		s.log.Warn(context.Background(), "capture release failed: "+err.Error())
	}
	s.capture = nil
	s.stopCountdownLocked()
}

func (s *Session) stopCountdownLocked() {
	if s.handle != nil {
		s.handle.Stop()
		s.handle = nil
	}
}

func (s *Session) reportOutcome(outcome string) {
	if s.onOutcome != nil {
		s.onOutcome(outcome)
	}
}
