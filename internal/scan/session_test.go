package scan

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
)

type fakeCapture struct {
	mu        sync.Mutex
	queued    [][]string
	detectErr error
	releases  int
}

func (c *fakeCapture) Detect(ctx context.Context, frame image.Image) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detectErr != nil {
		return nil, c.detectErr
	}
	if len(c.queued) == 0 {
		return nil, nil
	}
	values := c.queued[0]
	c.queued = c.queued[1:]
	return values, nil
}

func (c *fakeCapture) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releases++
	return nil
}

func (c *fakeCapture) releaseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releases
}

type fakeProvider struct {
	mu       sync.Mutex
	captures []*fakeCapture
	err      error
	acquired int
}

func (p *fakeProvider) Acquire(ctx context.Context) (Capture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	capture := &fakeCapture{}
	if len(p.captures) > p.acquired {
		capture = p.captures[p.acquired]
	} else {
		p.captures = append(p.captures, capture)
	}
	p.acquired++
	return capture, nil
}

func testFrame() image.Image {
	return image.NewGray(image.Rect(0, 0, 1, 1))
}

func newScanningSession(t *testing.T) (*Session, *fakeProvider, *ManualScheduler) {
	t.Helper()
	provider := &fakeProvider{}
	scheduler := NewManualScheduler()
	session := NewSession(provider, scheduler, nil, Options{TimeoutUnits: 10, UnitInterval: time.Second})
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return session, provider, scheduler
}

func TestStartEntersScanning(t *testing.T) {
	session, provider, _ := newScanningSession(t)

	view := session.Snapshot()
	if view.State != StateScanning {
		t.Fatalf("expected scanning, got %s", view.State)
	}
	if view.Remaining != 10 {
		t.Fatalf("expected full countdown, got %d", view.Remaining)
	}
	if provider.acquired != 1 {
		t.Fatalf("expected one acquisition, got %d", provider.acquired)
	}
}

func TestCountdownTimesOutAndReleases(t *testing.T) {
	session, provider, scheduler := newScanningSession(t)

	for i := 0; i < 10; i++ {
		scheduler.Tick()
	}

	view := session.Snapshot()
	if view.State != StateTimedOut {
		t.Fatalf("expected timed out, got %s", view.State)
	}
	if got := provider.captures[0].releaseCount(); got != 1 {
		t.Fatalf("expected exactly one release, got %d", got)
	}
	if scheduler.ActiveTasks() != 0 {
		t.Fatal("countdown task must be stopped after timeout")
	}

	// ticks after timeout change nothing
	scheduler.Tick()
	if session.Snapshot().State != StateTimedOut {
		t.Fatal("state must stay timed out")
	}
}

func TestFrameMatchDeliversResultOnce(t *testing.T) {
	session, provider, _ := newScanningSession(t)
	provider.captures[0].queued = [][]string{nil, {"48571035", "ignored-second"}}

	// first frame is a miss
	view, err := session.SubmitFrame(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateScanning {
		t.Fatalf("miss must keep scanning, got %s", view.State)
	}

	view, err = session.SubmitFrame(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateMatched || view.Result != "48571035" {
		t.Fatalf("expected match with first value, got %+v", view)
	}
	if got := provider.captures[0].releaseCount(); got != 1 {
		t.Fatalf("match must release exactly once, got %d", got)
	}

	code, ok := session.TakeResult()
	if !ok || code != "48571035" {
		t.Fatalf("expected first delivery, got %q ok=%v", code, ok)
	}
	if _, ok := session.TakeResult(); ok {
		t.Fatal("result must be delivered exactly once")
	}
}

func TestFrameAfterMatchIsRejected(t *testing.T) {
	session, provider, _ := newScanningSession(t)
	provider.captures[0].queued = [][]string{{"48571035"}}

	if _, err := session.SubmitFrame(context.Background(), testFrame()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := session.SubmitFrame(context.Background(), testFrame())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestTransientDetectErrorKeepsScanning(t *testing.T) {
	session, provider, _ := newScanningSession(t)
	provider.captures[0].detectErr = errors.New("sensor glitch")

	view, err := session.SubmitFrame(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("transient errors must not surface: %v", err)
	}
	if view.State != StateScanning {
		t.Fatalf("expected scanning, got %s", view.State)
	}
}

func TestAcquireFailureFallsBackToManual(t *testing.T) {
	provider := &fakeProvider{err: errors.New("no camera")}
	session := NewSession(provider, NewManualScheduler(), nil, Options{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start must not dead-end: %v", err)
	}
	if got := session.Snapshot().State; got != StateManualEntry {
		t.Fatalf("expected manual entry fallback, got %s", got)
	}
}

func TestManualEntry(t *testing.T) {
	t.Run("toggle from scanning releases capture", func(t *testing.T) {
		session, provider, scheduler := newScanningSession(t)

		view := session.EnterManual()
		if view.State != StateManualEntry {
			t.Fatalf("expected manual entry, got %s", view.State)
		}
		if got := provider.captures[0].releaseCount(); got != 1 {
			t.Fatalf("expected one release, got %d", got)
		}
		if scheduler.ActiveTasks() != 0 {
			t.Fatal("countdown must stop when leaving scanning")
		}
	})

	t.Run("empty submission rejected", func(t *testing.T) {
		session := NewSession(&fakeProvider{err: errors.New("down")}, NewManualScheduler(), nil, Options{})
		_ = session.Start(context.Background())

		view, err := session.SubmitManual("   ")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if view.State != StateManualEntry {
			t.Fatalf("rejection must keep manual entry, got %s", view.State)
		}
	})

	t.Run("valid submission matches", func(t *testing.T) {
		session := NewSession(&fakeProvider{err: errors.New("down")}, NewManualScheduler(), nil, Options{})
		_ = session.Start(context.Background())

		view, err := session.SubmitManual(" 48571035 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.State != StateMatched || view.Result != "48571035" {
			t.Fatalf("expected trimmed match, got %+v", view)
		}
		if code, ok := session.TakeResult(); !ok || code != "48571035" {
			t.Fatalf("expected delivery, got %q ok=%v", code, ok)
		}
	})
}

func TestRestartAfterTimeout(t *testing.T) {
	session, provider, scheduler := newScanningSession(t)
	for i := 0; i < 10; i++ {
		scheduler.Tick()
	}
	if session.Snapshot().State != StateTimedOut {
		t.Fatal("expected timeout")
	}

	if err := session.Restart(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	view := session.Snapshot()
	if view.State != StateScanning {
		t.Fatalf("expected scanning after restart, got %s", view.State)
	}
	if view.Remaining != 10 {
		t.Fatalf("restart must reset the countdown, got %d", view.Remaining)
	}
	if provider.acquired != 2 {
		t.Fatalf("restart must re-acquire, got %d acquisitions", provider.acquired)
	}
}

func TestRestartFromScanningRejected(t *testing.T) {
	session, _, _ := newScanningSession(t)
	err := session.Restart(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCloseReleasesExactlyOnce(t *testing.T) {
	session, provider, _ := newScanningSession(t)

	session.Close()
	session.Close()

	if got := provider.captures[0].releaseCount(); got != 1 {
		t.Fatalf("expected exactly one release, got %d", got)
	}
	if err := session.Start(context.Background()); err == nil {
		t.Fatal("closed session must not restart")
	}
}

func TestOutcomeHook(t *testing.T) {
	var outcomes []string
	provider := &fakeProvider{}
	scheduler := NewManualScheduler()
	session := NewSession(provider, scheduler, nil, Options{
		TimeoutUnits: 2,
		OnOutcome:    func(o string) { outcomes = append(outcomes, o) },
	})
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	scheduler.Tick()
	scheduler.Tick()
	if len(outcomes) != 1 || outcomes[0] != OutcomeTimedOut {
		t.Fatalf("expected timed_out outcome, got %v", outcomes)
	}
}
