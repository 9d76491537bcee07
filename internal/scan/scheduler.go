package scan

import (
	"sync"
	"time"
)

// TaskHandle cancels a scheduled task. Stop is idempotent.
type TaskHandle interface {
	Stop()
}

// Scheduler drives the session countdown. Production uses a ticker;
// tests inject ManualScheduler and fire ticks synchronously.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) TaskHandle
}

// TickerScheduler runs tasks on real time.
type TickerScheduler struct{}

func (TickerScheduler) Schedule(interval time.Duration, fn func()) TaskHandle {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	handle := &tickerHandle{done: done}
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return handle
}

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.done) })
}

// ManualScheduler collects tasks and ticks them on demand.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Schedule(interval time.Duration, fn func()) TaskHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

// Tick fires every live task once.
func (s *ManualScheduler) Tick() {
	s.mu.Lock()
	tasks := append([]*manualTask(nil), s.tasks...)
	s.mu.Unlock()
	for _, task := range tasks {
		task.run()
	}
}

// ActiveTasks reports how many scheduled tasks have not been stopped.
func (s *ManualScheduler) ActiveTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, task := range s.tasks {
		if !task.stopped() {
			count++
		}
	}
	return count
}

type manualTask struct {
	mu   sync.Mutex
	fn   func()
	dead bool
}

func (t *manualTask) run() {
	t.mu.Lock()
	dead := t.dead
	fn := t.fn
	t.mu.Unlock()
	if !dead && fn != nil {
		fn()
	}
}

func (t *manualTask) Stop() {
	t.mu.Lock()
	t.dead = true
	t.mu.Unlock()
}

func (t *manualTask) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dead
}
