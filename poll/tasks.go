package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
)

// Task is a unit of background work. The context is cancelled when the
// source closes; long tasks should watch it.
type Task func(ctx context.Context) (any, error)

// taskResult carries one completion from a worker to the loop.
type taskResult struct {
	value any
	err   error
}

// Tasks runs background work on a bounded worker pool and delivers
// completions as task-done events. Spawning never blocks: a full
// queue returns ErrQueueFull. The run loop polls completions; workers
// never touch loop state directly.
type Tasks struct {
	queueSize int
	workers   int

	mu      sync.Mutex
	queue   chan Task
	results chan taskResult
	waker   Waker

	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	spawned   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// TasksOption configures a Tasks source.
type TasksOption func(*Tasks)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) TasksOption {
	return func(t *Tasks) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithQueueSize sets the pending-task queue capacity.
func WithQueueSize(n int) TasksOption {
	return func(t *Tasks) {
		if n > 0 {
			t.queueSize = n
		}
	}
}

// closeTimeout bounds how long Close waits for workers to drain.
const closeTimeout = 5 * time.Second

// NewTasks creates a tasks source and starts its workers.
func NewTasks(opts ...TasksOption) *Tasks {
	t := &Tasks{
		queueSize: 64,
		workers:   4,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.queue = make(chan Task, t.queueSize)
	// Results sized so workers can always hand off and exit.
	t.results = make(chan taskResult, t.queueSize+t.workers)
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.running.Store(true)

	for i := 0; i < t.workers; i++ {
		t.wg.Add(1)
		go t.worker()
	}
	return t
}

// Spawn queues a task for execution. Returns ErrQueueFull when the
// queue is at capacity and ErrNotRunning after Close.
func (t *Tasks) Spawn(fn Task) error {
	if fn == nil {
		return nil
	}
	if !t.running.Load() {
		return ErrNotRunning
	}

	select {
	case t.queue <- fn:
		t.spawned.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

func (t *Tasks) worker() {
	defer t.wg.Done()

	for fn := range t.queue {
		value, err := fn(t.ctx)
		if err != nil {
			t.failed.Add(1)
		} else {
			t.completed.Add(1)
		}

		select {
		case t.results <- taskResult{value: value, err: err}:
			t.wake()
		case <-t.ctx.Done():
			return
		}
	}
}

func (t *Tasks) wake() {
	t.mu.Lock()
	w := t.waker
	t.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

func (t *Tasks) Poll() (bool, error) {
	return len(t.results) > 0, nil
}

func (t *Tasks) Read() ([]tcell.Event, error) {
	var evs []tcell.Event
	for {
		select {
		case r := <-t.results:
			evs = append(evs, event.NewTaskDone(r.value, r.err))
		default:
			return evs, nil
		}
	}
}

func (t *Tasks) SleepTime() (time.Duration, bool) {
	return 0, false
}

// Close stops accepting work, cancels running tasks and waits for the
// workers to finish, bounded by closeTimeout.
func (t *Tasks) Close() error {
	if !t.running.CompareAndSwap(true, false) {
		return nil
	}
	close(t.queue)
	t.cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(closeTimeout):
		return ErrShutdownTimeout
	}
}

// SetWaker wires the loop's waker so completions wake a sleeping loop.
func (t *Tasks) SetWaker(w Waker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.waker = w
}

// Spawned returns how many tasks have been accepted.
func (t *Tasks) Spawned() uint64 { return t.spawned.Load() }

// Completed returns how many tasks finished without error.
func (t *Tasks) Completed() uint64 { return t.completed.Load() }

// Failed returns how many tasks returned an error.
func (t *Tasks) Failed() uint64 { return t.failed.Load() }
