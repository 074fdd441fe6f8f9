package hunt

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
)

const (
	// DefaultInterval is the pause between scheduler passes.
	DefaultInterval = time.Second
	// DefaultGrace bounds how long Stop waits for an in-flight hunt.
	DefaultGrace = 5 * time.Second
)

// Daemon drives the engine: a tick loop feeds the executor from the
// scheduler, and RunNow offers a synchronous path for callers that want
// to enqueue and block on a single hunt. Both paths share one executor
// slot, so a daemon never runs two hunts at once.
type Daemon struct {
	store    store.HuntStore
	sched    *Scheduler
	exec     *Executor
	interval time.Duration
	grace    time.Duration

	mu    sync.Mutex // guards stop/done
	runMu sync.Mutex // one executor invocation at a time
	stop  chan struct{}
	done  chan struct{}
}

// NewDaemon creates a daemon. Non-positive interval or grace fall back
// to the package defaults.
func NewDaemon(st store.HuntStore, exec *Executor, interval, grace time.Duration) *Daemon {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Daemon{
		store:    st,
		sched:    NewScheduler(st),
		exec:     exec,
		interval: interval,
		grace:    grace,
	}
}

// Start launches the tick loop. Calling Start on a running daemon is a
// no-op.
func (d *Daemon) Start() {
	d.mu.Lock()
	if d.stop != nil {
		d.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop = stop
	d.done = done
	d.mu.Unlock()

	go d.loop(stop, done)
}

// Stop asks the loop to exit and waits up to the grace period for an
// in-flight hunt to settle. It returns true when the loop exited within
// the grace period; false means a hunt was still running, and the loop
// goroutine will exit on its own once that hunt settles.
func (d *Daemon) Stop() bool {
	d.mu.Lock()
	stop := d.stop
	done := d.done
	d.stop = nil
	d.done = nil
	d.mu.Unlock()

	if stop == nil {
		return true
	}
	close(stop)
	select {
	case <-done:
		return true
	case <-time.After(d.grace):
		return false
	}
}

// Running reports whether the tick loop is active.
func (d *Daemon) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stop != nil
}

func (d *Daemon) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.tick()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

// tick runs at most one hunt. Failures are logged and swallowed so one
// bad hunt or a transient store error never stops the loop.
func (d *Daemon) tick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] hunt loop panic: %v\n%s", r, debug.Stack())
		}
	}()

	next, ok, err := d.sched.Next()
	if err != nil {
		log.Printf("[WARN] hunt selection failed: %v", err)
		return
	}
	if !ok {
		return
	}

	d.runMu.Lock()
	defer d.runMu.Unlock()
	if _, err := d.exec.Run(context.Background(), next); err != nil {
		log.Printf("[WARN] hunt %s: %v", next.ID, err)
	}
}

// RunNow enqueues the directive at critical priority and blocks until
// that hunt settles, returning its final state. It bypasses scheduler
// selection but goes through the same executor and store as the loop.
func (d *Daemon) RunNow(ctx context.Context, directive models.Directive, assignee string) (models.Hunt, error) {
	created, err := d.store.Add(directive, assignee, models.PriorityCritical, 0, 0)
	if err != nil {
		return models.Hunt{}, err
	}

	d.runMu.Lock()
	defer d.runMu.Unlock()
	return d.exec.Run(ctx, created)
}
