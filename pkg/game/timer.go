package game

import (
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/jonboulle/clockwork"
)

// TickFunc receives the remaining seconds after every decrement or resync.
type TickFunc func(secondsRemaining int)

// ExpireFunc fires exactly once when a countdown reaches zero on its own.
// This is the only self-initiated outbound side effect of the whole core;
// the client wires it to the end_turn command.
type ExpireFunc func()

// Reconciler owns the single local countdown derived from server-issued
// timer values. Nobody else decrements it; phase and turn boundary handlers
// call Stop instead of trusting the countdown to notice the boundary.
type Reconciler struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	seconds  int
	running  bool
	gen      uint64 // countdown generation, guards late ticks
	onTick   TickFunc
	onExpire ExpireFunc
	log      slog.Logger
}

// NewReconciler creates a stopped reconciler. Pass clockwork.NewRealClock()
// outside of tests.
func NewReconciler(clock clockwork.Clock, log slog.Logger) *Reconciler {
	return &Reconciler{clock: clock, log: log}
}

// OnTick sets the tick callback. Must be set before the first Start.
func (r *Reconciler) OnTick(f TickFunc) {
	r.mu.Lock()
	r.onTick = f
	r.mu.Unlock()
}

// OnExpire sets the natural-expiry callback. Must be set before the first
// Start.
func (r *Reconciler) OnExpire(f ExpireFunc) {
	r.mu.Lock()
	r.onExpire = f
	r.mu.Unlock()
}

// Start begins a fresh countdown from initialSeconds, replacing any
// countdown already running.
func (r *Reconciler) Start(initialSeconds int) {
	if initialSeconds < 0 {
		initialSeconds = 0
	}
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.seconds = initialSeconds
	r.running = true
	tick := r.onTick
	r.mu.Unlock()

	r.log.Debugf("timer: start %ds (gen %d)", initialSeconds, gen)
	if tick != nil {
		tick(initialSeconds)
	}
	go r.run(gen)
}

// Resync snaps the remaining seconds to the server's value without
// restarting the one-second cadence.
func (r *Reconciler) Resync(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	r.mu.Lock()
	r.seconds = seconds
	tick := r.onTick
	r.mu.Unlock()

	r.log.Debugf("timer: resync to %ds", seconds)
	if tick != nil {
		tick(seconds)
	}
}

// Stop halts the countdown. Safe to call from any boundary handler, any
// number of times, including after natural expiry.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.gen++
	r.seconds = 0
	tick := r.onTick
	r.mu.Unlock()

	r.log.Debugf("timer: stopped")
	if tick != nil {
		tick(0)
	}
}

// Seconds returns the remaining seconds.
func (r *Reconciler) Seconds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seconds
}

// Running reports whether a countdown is active.
func (r *Reconciler) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Reconciler) run(gen uint64) {
	ticker := r.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.Chan() {
		if !r.tick(gen) {
			return
		}
	}
}

// tick applies one decrement. Returns false once this countdown generation
// is over, either stopped externally or expired here.
func (r *Reconciler) tick(gen uint64) bool {
	r.mu.Lock()
	if !r.running || r.gen != gen {
		r.mu.Unlock()
		return false
	}
	r.seconds--
	if r.seconds > 0 {
		seconds := r.seconds
		tick := r.onTick
		r.mu.Unlock()
		if tick != nil {
			tick(seconds)
		}
		return true
	}

	// Expiry: clear the running state before emitting, so a racing
	// turn_time_up or phase_changed stop cannot double-fire end_turn.
	r.seconds = 0
	r.running = false
	r.gen++
	tick := r.onTick
	expire := r.onExpire
	r.mu.Unlock()

	r.log.Debugf("timer: expired")
	if tick != nil {
		tick(0)
	}
	if expire != nil {
		expire()
	}
	return false
}
