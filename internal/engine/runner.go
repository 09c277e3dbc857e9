// Real-time loop driving the simulation when run as a service.
package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Runner advances a Simulation on a wall-clock cadence. The simulation
// core is single-threaded and not reentrant, so the runner serializes
// all access: the update loop and any host calls made through Do share
// one lock.
type Runner struct {
	Sim      *Simulation
	Interval time.Duration // Wall-clock pass interval (default 100ms)

	// OnPass runs after every update pass, on the runner goroutine
	// with the lock held. Used for periodic persistence.
	OnPass func(sim *Simulation)

	mu   sync.Mutex
	stop chan struct{}
}

// NewRunner creates a runner for the simulation.
func NewRunner(sim *Simulation) *Runner {
	return &Runner{
		Sim:      sim,
		Interval: 100 * time.Millisecond,
		stop:     make(chan struct{}),
	}
}

// Do runs fn with exclusive access to the simulation. Host surfaces
// (the HTTP API, shutdown persistence) use this instead of touching
// the simulation directly.
func (r *Runner) Do(fn func(sim *Simulation)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.Sim)
}

// Run drives the simulation until Stop is called. Blocks.
func (r *Runner) Run() {
	slog.Info("simulation runner started",
		"interval", r.Interval,
		"time_scale", r.Sim.TimeScale(),
	)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-r.stop:
			slog.Info("simulation runner stopped", "sim_time", FormatSimTime(r.Sim.SimTime()))
			return
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now

			r.mu.Lock()
			err := r.Sim.Update(delta)
			if err == nil && r.OnPass != nil {
				r.OnPass(r.Sim)
			}
			r.mu.Unlock()

			if err != nil {
				slog.Error("update failed", "error", err)
				return
			}
		}
	}
}

// Stop halts the loop after the current pass.
func (r *Runner) Stop() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}
