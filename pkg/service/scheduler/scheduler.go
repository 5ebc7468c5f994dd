// Package scheduler owns the per-channel ticket timers: the one-shot
// deletion timer, the countdown ticker, and the inactivity reminder.
// Creation is idempotent per channel and kind; cancellation is explicit and
// always safe to repeat.
package scheduler

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// Registry tracks cancellable timer handles keyed by channel id. Callbacks
// run on their own goroutines with the registry's base context and panic
// recovery; a callback that fails simply self-unregisters, it is never
// rescheduled.
type Registry struct {
	mu         sync.Mutex
	ctx        context.Context
	deletions  map[types.ChannelID]*time.Timer
	countdowns map[types.ChannelID]chan struct{}
	reminders  map[types.ChannelID]*time.Timer

	tick          time.Duration
	reminderDelay time.Duration
	stopped       bool
}

// Option configures a Registry
type Option func(*Registry)

// WithCountdownTick overrides the countdown period, for tests
func WithCountdownTick(d time.Duration) Option {
	return func(r *Registry) {
		r.tick = d
	}
}

// WithReminderDelay overrides the inactivity reminder delay, for tests
func WithReminderDelay(d time.Duration) Option {
	return func(r *Registry) {
		r.reminderDelay = d
	}
}

// New creates a timer registry whose callbacks inherit ctx
func New(ctx context.Context, opts ...Option) *Registry {
	r := &Registry{
		ctx:           ctx,
		deletions:     make(map[types.ChannelID]*time.Timer),
		countdowns:    make(map[types.ChannelID]chan struct{}),
		reminders:     make(map[types.ChannelID]*time.Timer),
		tick:          model.CountdownTick,
		reminderDelay: model.ReminderDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScheduleDeletion arms the one-shot expiry timer for a channel. A second
// call for an already-scheduled channel is a no-op. The handle is removed
// before fire runs, so cancelling from inside the callback is safe.
func (r *Registry) ScheduleDeletion(ch types.ChannelID, at time.Time, fire func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if _, ok := r.deletions[ch]; ok {
		return
	}

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	r.deletions[ch] = time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.deletions, ch)
		r.mu.Unlock()
		r.run(ch, "deletion", fire)
	})
}

// StartCountdown starts the periodic countdown for a channel. Each tick
// invokes fn; returning false stops the ticker and unregisters it
// (fail-stop, no retry). Idempotent per channel.
func (r *Registry) StartCountdown(ch types.ChannelID, fn func(ctx context.Context) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if _, ok := r.countdowns[ch]; ok {
		return
	}

	stop := make(chan struct{})
	r.countdowns[ch] = stop

	go func() {
		ticker := time.NewTicker(r.tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				if !r.tickOnce(ch, fn) {
					r.dropCountdown(ch, stop)
					return
				}
			}
		}
	}()
}

// ResetReminder arms the inactivity reminder for a channel, replacing any
// pending one. Called on every observed activity so reminders never stack.
func (r *Registry) ResetReminder(ch types.ChannelID, fire func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if t, ok := r.reminders[ch]; ok {
		t.Stop()
		delete(r.reminders, ch)
	}
	r.reminders[ch] = time.AfterFunc(r.reminderDelay, func() {
		r.mu.Lock()
		delete(r.reminders, ch)
		r.mu.Unlock()
		r.run(ch, "reminder", fire)
	})
}

// Clear cancels all timers of a channel. Idempotent, and safe to call from
// inside a firing callback of the same channel.
func (r *Registry) Clear(ch types.ChannelID) {
	r.mu.Lock()
	if t, ok := r.deletions[ch]; ok {
		t.Stop()
		delete(r.deletions, ch)
	}
	if t, ok := r.reminders[ch]; ok {
		t.Stop()
		delete(r.reminders, ch)
	}
	stop, hadCountdown := r.countdowns[ch]
	if hadCountdown {
		delete(r.countdowns, ch)
	}
	r.mu.Unlock()

	if hadCountdown {
		close(stop)
	}
}

// Stop cancels every timer. Used at shutdown.
func (r *Registry) Stop() {
	r.mu.Lock()
	r.stopped = true
	for ch, t := range r.deletions {
		t.Stop()
		delete(r.deletions, ch)
	}
	for ch, t := range r.reminders {
		t.Stop()
		delete(r.reminders, ch)
	}
	stops := make([]chan struct{}, 0, len(r.countdowns))
	for ch, stop := range r.countdowns {
		stops = append(stops, stop)
		delete(r.countdowns, ch)
	}
	r.mu.Unlock()

	for _, stop := range stops {
		close(stop)
	}
}

// dropCountdown removes a self-stopping countdown, but only if its handle is
// still the one that stopped; a concurrent Clear may have replaced it.
func (r *Registry) dropCountdown(ch types.ChannelID, stop chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.countdowns[ch]; ok && current == stop {
		delete(r.countdowns, ch)
	}
}

func (r *Registry) tickOnce(ch types.ChannelID, fn func(ctx context.Context) bool) (keep bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ctxlog.From(r.ctx).Error("Panic in countdown tick",
				"channelID", ch,
				"recover", rec,
				"stack", string(debug.Stack()),
			)
			keep = false
		}
	}()
	return fn(r.ctx)
}

func (r *Registry) run(ch types.ChannelID, kind string, fire func(ctx context.Context)) {
	defer func() {
		if rec := recover(); rec != nil {
			ctxlog.From(r.ctx).Error("Panic in timer callback",
				"channelID", ch,
				"kind", kind,
				"recover", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fire(r.ctx)
}
