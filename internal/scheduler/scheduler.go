// Package scheduler runs short cooperative tasks on a single goroutine.
//
// A task does a bounded amount of work per tick, then either asks to be
// renewed or stops. Tasks are owned through the Handle returned by Add, and
// Cancel takes effect immediately: a cancelled task never ticks again, even
// later in the pass that is currently running. A Loop is not safe for
// concurrent use; every call must come from the goroutine that drives it.
package scheduler

import (
	"context"
	"sort"
	"time"
)

// DefaultFrame is the tick delay used when a task does not set one
const DefaultFrame = 16 * time.Millisecond

// Action is what a task wants after a tick
type Action int

const (
	// Renew schedules the task again after the tick's delay
	Renew Action = iota
	// Stop removes the task from the loop
	Stop
)

// Tick is passed to a task on every invocation
type Tick struct {
	Now   time.Time
	delay time.Duration
}

// SetDelay sets how long to wait before the next tick. Zero or a negative
// delay means the loop's frame time.
func (t *Tick) SetDelay(d time.Duration) {
	t.delay = d
}

// Func is a task body
type Func func(t *Tick) Action

// Handle owns one scheduled task
type Handle struct {
	loop   *Loop
	fn     Func
	due    time.Time
	seq    uint64
	active bool
}

// Cancel removes the task. It is safe to call more than once and from
// inside the task itself.
func (h *Handle) Cancel() {
	if h == nil || !h.active {
		return
	}
	h.active = false
	h.loop.remove(h)
}

// Active reports whether the task is still scheduled
func (h *Handle) Active() bool {
	return h != nil && h.active
}

// Loop is a cooperative single-goroutine task scheduler
type Loop struct {
	frame time.Duration
	now   func() time.Time
	tasks []*Handle
	seq   uint64
}

// NewLoop creates a loop whose default tick delay is frame
func NewLoop(frame time.Duration) *Loop {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Loop{frame: frame, now: time.Now}
}

// SetClock replaces the loop's time source
func (l *Loop) SetClock(now func() time.Time) {
	l.now = now
}

// Frame returns the default tick delay
func (l *Loop) Frame() time.Duration {
	return l.frame
}

// Add schedules fn to tick as soon as possible
func (l *Loop) Add(fn Func) *Handle {
	return l.AddAfter(0, fn)
}

// AddAfter schedules fn to tick once delay has passed
func (l *Loop) AddAfter(delay time.Duration, fn Func) *Handle {
	l.seq++
	h := &Handle{
		loop:   l,
		fn:     fn,
		due:    l.now().Add(delay),
		seq:    l.seq,
		active: true,
	}
	l.tasks = append(l.tasks, h)
	return h
}

// Len returns the number of scheduled tasks
func (l *Loop) Len() int {
	return len(l.tasks)
}

// Next returns when the earliest task is due
func (l *Loop) Next() (time.Time, bool) {
	if len(l.tasks) == 0 {
		return time.Time{}, false
	}
	next := l.tasks[0].due
	for _, h := range l.tasks[1:] {
		if h.due.Before(next) {
			next = h.due
		}
	}
	return next, true
}

// RunDue ticks every task due at now, earliest first, and returns how many
// ticked. Each task ticks at most once per call.
func (l *Loop) RunDue(now time.Time) int {
	var due []*Handle
	for _, h := range l.tasks {
		if !h.due.After(now) {
			due = append(due, h)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].seq < due[j].seq
	})

	ran := 0
	for _, h := range due {
		// An earlier task in this pass may have cancelled it
		if !h.active {
			continue
		}

		tick := &Tick{Now: now}
		action := h.fn(tick)
		ran++

		if !h.active {
			continue
		}
		if action == Stop {
			h.Cancel()
			continue
		}

		delay := tick.delay
		if delay <= 0 {
			delay = l.frame
		}
		h.due = now.Add(delay)
	}
	return ran
}

// Run drives the loop in real time until ctx is done or no task remains
func (l *Loop) Run(ctx context.Context) error {
	for {
		next, ok := l.Next()
		if !ok {
			return nil
		}

		wait := next.Sub(l.now())
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			l.RunDue(l.now())
		}
	}
}

// Stop cancels every task
func (l *Loop) Stop() {
	for len(l.tasks) > 0 {
		l.tasks[0].Cancel()
	}
}

func (l *Loop) remove(h *Handle) {
	for i, t := range l.tasks {
		if t == h {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			return
		}
	}
}
