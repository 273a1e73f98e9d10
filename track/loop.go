package track

import (
	"context"
	"time"
)

// Loop runs frame ticks, timers and posted work on a single goroutine. It is
// the FrameClock and Delayer for everything that touches animation state.
type Loop struct {
	interval time.Duration
	events   chan func()
	done     chan struct{}

	ticks  []func(now time.Duration)
	frames []func(now time.Duration)
	start  time.Time
}

// NewLoop creates a Loop that ticks every interval.
func NewLoop(interval time.Duration) *Loop {
	l := new(Loop)
	l.interval = interval
	l.events = make(chan func(), 64)
	l.done = make(chan struct{})
	return l
}

// RequestTick schedules cb for the next frame. Loop goroutine only.
func (l *Loop) RequestTick(cb func(now time.Duration)) {
	l.ticks = append(l.ticks, cb)
}

// OnFrame registers f to run on every frame after the tick callbacks.
// Must be called before Run or from the loop goroutine.
func (l *Loop) OnFrame(f func(now time.Duration)) {
	l.frames = append(l.frames, f)
}

type loopTimer struct {
	timer   *time.Timer
	stopped bool
}

// Stop prevents the callback from running. Loop goroutine only.
func (t *loopTimer) Stop() bool {
	t.stopped = true
	return t.timer.Stop()
}

// After runs f on the loop goroutine once d has elapsed, unless the returned
// Timer is stopped first.
func (l *Loop) After(d time.Duration, f func()) Timer {
	t := new(loopTimer)
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if !t.stopped {
				f()
			}
		})
	})
	return t
}

// Post queues f to run on the loop goroutine. It is dropped if the loop has
// stopped. Before Run starts only the queue's buffer is available, and Post
// blocks once it is full.
func (l *Loop) Post(f func()) {
	select {
	case l.events <- f:
	case <-l.done:
	}
}

// Call runs f on the loop goroutine and waits for it to finish.
func (l *Loop) Call(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		f()
		close(finished)
	}

	select {
	case l.events <- wrapped:
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes frames and events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	l.start = time.Now()
	frameTimer := time.NewTicker(l.interval)
	defer frameTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.events:
			f()
		case t := <-frameTimer.C:
			l.frame(t.Sub(l.start))
		}
	}
}

func (l *Loop) frame(now time.Duration) {
	ticks := l.ticks
	l.ticks = nil
	for _, cb := range ticks {
		cb(now)
	}

	for _, f := range l.frames {
		f(now)
	}
}
