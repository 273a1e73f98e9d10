package track

import (
	"context"
)

// Dispatcher forwards interaction signals from any goroutine onto the Loop
// that owns the Animator and Hover.
type Dispatcher struct {
	loop     *Loop
	animator *Animator
	hover    *Hover
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(loop *Loop, animator *Animator, hover *Hover) *Dispatcher {
	d := new(Dispatcher)
	d.loop = loop
	d.animator = animator
	d.hover = hover
	return d
}

// Restart restarts the animation.
func (d *Dispatcher) Restart() {
	d.loop.Post(d.animator.Restart)
}

// HoverEnter starts the hover transition.
func (d *Dispatcher) HoverEnter() {
	d.loop.Post(d.hover.Enter)
}

// HoverLeave reverses the hover transition.
func (d *Dispatcher) HoverLeave() {
	d.loop.Post(d.hover.Leave)
}

// Snapshot reads the animator state on the loop goroutine.
func (d *Dispatcher) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := d.loop.Call(ctx, func() {
		s = d.animator.Snapshot()
	})
	return s, err
}
