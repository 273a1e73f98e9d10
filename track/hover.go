package track

import (
	"time"

	"github.com/fogleman/ease"
)

const (
	// HoverScale is the scale applied while hovered.
	HoverScale = 1.02
	// HoverTransition is the time taken to reach a new scale.
	HoverTransition = 300 * time.Millisecond
)

// Hover eases a Scaler between its resting and hovered scale. It has no
// effect on the animation session.
type Hover struct {
	target     Scaler
	clock      FrameClock
	transition time.Duration

	scale   float64
	from    float64
	to      float64
	started bool
	start   time.Duration
	ticking bool
}

// NewHover creates a Hover resting at scale 1. A nil target or clock makes
// every call a no-op.
func NewHover(target Scaler, clock FrameClock) *Hover {
	h := new(Hover)
	h.target = target
	h.clock = clock
	h.transition = HoverTransition
	h.scale = 1
	h.from = 1
	h.to = 1
	return h
}

// Enter starts the transition to HoverScale.
func (h *Hover) Enter() {
	h.animateTo(HoverScale)
}

// Leave starts the transition back to scale 1.
func (h *Hover) Leave() {
	h.animateTo(1)
}

// Scale returns the current scale.
func (h *Hover) Scale() float64 {
	return h.scale
}

func (h *Hover) animateTo(to float64) {
	if h.target == nil || h.clock == nil {
		return
	}

	h.from = h.scale
	h.to = to
	h.started = false
	if !h.ticking {
		h.ticking = true
		h.clock.RequestTick(h.tick)
	}
}

func (h *Hover) tick(now time.Duration) {
	h.ticking = false
	if !h.started {
		h.started = true
		h.start = now
	}

	t := float64(now-h.start) / float64(h.transition)
	if t >= 1 {
		h.scale = h.to
		h.target.SetScale(h.scale)
		return
	}

	h.scale = h.from + (h.to-h.from)*ease.InOutQuad(t)
	h.target.SetScale(h.scale)

	h.ticking = true
	h.clock.RequestTick(h.tick)
}
