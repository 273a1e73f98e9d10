package track

import (
	"errors"
	"time"
)

var (
	// ErrMissingCollaborator means a required presentation element is absent.
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrInvalidGeometry means the track path has no usable length.
	ErrInvalidGeometry = errors.New("invalid track geometry")
	// ErrInvalidTiming means a duration or threshold is out of range.
	ErrInvalidTiming = errors.New("invalid timing")
)

// DrawableTrack is a path whose visible portion is controlled by a dash
// pattern, as with an SVG stroke.
type DrawableTrack interface {
	Path
	SetDashArray(length float64)
	SetDashOffset(offset float64)
}

// Transform places a marker with a translation and a rotation in degrees.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Marker is the car that follows the drawn track.
type Marker interface {
	SetTransform(t Transform)
}

// Hint is the restart caption.
type Hint interface {
	Show()
	Hide()
}

// Scaler receives the cosmetic hover scale.
type Scaler interface {
	SetScale(scale float64)
}

// FrameClock calls back once, asynchronously, near the next frame.
type FrameClock interface {
	RequestTick(cb func(now time.Duration))
}

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Delayer schedules one-shot callbacks.
type Delayer interface {
	After(d time.Duration, f func()) Timer
}

// Stage holds the collaborators the animator drives. Present reports whether
// the animated region exists at all.
type Stage struct {
	Present bool
	Track   DrawableTrack
	Marker  Marker
	Hint    Hint
}

// Interaction carries the external signals.
type Interaction interface {
	Restart()
	HoverEnter()
	HoverLeave()
}
