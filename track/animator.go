package track

import (
	"fmt"
	"log"
	"math"
	"time"
)

const (
	// DefaultDuration is the time taken to draw the whole track.
	DefaultDuration = 16000 * time.Millisecond
	// DefaultPause is how long the finished track is held before looping.
	DefaultPause = 3000 * time.Millisecond
	// DefaultHintProgress is the progress at which the restart hint appears.
	DefaultHintProgress = 0.2
)

// Options sets the timing of an Animator.
type Options struct {
	Duration     time.Duration
	Pause        time.Duration
	HintProgress float64
}

// DefaultOptions returns the standard 16s draw with a 3s hold.
func DefaultOptions() Options {
	return Options{
		Duration:     DefaultDuration,
		Pause:        DefaultPause,
		HintProgress: DefaultHintProgress,
	}
}

func (o Options) validate() error {
	if o.Duration <= 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidTiming, o.Duration)
	}
	if o.Pause < 0 {
		return fmt.Errorf("%w: pause %v", ErrInvalidTiming, o.Pause)
	}
	if math.IsNaN(o.HintProgress) || o.HintProgress < 0 || o.HintProgress > 1 {
		return fmt.Errorf("%w: hint progress %v", ErrInvalidTiming, o.HintProgress)
	}
	return nil
}

// Snapshot is a point-in-time view of an Animator.
type Snapshot struct {
	Ready     bool    `json:"ready"`
	Session   uint64  `json:"session"`
	Progress  float64 `json:"progress"`
	Paused    bool    `json:"paused"`
	TextShown bool    `json:"textShown"`
}

// An Animator draws the track, drives the marker along it, holds at the end
// and loops. All methods must be called from the goroutine that runs the
// FrameClock and Delayer callbacks.
type Animator struct {
	track  DrawableTrack
	marker Marker
	hint   Hint
	clock  FrameClock
	delay  Delayer
	opts   Options

	ready      bool
	err        error
	pathLength float64

	session   uint64
	started   bool
	startTime time.Duration
	progress  float64
	paused    bool
	textShown bool
	ticking   bool
	pending   Timer
}

// Setup creates an Animator for stage and starts the first session. If a
// collaborator is missing or the geometry or timing is unusable the Animator
// is inert: nothing on the stage is touched and Ready reports false.
func Setup(stage Stage, clock FrameClock, delay Delayer, opts Options) *Animator {
	a := new(Animator)
	a.track = stage.Track
	a.marker = stage.Marker
	a.hint = stage.Hint
	a.clock = clock
	a.delay = delay
	a.opts = opts

	a.err = a.check(stage)
	if a.err != nil {
		log.Printf("Track animation disabled: %v", a.err)
		return a
	}

	a.pathLength = a.track.TotalLength()
	if math.IsNaN(a.pathLength) || math.IsInf(a.pathLength, 0) || a.pathLength <= 0 {
		a.err = fmt.Errorf("%w: path length %v", ErrInvalidGeometry, a.pathLength)
		log.Printf("Track animation disabled: %v", a.err)
		return a
	}

	a.ready = true
	a.track.SetDashArray(a.pathLength)
	a.track.SetDashOffset(a.pathLength)
	a.session = 1
	a.requestTick()

	return a
}

func (a *Animator) check(stage Stage) error {
	if !stage.Present {
		return fmt.Errorf("%w: animated region", ErrMissingCollaborator)
	}

	var missing []string
	if stage.Track == nil {
		missing = append(missing, "track")
	}
	if stage.Marker == nil {
		missing = append(missing, "marker")
	}
	if stage.Hint == nil {
		missing = append(missing, "hint")
	}
	if a.clock == nil {
		missing = append(missing, "frame clock")
	}
	if a.delay == nil {
		missing = append(missing, "delayer")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCollaborator, missing)
	}

	return a.opts.validate()
}

// Ready reports whether the Animator is running.
func (a *Animator) Ready() bool {
	return a.ready
}

// Err returns the reason the Animator is inert, or nil.
func (a *Animator) Err() error {
	return a.err
}

// Snapshot returns the current session state.
func (a *Animator) Snapshot() Snapshot {
	return Snapshot{
		Ready:     a.ready,
		Session:   a.session,
		Progress:  a.progress,
		Paused:    a.paused,
		TextShown: a.textShown,
	}
}

// Restart abandons the current session, including any pending hold, and
// starts a new one on the next tick.
func (a *Animator) Restart() {
	if !a.ready {
		return
	}

	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}

	a.beginSession()
	a.requestTick()
}

func (a *Animator) requestTick() {
	if a.ticking {
		return
	}
	a.ticking = true
	a.clock.RequestTick(a.tick)
}

func (a *Animator) tick(now time.Duration) {
	a.ticking = false
	if a.paused {
		return
	}

	if !a.started {
		a.started = true
		a.startTime = now
	}

	progress := float64(now-a.startTime) / float64(a.opts.Duration)
	if progress < a.progress {
		progress = a.progress
	}

	if progress >= 1 {
		a.hold()
		return
	}

	a.progress = progress
	if progress >= a.opts.HintProgress && !a.textShown {
		a.hint.Show()
		a.textShown = true
	}

	drawn := a.pathLength * progress
	a.track.SetDashOffset(a.pathLength - drawn)

	point := a.track.PointAtLength(drawn)
	ahead := drawn + 1
	if ahead >= a.pathLength {
		ahead = 0
	}
	next := a.track.PointAtLength(ahead)
	a.marker.SetTransform(Transform{X: point.X, Y: point.Y, Angle: Heading(point, next)})

	a.requestTick()
}

// hold pins the finished track and schedules the loop back to the start.
func (a *Animator) hold() {
	a.paused = true
	a.progress = 1
	a.track.SetDashOffset(0)
	end := a.track.PointAtLength(a.pathLength)
	a.marker.SetTransform(Transform{X: end.X, Y: end.Y})

	session := a.session
	a.pending = a.delay.After(a.opts.Pause, func() {
		a.resetAfterPause(session)
	})
}

func (a *Animator) resetAfterPause(session uint64) {
	if session != a.session {
		return
	}
	a.pending = nil

	a.beginSession()
	a.track.SetDashOffset(a.pathLength)
	start := a.track.PointAtLength(0)
	a.marker.SetTransform(Transform{X: start.X, Y: start.Y})
	a.requestTick()
}

func (a *Animator) beginSession() {
	a.session++
	a.hint.Hide()
	a.textShown = false
	a.started = false
	a.startTime = 0
	a.progress = 0
	a.paused = false
}
