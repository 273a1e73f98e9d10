package stream

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtrack/util"
)

// A Twinkle is an Animation that pulses random particles. It is streamed
// while the track animation is disabled.
type Twinkle struct {
	numPixels    int
	numParticles int
	foreColour   colorful.Color
	backColour   colorful.Color
	lut          []float64
	rng          *rand.Rand

	// lut position of each twinkling pixel
	particles map[int]int
}

// NewTwinkle creates an instance of a Twinkle object.
func NewTwinkle(numPixels, numParticles int, foreColour, backColour colorful.Color, seed int64) *Twinkle {
	t := new(Twinkle)
	t.numPixels = numPixels
	t.numParticles = numParticles
	t.foreColour = foreColour
	t.backColour = backColour
	t.lut = util.GenerateLut(60)
	t.rng = rand.New(rand.NewSource(seed))
	t.particles = make(map[int]int)
	return t
}

// CalculateFrame creates a new Frame instance.
func (t *Twinkle) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(t.numPixels)
	f.Fill(t.backColour)
	if t.numPixels == 0 {
		return f
	}

	for len(t.particles) < t.numParticles && len(t.particles) < t.numPixels {
		p := t.rng.Intn(t.numPixels)
		if _, found := t.particles[p]; !found {
			t.particles[p] = t.rng.Intn(len(t.lut))
		}
	}

	for p, step := range t.particles {
		f.pixels[p] = t.backColour.BlendHcl(t.foreColour, t.lut[step]).Clamped()
		step++
		if step >= len(t.lut) {
			// Finished pulsing; a new particle takes its place next frame
			delete(t.particles, p)
		} else {
			t.particles[p] = step
		}
	}

	return f
}
