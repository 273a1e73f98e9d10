package stream

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtrack/track"
)

// hoverBlend is how far towards the highlight colour a fully hovered
// track is blended.
const hoverBlend = 0.3

// Palette holds the colours a Scene renders with.
type Palette struct {
	Back      colorful.Color
	Car       colorful.Color
	Hint      colorful.Color
	Highlight colorful.Color
	Gradient  GradientTable
	Chroma    float64
	Luminance float64
}

// DefaultPalette returns a dim palette suited to a bright LED strip.
func DefaultPalette() Palette {
	back, _ := colorful.Hex("#000005")
	car, _ := colorful.Hex("#808080")
	hint, _ := colorful.Hex("#050510")
	highlight, _ := colorful.Hex("#303030")
	return Palette{
		Back:      back,
		Car:       car,
		Hint:      hint,
		Highlight: highlight,
		Gradient:  DefaultGradient(),
		Chroma:    1.0,
		Luminance: 0.05,
	}
}

// State is the presentation state published alongside frames.
type State struct {
	Hint   bool            `json:"hint"`
	Drawn  float64         `json:"drawn"`
	Marker track.Transform `json:"marker"`
	Scale  float64         `json:"scale"`
}

// A Scene is an LED strip laid along the track. The animator draws on it
// as it would on an SVG path, and it renders the result as Frames.
type Scene struct {
	*track.Polyline
	palette Palette

	// distance along the track and location of each pixel
	distances []float64
	locations []track.Point

	dashArray  float64
	dashOffset float64
	transform  track.Transform
	hintShown  bool
	scale      float64
}

// NewScene spreads numPixels evenly along path.
func NewScene(path *track.Polyline, numPixels int, palette Palette) *Scene {
	s := new(Scene)
	s.Polyline = path
	s.palette = palette
	s.scale = 1

	length := path.TotalLength()
	s.distances = make([]float64, numPixels)
	s.locations = make([]track.Point, numPixels)
	for i := 0; i < numPixels; i++ {
		if numPixels > 1 {
			s.distances[i] = length * float64(i) / float64(numPixels-1)
		}
		s.locations[i] = path.PointAtLength(s.distances[i])
	}

	return s
}

// SetDashArray sets the length of the dash that reveals the track.
func (s *Scene) SetDashArray(length float64) {
	s.dashArray = length
}

// SetDashOffset sets how much of the dash is still hidden.
func (s *Scene) SetDashOffset(offset float64) {
	s.dashOffset = offset
}

// SetTransform moves the car.
func (s *Scene) SetTransform(t track.Transform) {
	s.transform = t
}

// Show reveals the restart hint.
func (s *Scene) Show() {
	s.hintShown = true
}

// Hide hides the restart hint.
func (s *Scene) Hide() {
	s.hintShown = false
}

// SetScale sets the hover scale.
func (s *Scene) SetScale(scale float64) {
	s.scale = scale
}

// Drawn returns the drawn length of the track.
func (s *Scene) Drawn() float64 {
	if s.dashArray <= 0 {
		return 0
	}
	return math.Max(0, s.dashArray-s.dashOffset)
}

// State returns the current presentation state.
func (s *Scene) State() State {
	drawn := 0.0
	if length := s.TotalLength(); length > 0 {
		drawn = s.Drawn() / length
	}
	return State{Hint: s.hintShown, Drawn: drawn, Marker: s.transform, Scale: s.scale}
}

// CarPixel returns the pixel nearest the car, or -1 for an empty strip.
func (s *Scene) CarPixel() int {
	nearest := -1
	best := math.Inf(1)
	for i, loc := range s.locations {
		d := math.Hypot(loc.X-s.transform.X, loc.Y-s.transform.Y)
		if d < best {
			best = d
			nearest = i
		}
	}
	return nearest
}

// CalculateFrame creates a new Frame instance.
func (s *Scene) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(len(s.distances))
	length := s.TotalLength()
	drawn := s.Drawn()

	rest := s.palette.Back
	if s.hintShown {
		rest = s.palette.Hint
	}

	for i, d := range s.distances {
		if drawn > 0 && d <= drawn {
			f.pixels[i] = s.palette.Gradient.GetColor(d/length, s.palette.Chroma, s.palette.Luminance)
		} else {
			f.pixels[i] = rest
		}
	}

	if car := s.CarPixel(); car >= 0 {
		f.pixels[car] = s.palette.Car
	}

	if s.scale > 1 {
		amount := math.Min(1, (s.scale-1)/(track.HoverScale-1)) * hoverBlend
		highlight := NewFrame(f.Len())
		highlight.Fill(s.palette.Highlight)
		if blended, err := f.InterpolateFrame(highlight, amount); err == nil {
			f = blended
		}
	}

	return f
}
