package track

import (
	"math"
)

// Point is a location on the track plane.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Path maps a distance along a track to a point on it.
type Path interface {
	TotalLength() float64
	PointAtLength(distance float64) Point
}

// Polyline is a Path made of straight segments.
type Polyline struct {
	points []Point
	// cumulative length at the start of each point
	offsets []float64
	length  float64
}

// NewPolyline creates a Polyline through points. A closed polyline returns
// to its first point.
func NewPolyline(points []Point, closed bool) *Polyline {
	p := new(Polyline)
	p.points = append(p.points, points...)
	if closed && len(points) > 1 {
		p.points = append(p.points, points[0])
	}

	p.offsets = make([]float64, len(p.points))
	for i := 1; i < len(p.points); i++ {
		a, b := p.points[i-1], p.points[i]
		p.length += math.Hypot(b.X-a.X, b.Y-a.Y)
		p.offsets[i] = p.length
	}

	return p
}

// TotalLength returns the length of the polyline.
func (p *Polyline) TotalLength() float64 {
	return p.length
}

// PointAtLength returns the point at distance along the polyline. Distances
// outside the polyline are clamped to its ends.
func (p *Polyline) PointAtLength(distance float64) Point {
	if len(p.points) == 0 {
		return Point{}
	}
	if distance <= 0 || p.length == 0 {
		return p.points[0]
	}
	if distance >= p.length {
		return p.points[len(p.points)-1]
	}

	for i := 1; i < len(p.points); i++ {
		if distance <= p.offsets[i] {
			segment := p.offsets[i] - p.offsets[i-1]
			if segment == 0 {
				return p.points[i]
			}
			t := (distance - p.offsets[i-1]) / segment
			a, b := p.points[i-1], p.points[i]
			return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		}
	}

	return p.points[len(p.points)-1]
}

// Heading returns the angle in degrees of the vector from a to b.
func Heading(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}
