package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolylineLength(t *testing.T) {
	p := NewPolyline([]Point{{0, 0}, {3, 4}, {3, 10}}, false)
	assert.InDelta(t, 11.0, p.TotalLength(), 1e-9)

	closed := NewPolyline([]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, true)
	assert.InDelta(t, 40.0, closed.TotalLength(), 1e-9)
	assert.Equal(t, Point{0, 0}, closed.PointAtLength(40))
}

func TestPolylinePointAtLength(t *testing.T) {
	p := NewPolyline([]Point{{0, 0}, {100, 0}, {100, 100}}, false)

	assert.Equal(t, Point{0, 0}, p.PointAtLength(0))
	assert.Equal(t, Point{50, 0}, p.PointAtLength(50))
	assert.Equal(t, Point{100, 0}, p.PointAtLength(100))
	assert.Equal(t, Point{100, 25}, p.PointAtLength(125))
	assert.Equal(t, Point{100, 100}, p.PointAtLength(200))

	// Clamped
	assert.Equal(t, Point{0, 0}, p.PointAtLength(-5))
	assert.Equal(t, Point{100, 100}, p.PointAtLength(500))
}

func TestPolylineDegenerate(t *testing.T) {
	empty := NewPolyline(nil, true)
	assert.Equal(t, 0.0, empty.TotalLength())
	assert.Equal(t, Point{}, empty.PointAtLength(3))

	single := NewPolyline([]Point{{2, 3}}, true)
	assert.Equal(t, 0.0, single.TotalLength())
	assert.Equal(t, Point{2, 3}, single.PointAtLength(1))

	repeated := NewPolyline([]Point{{0, 0}, {0, 0}, {10, 0}}, false)
	assert.InDelta(t, 10.0, repeated.TotalLength(), 1e-9)
	assert.Equal(t, Point{5, 0}, repeated.PointAtLength(5))
}

func TestHeading(t *testing.T) {
	assert.InDelta(t, 0.0, Heading(Point{0, 0}, Point{1, 0}), 1e-9)
	assert.InDelta(t, 90.0, Heading(Point{0, 0}, Point{0, 1}), 1e-9)
	assert.InDelta(t, 180.0, Heading(Point{0, 0}, Point{-1, 0}), 1e-9)
	assert.InDelta(t, -45.0, Heading(Point{0, 0}, Point{1, -1}), 1e-9)
	assert.InDelta(t, math.Atan2(-3, -4)*180/math.Pi, Heading(Point{4, 3}, Point{0, 0}), 1e-9)
}
