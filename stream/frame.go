package stream

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrFrameSize means two frames cannot be combined or encoded.
var ErrFrameSize = errors.New("frame size mismatch")

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a new Frame instance with numPixels black pixels.
func NewFrame(numPixels int) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, numPixels)
	return f
}

// Len returns the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns the colour of pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// InterpolateFrame blends f towards f2 by transitionPoint.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) (*Frame, error) {
	if len(f.pixels) != len(f2.pixels) {
		return nil, ErrFrameSize
	}

	out := NewFrame(len(f.pixels))
	for i := 0; i < len(f.pixels); i++ {
		out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint).Clamped()
	}

	return out, nil
}

// MarshalBinary converts a Frame into binary data: the pixel count as a
// little-endian uint16 followed by one RGB triple per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.pixels) > math.MaxUint16 {
		return nil, ErrFrameSize
	}

	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
