package stream

import (
	"encoding/binary"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtween/interp"
)

// Frame represents a frame of RGB pixels to display on an led strip.
type Frame struct {
	pixels []interp.Color
}

// NewFrame creates a black frame of n pixels.
func NewFrame(n int) *Frame {
	f := new(Frame)
	f.pixels = make([]interp.Color, n)
	for i := range f.pixels {
		f.pixels[i].A = 1
	}
	return f
}

// Len returns the number of pixels.
func (f *Frame) Len() int { return len(f.pixels) }

// At returns pixel i.
func (f *Frame) At(i int) interp.Color { return f.pixels[i] }

// Set writes pixel i. Out of range indices are ignored.
func (f *Frame) Set(i int, c interp.Color) {
	if i >= 0 && i < len(f.pixels) {
		f.pixels[i] = c
	}
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c interp.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// InterpolateFrame merges two frames in HCL space. The result has the
// length of the shorter frame.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	n := min(len(f.pixels), len(f2.pixels))
	out := NewFrame(n)
	for i := 0; i < n; i++ {
		a, b := f.pixels[i], f2.pixels[i]
		out.pixels[i] = interp.Color{
			Color: a.BlendHcl(b.Color, transitionPoint).Clamped(),
			A:     a.A + (b.A-a.A)*transitionPoint,
		}
	}

	return out
}

// MarshalBinary encodes the frame as a little endian pixel count followed
// by one RGB triplet per pixel, premultiplied by alpha.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, len(f.pixels)*3+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		c := colorful.Color{R: p.R * p.A, G: p.G * p.A, B: p.B * p.A}
		r, g, b := c.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
