package strip

// frame is the pending RGB buffer shared by the drivers.
type frame struct {
	pixels     []byte
	brightness uint8
}

func newFrame(n int, brightness uint8) *frame {
	return &frame{
		pixels:     make([]byte, n*3),
		brightness: brightness,
	}
}

func (f *frame) len() int {
	return len(f.pixels) / 3
}

func (f *frame) fill(c Color) {
	c = c.Scale(f.brightness)
	for i := 0; i < len(f.pixels); i += 3 {
		f.pixels[i] = c.R
		f.pixels[i+1] = c.G
		f.pixels[i+2] = c.B
	}
}
