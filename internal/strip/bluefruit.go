package strip

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// colorPacketPrefix starts a Bluefruit LE "set colour" packet.
var colorPacketPrefix = []byte{'!', 'C'}

// BluefruitStrip drives a NeoPixel strip behind a Bluefruit LE UART
// controller. The controller firmware paints the whole strip from a single
// colour packet, so Show sends one packet regardless of strip length.
type BluefruitStrip struct {
	mu     sync.Mutex
	w      io.WriteCloser
	n      int
	color  Color
	bright uint8
	closed bool
}

// OpenBluefruit opens the serial port of a Bluefruit UART controller.
func OpenBluefruit(portName string, baudRate, n int, brightness uint8) (*BluefruitStrip, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("%w: serial port %q: %w", ErrOpenFailed, portName, err)
	}
	return newBluefruitStrip(port, n, brightness), nil
}

func newBluefruitStrip(w io.WriteCloser, n int, brightness uint8) *BluefruitStrip {
	return &BluefruitStrip{w: w, n: n, bright: brightness}
}

// Len implements Strip.
func (s *BluefruitStrip) Len() int {
	return s.n
}

// Fill implements Strip.
func (s *BluefruitStrip) Fill(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c.Scale(s.bright)
}

// Show implements Strip.
func (s *BluefruitStrip) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := s.w.Write(ColorPacket(s.color)); err != nil {
		return fmt.Errorf("strip: uart write: %w", err)
	}
	return nil
}

// Close blanks the strip and closes the serial port.
func (s *BluefruitStrip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	_, writeErr := s.w.Write(ColorPacket(Color{}))
	closeErr := s.w.Close()
	if closeErr != nil {
		return fmt.Errorf("strip: close uart: %w", closeErr)
	}
	return writeErr
}

// ColorPacket encodes c as a Bluefruit LE controller packet:
// '!' 'C' R G B followed by a checksum byte.
func ColorPacket(c Color) []byte {
	packet := make([]byte, 0, len(colorPacketPrefix)+4)
	packet = append(packet, colorPacketPrefix...)
	packet = append(packet, c.R, c.G, c.B)
	return append(packet, checksum(packet))
}

// checksum is the inverted 8-bit sum of data.
func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum
}
