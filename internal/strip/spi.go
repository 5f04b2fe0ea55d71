package strip

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// pixelWriter is the part of nrzled.Dev the SPI strip drives.
type pixelWriter interface {
	Write(pixels []byte) (int, error)
	Halt() error
}

// SPIStrip drives a WS2812/NeoPixel strip over SPI through periph.io.
type SPIStrip struct {
	mu     sync.Mutex
	dev    pixelWriter
	port   io.Closer
	frame  *frame
	closed bool
}

// OpenSPI initialises the host drivers and opens an n-pixel strip on the
// named SPI port ("" selects the first available port).
func OpenSPI(portName string, n int, brightness uint8) (*SPIStrip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: host init: %w", ErrOpenFailed, err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("%w: spi port %q: %w", ErrOpenFailed, portName, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = n
	opts.Channels = 3

	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: nrzled: %w", ErrOpenFailed, err)
	}

	return newSPIStrip(dev, port, n, brightness), nil
}

func newSPIStrip(dev pixelWriter, port io.Closer, n int, brightness uint8) *SPIStrip {
	return &SPIStrip{
		dev:   dev,
		port:  port,
		frame: newFrame(n, brightness),
	}
}

// Len implements Strip.
func (s *SPIStrip) Len() int {
	return s.frame.len()
}

// Fill implements Strip.
func (s *SPIStrip) Fill(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.fill(c)
}

// Show implements Strip by writing the whole frame in one transfer.
func (s *SPIStrip) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := s.dev.Write(s.frame.pixels); err != nil {
		return fmt.Errorf("strip: spi write: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the SPI port.
func (s *SPIStrip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	haltErr := s.dev.Halt()
	var portErr error
	if s.port != nil {
		portErr = s.port.Close()
	}
	if haltErr != nil {
		return fmt.Errorf("strip: halt: %w", haltErr)
	}
	return portErr
}
