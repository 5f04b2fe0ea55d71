package strip

import (
	"fmt"

	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/config"
)

// Strip is a linear run of addressable pixels.
//
// Fill only changes the pending frame; nothing reaches the hardware until
// Show is called.
type Strip interface {
	// Len returns the number of pixels.
	Len() int

	// Fill sets every pixel to c.
	Fill(c Color)

	// Show flushes the pending frame to the hardware.
	Show() error

	// Close blanks the strip where supported and releases the device.
	Close() error
}

// Open returns the strip described by cfg.
// It returns (nil, nil) for the "none" driver.
func Open(cfg config.StripConfig) (Strip, error) {
	switch cfg.Driver {
	case config.StripDriverNone, "":
		return nil, nil
	case config.StripDriverSPI:
		s, err := OpenSPI(cfg.SPIPort, cfg.Pixels, uint8(cfg.Brightness))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StripDriverBluefruit:
		s, err := OpenBluefruit(cfg.SerialPort, cfg.BaudRate, cfg.Pixels, uint8(cfg.Brightness))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
