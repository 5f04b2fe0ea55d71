package strip

import "errors"

var (
	// ErrInvalidColor is returned when a colour string cannot be parsed.
	ErrInvalidColor = errors.New("strip: invalid colour")

	// ErrUnknownDriver is returned for an unrecognised strip.driver.
	ErrUnknownDriver = errors.New("strip: unknown driver")

	// ErrOpenFailed is returned when the strip hardware cannot be opened.
	ErrOpenFailed = errors.New("strip: open failed")

	// ErrClosed is returned by Show after Close.
	ErrClosed = errors.New("strip: closed")
)
