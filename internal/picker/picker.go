package picker

import (
	"fmt"
	"io"
	"strings"

	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/config"
	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/logging"
	"github.com/jstralko/home-automation-toolkit/internal/listener"
	"github.com/jstralko/home-automation-toolkit/internal/strip"
)

// Recorder stores received feed values. *influxdb.Client satisfies it.
type Recorder interface {
	WriteFeedValue(feed, value string)
}

// Options holds configuration for creating a Picker.
type Options struct {
	// Feed is the feed key subscribed on connect.
	Feed string

	// FetchLatest requests the feed's current value after subscribing.
	FetchLatest bool

	// Mode is config.ColorModeFixed (the default) or config.ColorModePayload.
	Mode string

	// Color is painted on every message in fixed mode.
	Color strip.Color

	// Out receives the status lines.
	Out io.Writer

	// Strip is optional. If nil, Picker only prints.
	Strip strip.Strip

	// Recorder is optional. If nil, values are not recorded.
	Recorder Recorder

	// Logger is optional. If nil, log output is discarded.
	Logger *logging.Logger
}

// Picker is the listener.Handler for the light picker.
type Picker struct {
	feed        string
	fetchLatest bool
	mode        string
	color       strip.Color

	out      io.Writer
	strip    strip.Strip
	recorder Recorder
	log      *logging.Logger
}

var _ listener.Handler = (*Picker)(nil)

// New creates a Picker.
func New(opts Options) (*Picker, error) {
	if opts.Feed == "" {
		return nil, fmt.Errorf("feed is required")
	}
	if opts.Out == nil {
		return nil, fmt.Errorf("output writer is required")
	}

	mode := opts.Mode
	switch mode {
	case "":
		mode = config.ColorModeFixed
	case config.ColorModeFixed, config.ColorModePayload:
	default:
		return nil, fmt.Errorf("unknown colour mode %q", mode)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Picker{
		feed:        opts.Feed,
		fetchLatest: opts.FetchLatest,
		mode:        mode,
		color:       opts.Color,
		out:         opts.Out,
		strip:       opts.Strip,
		recorder:    opts.Recorder,
		log:         log.With("component", "picker", "feed", opts.Feed),
	}, nil
}

// OnConnect announces the connection and subscribes to the feed.
func (p *Picker) OnConnect(s *listener.Session) error {
	fmt.Fprintf(p.out, "Connected to Adafruit IO!  Listening for %s changes...\n", strings.ToUpper(p.feed))

	if err := s.Subscribe(p.feed); err != nil {
		return err
	}

	if p.fetchLatest {
		if err := s.FetchLatest(p.feed); err != nil {
			p.log.Warn("requesting latest value", "error", err)
		}
	}
	return nil
}

// OnDisconnect announces the lost connection.
func (p *Picker) OnDisconnect(_ *listener.Session, err error) {
	fmt.Fprintln(p.out, "Disconnected from Adafruit IO!")
	if err != nil {
		p.log.Debug("disconnect cause", "error", err)
	}
}

// OnMessage prints the value and, with a strip attached, paints it.
func (p *Picker) OnMessage(_ *listener.Session, feedID, payload string) error {
	fmt.Fprintf(p.out, "Feed %s received new value: %s\n", feedID, payload)

	if p.recorder != nil {
		p.recorder.WriteFeedValue(feedID, payload)
	}

	if p.strip == nil {
		return nil
	}

	c, err := p.colorFor(payload)
	if err != nil {
		return err
	}

	p.strip.Fill(c)
	if err := p.strip.Show(); err != nil {
		return fmt.Errorf("showing %s: %w", c, err)
	}
	p.log.Debug("strip updated", "color", c.String())
	return nil
}

// colorFor returns the colour to paint for payload.
func (p *Picker) colorFor(payload string) (strip.Color, error) {
	if p.mode != config.ColorModePayload {
		return p.color, nil
	}
	return strip.ParseColor(payload)
}
