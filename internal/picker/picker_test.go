package picker

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/config"
	"github.com/jstralko/home-automation-toolkit/internal/strip"
)

// fakeStrip records fills and flushes.
type fakeStrip struct {
	pixels  []strip.Color
	shows   int
	showErr error
}

func newFakeStrip(n int) *fakeStrip {
	return &fakeStrip{pixels: make([]strip.Color, n)}
}

func (s *fakeStrip) Len() int { return len(s.pixels) }

func (s *fakeStrip) Fill(c strip.Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

func (s *fakeStrip) Show() error {
	s.shows++
	return s.showErr
}

func (s *fakeStrip) Close() error { return nil }

func (s *fakeStrip) uniform(t *testing.T, want strip.Color) {
	t.Helper()
	for i, c := range s.pixels {
		if c != want {
			t.Fatalf("pixel %d = %v, want %v", i, c, want)
		}
	}
}

type fakeRecorder struct {
	values []string
}

func (r *fakeRecorder) WriteFeedValue(feed, value string) {
	r.values = append(r.values, feed+"="+value)
}

var red = strip.Color{R: 0xFF}

func newPicker(t *testing.T, opts Options) *Picker {
	t.Helper()
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing feed", opts: Options{Out: &bytes.Buffer{}}},
		{name: "missing output", opts: Options{Feed: "pi"}},
		{name: "unknown mode", opts: Options{Feed: "pi", Out: &bytes.Buffer{}, Mode: "rainbow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Console output
// -----------------------------------------------------------------------------

func TestOnMessage_PrintsValue(t *testing.T) {
	var out bytes.Buffer
	p := newPicker(t, Options{Feed: "pi", Out: &out})

	if err := p.OnMessage(nil, "pi", "42"); err != nil {
		t.Fatalf("OnMessage() error = %v", err)
	}

	if got, want := out.String(), "Feed pi received new value: 42\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestOnDisconnect_Prints(t *testing.T) {
	var out bytes.Buffer
	p := newPicker(t, Options{Feed: "pi", Out: &out})

	p.OnDisconnect(nil, errors.New("EOF"))

	if got, want := out.String(), "Disconnected from Adafruit IO!\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// -----------------------------------------------------------------------------
// Strip
// -----------------------------------------------------------------------------

func TestOnMessage_FixedModeIgnoresPayload(t *testing.T) {
	payloads := []string{"42", "#00FF00", "blue", "", "not a colour"}

	s := newFakeStrip(160)
	p := newPicker(t, Options{Feed: "pi", Mode: config.ColorModeFixed, Color: red, Out: &bytes.Buffer{}, Strip: s})

	for i, payload := range payloads {
		if err := p.OnMessage(nil, "pi", payload); err != nil {
			t.Fatalf("OnMessage(%q) error = %v", payload, err)
		}
		s.uniform(t, red)
		if s.shows != i+1 {
			t.Errorf("after %d messages Show() calls = %d, want %d", i+1, s.shows, i+1)
		}
	}
}

func TestOnMessage_DefaultModeIsFixed(t *testing.T) {
	s := newFakeStrip(4)
	p := newPicker(t, Options{Feed: "pi", Color: red, Out: &bytes.Buffer{}, Strip: s})

	if err := p.OnMessage(nil, "pi", "blue"); err != nil {
		t.Fatalf("OnMessage() error = %v", err)
	}
	s.uniform(t, red)
}

func TestOnMessage_PayloadMode(t *testing.T) {
	tests := []struct {
		payload string
		want    strip.Color
	}{
		{payload: "#00FF00", want: strip.Color{G: 0xFF}},
		{payload: "blue", want: strip.Color{B: 0xFF}},
		{payload: "#800000FF", want: strip.Color{B: 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			s := newFakeStrip(160)
			p := newPicker(t, Options{Feed: "pi", Mode: config.ColorModePayload, Out: &bytes.Buffer{}, Strip: s})

			if err := p.OnMessage(nil, "pi", tt.payload); err != nil {
				t.Fatalf("OnMessage() error = %v", err)
			}
			s.uniform(t, tt.want)
			if s.shows != 1 {
				t.Errorf("Show() calls = %d, want 1", s.shows)
			}
		})
	}
}

func TestOnMessage_PayloadModeInvalidLeavesStrip(t *testing.T) {
	var out bytes.Buffer
	s := newFakeStrip(8)
	p := newPicker(t, Options{Feed: "pi", Mode: config.ColorModePayload, Out: &out, Strip: s})

	if err := p.OnMessage(nil, "pi", "#00FF00"); err != nil {
		t.Fatalf("OnMessage() error = %v", err)
	}

	err := p.OnMessage(nil, "pi", "42")
	if !errors.Is(err, strip.ErrInvalidColor) {
		t.Errorf("OnMessage() error = %v, want ErrInvalidColor", err)
	}
	s.uniform(t, strip.Color{G: 0xFF})
	if s.shows != 1 {
		t.Errorf("Show() calls = %d, want 1", s.shows)
	}
	if got, want := out.String(), "Feed pi received new value: #00FF00\nFeed pi received new value: 42\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestOnMessage_ShowError(t *testing.T) {
	s := newFakeStrip(4)
	s.showErr = strip.ErrClosed
	p := newPicker(t, Options{Feed: "pi", Color: red, Out: &bytes.Buffer{}, Strip: s})

	if err := p.OnMessage(nil, "pi", "1"); !errors.Is(err, strip.ErrClosed) {
		t.Errorf("OnMessage() error = %v, want ErrClosed", err)
	}
}

func TestOnMessage_Records(t *testing.T) {
	rec := &fakeRecorder{}
	p := newPicker(t, Options{Feed: "pi", Out: &bytes.Buffer{}, Recorder: rec})

	_ = p.OnMessage(nil, "pi", "1")
	_ = p.OnMessage(nil, "pi", "2")

	if len(rec.values) != 2 || rec.values[0] != "pi=1" || rec.values[1] != "pi=2" {
		t.Errorf("recorded = %v, want [pi=1 pi=2]", rec.values)
	}
}
