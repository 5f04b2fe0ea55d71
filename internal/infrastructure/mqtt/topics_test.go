package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{Username: "gerbstralko"}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "Feed", got: topics.Feed("pi"), expected: "gerbstralko/feeds/pi"},
		{name: "FeedGet", got: topics.FeedGet("pi"), expected: "gerbstralko/feeds/pi/get"},
		{name: "Feed in group", got: topics.Feed("lights.pi"), expected: "gerbstralko/feeds/lights.pi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestFeedKey(t *testing.T) {
	tests := []struct {
		topic  string
		want   string
		wantOK bool
	}{
		{topic: "gerbstralko/feeds/pi", want: "pi", wantOK: true},
		{topic: "gerbstralko/f/pi", want: "pi", wantOK: true},
		{topic: "gerbstralko/feeds/lights.pi", want: "lights.pi", wantOK: true},
		{topic: "gerbstralko/feeds/pi/get", wantOK: false},
		{topic: "gerbstralko/errors", wantOK: false},
		{topic: "gerbstralko/groups/pi", wantOK: false},
		{topic: "/feeds/pi", wantOK: false},
		{topic: "gerbstralko/feeds/", wantOK: false},
		{topic: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got, ok := FeedKey(tt.topic)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FeedKey(%q) = (%q, %v), want (%q, %v)", tt.topic, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
