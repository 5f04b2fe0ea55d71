package mqtt

import (
	"fmt"
	"strings"
)

// Adafruit IO topic segments.
const (
	// segmentFeeds is the long feed segment: {username}/feeds/{key}.
	segmentFeeds = "feeds"

	// segmentFeedsShort is the short form the broker also accepts: {username}/f/{key}.
	segmentFeedsShort = "f"

	// suffixGet asks the broker to resend a feed's current value.
	suffixGet = "get"
)

// Topics builds Adafruit IO topics for one account.
//
//	topics := mqtt.Topics{Username: "jane"}
//	topics.Feed("pi")     // "jane/feeds/pi"
//	topics.FeedGet("pi")  // "jane/feeds/pi/get"
type Topics struct {
	Username string
}

// Feed returns the topic carrying values of feed key.
//
// Example: jane/feeds/pi
func (t Topics) Feed(key string) string {
	return fmt.Sprintf("%s/%s/%s", t.Username, segmentFeeds, key)
}

// FeedGet returns the topic that triggers a resend of feed key's last value.
//
// Example: jane/feeds/pi/get
func (t Topics) FeedGet(key string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Username, segmentFeeds, key, suffixGet)
}

// FeedKey extracts the feed key from a feed topic.
// Both the "feeds" and short "f" forms are accepted; anything else
// reports ok=false.
func FeedKey(topic string) (key string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", false
	}
	if parts[1] != segmentFeeds && parts[1] != segmentFeedsShort {
		return "", false
	}
	return parts[2], true
}
