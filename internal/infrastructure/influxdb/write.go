package influxdb

import (
	"strconv"
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// measurementFeedValues holds one point per received feed value.
const measurementFeedValues = "feed_values"

// WriteFeedValue records a feed value received at the current time.
//
// The raw payload is stored in the "value" field. Payloads that parse as a
// number are also stored in "numeric" so they can be graphed.
//
// Example:
//
//	client.WriteFeedValue("pi", "42")      // value="42", numeric=42
//	client.WriteFeedValue("pi", "#FF0000") // value="#FF0000"
func (c *Client) WriteFeedValue(feed, value string) {
	c.WriteFeedValueAt(feed, value, time.Now())
}

// WriteFeedValueAt is WriteFeedValue with an explicit timestamp.
func (c *Client) WriteFeedValueAt(feed, value string, ts time.Time) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(feedValuePoint(feed, value, ts))
}

func feedValuePoint(feed, value string, ts time.Time) *write.Point {
	return write.NewPoint(
		measurementFeedValues,
		map[string]string{"feed": feed},
		feedValueFields(value),
		ts,
	)
}

// feedValueFields builds the field set for a raw payload.
func feedValueFields(value string) map[string]interface{} {
	fields := map[string]interface{}{
		"value": value,
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		fields["numeric"] = f
	}
	return fields
}
