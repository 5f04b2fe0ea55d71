// Package influxdb records Adafruit IO feed values in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Each received value
// becomes one point in the "feed_values" measurement, tagged with the feed
// key.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // recording is optional
//	} else if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteFeedValue("pi", "42")
//
// # Error Handling
//
// Writes are non-blocking and batched according to batch_size and
// flush_interval. Write failures are delivered to the SetOnError callback.
// Connection errors are returned directly.
package influxdb
