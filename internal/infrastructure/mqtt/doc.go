// Package mqtt provides the broker connection for lightpicker.
//
// This package manages:
//   - One connection to the Adafruit IO MQTT broker (or any MQTT 3.1.1 broker)
//   - Feed subscriptions with panic-safe handlers
//   - Publishing, used to request a feed's latest value
//   - Adafruit IO topic building and parsing
//
// # Connection Lifecycle
//
// The session is deliberately not resilient: auto-reconnect and connect
// retry are both disabled. A lost connection fires the disconnect callback
// once and the client stays down; the caller decides what that means
// (lightpicker exits with status 1).
//
//	client := mqtt.New(cfg.MQTT)
//	client.SetOnConnect(func() { ... })
//	client.SetOnDisconnect(func(err error) { ... })
//	if err := client.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// # Security Considerations
//
//   - Adafruit IO requires TLS on port 8883 (cfg.Broker.TLS=true)
//   - The Adafruit IO key is the MQTT password; never log it
package mqtt
