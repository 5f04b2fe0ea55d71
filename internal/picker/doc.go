// Package picker reacts to values on an Adafruit IO feed.
//
// Picker implements listener.Handler. For every message it prints a status
// line, and when a strip is attached it paints every pixel one colour and
// flushes once. In fixed mode that colour never changes. In payload mode it
// is parsed from the message.
package picker
