// Package logging provides structured logging for lightpicker.
//
// It wraps the standard log/slog package so every component logs with the
// same format, level filter and default fields.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stderr, stdout
//
// Structured logs default to stderr. Stdout carries the plain feed lines
// ("Feed pi received new value: 42") that the listener prints.
//
// # Security
//
// Never log the Adafruit IO key.
package logging
