// Package strip drives addressable LED strips.
//
// Two drivers are provided:
//   - SPIStrip: a WS2812/NeoPixel strip wired to the Raspberry Pi SPI bus,
//     encoded by periph.io's nrzled driver
//   - BluefruitStrip: a strip behind a Bluefruit LE UART controller, which
//     accepts '!C' colour packets over a serial port
//
// Both implement Strip. Fill stages a colour and Show flushes it, so callers
// control exactly when the hardware is written.
package strip
