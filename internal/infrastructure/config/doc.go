// Package config handles loading and validating lightpicker configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Loading a .env file with local credentials
//   - Overriding with LIGHTPICKER_* environment variables
//   - Validation of required fields
//
// Security Considerations:
//   - The Adafruit IO key should be set via LIGHTPICKER_AIO_KEY or .env,
//     never committed in a config file
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/lightpicker.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Feed.Name)
package config
