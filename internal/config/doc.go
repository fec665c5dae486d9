// Package config loads damu-api settings from defaults, an optional
// config.yaml and DAMU_-prefixed environment variables, and validates them
// before any component starts.
package config
