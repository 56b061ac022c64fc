// Package config handles configuration loading, parsing, and validation
// from a .env file, an optional config file and SCRY_-prefixed environment
// variables. Environment variables take precedence over file values.
package config
