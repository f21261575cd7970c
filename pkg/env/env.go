// Package env reads raw environment variables for the few knobs that must be
// resolved before envconfig parses the AXOLOTL_* configuration.
package env

import "os"

// Get returns the value of the environment variable, or fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
