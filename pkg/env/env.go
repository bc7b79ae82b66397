// Package env reads process environment variables for the few settings that
// must resolve before the config layer is up, such as the bootstrap logger's
// output format.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or empty.
// An empty value counts as unset so `LOG_FORMAT=` behaves like no override.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
