// Package todoenv reads the hosted data service settings from the environment.
package todoenv

import (
	"os"
	"strings"
)

const (
	// URLEnvVar overrides the remote project URL.
	URLEnvVar = "SUPABASE_URL"

	// KeyEnvVar overrides the remote API key.
	KeyEnvVar = "SUPABASE_ANON_KEY"
)

// RemoteURL returns the remote URL from the environment, if set.
func RemoteURL() (string, bool) {
	return lookup(URLEnvVar)
}

// RemoteKey returns the remote API key from the environment, if set.
func RemoteKey() (string, bool) {
	return lookup(KeyEnvVar)
}

func lookup(name string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", false
	}
	return value, true
}
