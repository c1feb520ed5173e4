package config

import (
	"os"
	"strings"
)

// ResolveEnvVar resolves a value that may reference an environment variable
// using the "os.environ/VAR_NAME" syntax. Returns the resolved value, or the
// original string if no reference is present. An unset variable resolves to
// the empty string.
func ResolveEnvVar(value string) string {
	if envKey, ok := strings.CutPrefix(value, "os.environ/"); ok {
		if v, found := os.LookupEnv(envKey); found {
			return v
		}
		return ""
	}
	return value
}
