package config

import (
	"os"
	"strings"
)

// GetEnv retrieves an environment variable or returns a default value if not found
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvAsSlice retrieves an environment variable as a slice or returns a default value if not found
func GetEnvAsSlice(key, sep string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return strings.Split(value, sep)
}

// legacyAPIKeys picks up the extraction keys from the variable names the
// mobile backend has always used.
func legacyAPIKeys() []string {
	var keys []string
	for _, name := range []string{"GEMINI_API_KEY", "GEMINI_API_KEY2"} {
		if k := GetEnv(name, ""); k != "" {
			keys = append(keys, k)
		}
	}
	return append(keys, GetEnvAsSlice("GEMINI_API_KEYS", ",", nil)...)
}
