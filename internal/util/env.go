package util

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ParseBoolEnv parses a boolean environment variable with a default value.
// Accepts: true/1/yes/on and false/0/no/off (case-insensitive). Invalid values return default.
func ParseBoolEnv(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		slog.Warn("ParseBoolEnv: invalid boolean value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}
}

// ParseMillisEnv parses a duration environment variable. Bare integers are
// milliseconds; values with a unit ("1.5s", "80ms") go through time.ParseDuration.
// Empty, invalid or negative values return the default.
func ParseMillisEnv(key string, defaultValue time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultValue
	}

	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		if ms < 0 {
			slog.Warn("ParseMillisEnv: negative value, using default", "key", key, "value", val, "default", defaultValue)
			return defaultValue
		}
		return time.Duration(ms) * time.Millisecond
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		slog.Warn("ParseMillisEnv: invalid duration, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}
	return d
}

// ParseListEnv splits a separator-delimited environment variable, dropping blank items.
func ParseListEnv(key, sep string, defaultValue []string) []string {
	val := os.Getenv(key)
	if strings.TrimSpace(val) == "" {
		return defaultValue
	}
	return SplitList(val, sep)
}

// SplitList splits s on sep, trims every item and drops blank ones.
func SplitList(s, sep string) []string {
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
