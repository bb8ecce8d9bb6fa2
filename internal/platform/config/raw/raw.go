// Package raw provides a minimal env reader used during bootstrap.
// It has NO dependency on the logger package so the logger can configure itself from env
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables (e.g., "WDL_LOG_")
// Fallback prefixes are consulted in order when the primary key is unset
type Conf struct {
	prefix    string
	fallbacks []string
}

// New returns a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix returns a child Conf with an additional prefix (e.g. "LOG_")
func (c Conf) Prefix(p string) Conf {
	fb := make([]string, 0, len(c.fallbacks))
	for _, f := range c.fallbacks {
		fb = append(fb, f+p)
	}
	return Conf{prefix: c.prefix + p, fallbacks: fb}
}

// Or adds a fallback prefix, so WDL_LOG_LEVEL can fall back to LOG_LEVEL
func (c Conf) Or(prefix string) Conf {
	fb := append(append([]string(nil), c.fallbacks...), prefix)
	return Conf{prefix: c.prefix, fallbacks: fb}
}

// lookup returns the first non-empty trimmed value for key across prefix and fallbacks
func (c Conf) lookup(key string) string {
	if v := strings.TrimSpace(os.Getenv(c.prefix + key)); v != "" {
		return v
	}
	for _, f := range c.fallbacks {
		if v := strings.TrimSpace(os.Getenv(f + key)); v != "" {
			return v
		}
	}
	return ""
}

// Get returns the trimmed env var or the provided default if empty
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool parses a bool-like env ("1|true|yes|on") with default fallback
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.lookup(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetInt parses a non-negative integer with default fallback; anything else -> def
func (c Conf) GetInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
