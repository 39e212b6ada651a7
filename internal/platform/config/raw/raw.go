// Package raw reads the environment during bootstrap, before the logger exists.
// It must not import the logger; config builds on it for lookups
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Value returns the trimmed value of the env var key, "" when unset
func Value(key string) string { return strings.TrimSpace(os.Getenv(key)) }

// Conf is a prefixed view used by the logger to read LOG_*
type Conf struct{ prefix string }

// New returns a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child Conf, e.g. raw.New().Prefix("LOG_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Get returns the value or def when empty
func (c Conf) Get(key, def string) string {
	if v := Value(c.prefix + key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1/true/yes/on and 0/false/no/off; anything else yields def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(Value(c.prefix + key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// GetInt returns the parsed int or def when empty or malformed
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(Value(c.prefix + key))
	if err != nil {
		return def
	}
	return n
}
