// Package raw reads the environment without logging; the logger bootstraps from it
package raw

import (
	"os"
	"strings"
)

// Conf is an env var prefix such as "LOG_"
type Conf string

// New returns the unprefixed view
func New() Conf { return "" }

// Prefix nests p under c
func (c Conf) Prefix(p string) Conf { return c + Conf(p) }

func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(string(c) + key)) }

// Get returns the trimmed value, def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool reads 1, true and yes as true and any other set value as false
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.lookup(key)); v {
	case "":
		return def
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
