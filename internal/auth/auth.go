// Package auth gates gateway endpoints behind static API keys. When no keys
// are configured the gateway runs open, which is the expected mode for local
// use.
package auth

import (
	"crypto/subtle"

	"github.com/scrollkeeper/mirrorgate/internal/config"
)

// HeaderName is the request header carrying the gateway key.
const HeaderName = "x-scrollmirror-key"

// Auth holds the configured gateway keys.
type Auth struct {
	keys []string
}

// NewFromConfig builds an Auth instance from the loaded config.
func NewFromConfig(cfg *config.Config) *Auth {
	keys := make([]string, 0, len(cfg.Server.APIKeys))
	for _, k := range cfg.Server.APIKeys {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return &Auth{keys: keys}
}

// Enabled reports whether any keys are configured.
func (a *Auth) Enabled() bool {
	return a != nil && len(a.keys) > 0
}

// Allow checks a presented key in constant time.
func (a *Auth) Allow(key string) bool {
	if !a.Enabled() {
		return true
	}
	if key == "" {
		return false
	}
	for _, k := range a.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}
