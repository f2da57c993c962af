// Package validation holds input validation rules shared across services
// and commands.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Community names become URL path segments, so the charset is restricted.
var communityNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,29}$`)

// Names that would collide with API routes or reserved surfaces.
var reservedCommunityNames = map[string]struct{}{
	"api":           {},
	"auth":          {},
	"admin":         {},
	"communities":   {},
	"comments":      {},
	"conversations": {},
	"explore":       {},
	"feed":          {},
	"health":        {},
	"home":          {},
	"login":         {},
	"me":            {},
	"metrics":       {},
	"notifications": {},
	"posts":         {},
	"search":        {},
	"settings":      {},
	"signup":        {},
	"users":         {},
	"ws":            {},
}

// CommunityName validates a community name's format and reserved words.
func CommunityName(name string) error {
	if !communityNamePattern.MatchString(name) {
		return fmt.Errorf("name must be 3-30 lowercase letters, digits, hyphens or underscores")
	}
	if strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("name cannot end with a hyphen or underscore")
	}
	if _, reserved := reservedCommunityNames[name]; reserved {
		return fmt.Errorf("name is reserved")
	}
	return nil
}
