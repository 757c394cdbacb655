package entities

import (
	"strings"
	"time"
)

// Profile is the registration record of one identity.
type Profile struct {
	Identity     string
	DisplayName  string
	Contact      string
	Registered   bool
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

func (p Profile) Validate() bool {
	return strings.TrimSpace(p.Identity) != "" &&
		strings.TrimSpace(p.DisplayName) != "" &&
		strings.TrimSpace(p.Contact) != ""
}

// Merge applies a re-registration onto an existing profile. The first
// registration time is kept.
func (p Profile) Merge(next Profile) Profile {
	if !p.Registered {
		return next
	}
	next.RegisteredAt = p.RegisteredAt
	if p.DisplayName == next.DisplayName && p.Contact == next.Contact {
		next.UpdatedAt = p.UpdatedAt
	}
	return next
}
