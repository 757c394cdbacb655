package entities

import (
	"strings"
	"time"
)

// Key identifies a campaign: local ids are only unique within one owner.
type Key struct {
	Owner   string
	LocalID uint64
}

type Campaign struct {
	Owner       string
	LocalID     uint64
	Name        string
	Description string
	TargetFund  uint64
	CurrentFund uint64
	// Deadline is a unix timestamp in seconds.
	Deadline int64
	Active   bool
	// Sequence is the global creation order. Both the owner and the global
	// index are ordered by it.
	Sequence  uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Campaign) Key() Key {
	return Key{Owner: c.Owner, LocalID: c.LocalID}
}

// Patch carries the raw arguments of an update call. Empty strings and a
// zero target fund mean "leave unchanged"; the deadline has no such value
// and is always written.
type Patch struct {
	Name        string
	Description string
	TargetFund  uint64
	Deadline    int64
}

func (c Campaign) Apply(patch Patch, now time.Time) Campaign {
	if patch.Name != "" {
		c.Name = patch.Name
	}
	if patch.Description != "" {
		c.Description = patch.Description
	}
	if patch.TargetFund != 0 {
		c.TargetFund = patch.TargetFund
	}
	c.Deadline = patch.Deadline
	c.UpdatedAt = now
	return c
}

// ValidateNew checks the creation preconditions that do not depend on
// registration.
func ValidateNew(owner string, targetFund uint64, deadline int64, now time.Time) bool {
	return strings.TrimSpace(owner) != "" &&
		targetFund > 0 &&
		deadline > now.Unix()
}
