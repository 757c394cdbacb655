package ports

import (
	"context"
	"time"

	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
)

type ProfileRepository interface {
	// UpsertProfile stores profile, merging with any existing registration,
	// and returns the stored record.
	UpsertProfile(ctx context.Context, profile entities.Profile) (entities.Profile, error)
	GetProfile(ctx context.Context, identity string) (entities.Profile, error)
}

type Clock interface {
	Now() time.Time
}
