package memory

import (
	"context"
	"strings"
	"time"

	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/identity-directory/domain/errors"

	"github.com/sasha-s/go-deadlock"
)

type Store struct {
	mu       deadlock.RWMutex
	profiles map[string]entities.Profile
}

func NewStore(seed []entities.Profile) *Store {
	profiles := make(map[string]entities.Profile, len(seed))
	for _, item := range seed {
		profiles[item.Identity] = item
	}
	return &Store{profiles: profiles}
}

func (s *Store) UpsertProfile(_ context.Context, profile entities.Profile) (entities.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.profiles[profile.Identity].Merge(profile)
	s.profiles[profile.Identity] = stored
	return stored, nil
}

func (s *Store) GetProfile(_ context.Context, identity string) (entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.profiles[strings.TrimSpace(identity)]
	if !exists {
		return entities.Profile{}, domainerrors.ErrIdentityNotFound
	}
	return item, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
