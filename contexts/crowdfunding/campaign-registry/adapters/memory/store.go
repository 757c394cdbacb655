package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/campaign-registry/domain/errors"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// Store keeps one canonical campaign table and two ordered key indices over
// its live rows. Every mutation updates the table and both indices under the
// same write lock.
type Store struct {
	mu deadlock.RWMutex

	campaigns   map[entities.Key]entities.Campaign
	ownerIndex  map[string][]uint64
	globalIndex []entities.Key
	counters    map[string]uint64
	sequence    uint64
}

// NewStore builds a store from seed rows. Indices and per-owner counters are
// derived from the rows themselves; seeds without a sequence keep their
// slice order.
func NewStore(seed []entities.Campaign) *Store {
	s := &Store{
		campaigns:  make(map[entities.Key]entities.Campaign, len(seed)),
		ownerIndex: make(map[string][]uint64),
		counters:   make(map[string]uint64),
	}
	for _, item := range seed {
		if item.Sequence == 0 {
			s.sequence++
			item.Sequence = s.sequence
		} else if item.Sequence > s.sequence {
			s.sequence = item.Sequence
		}
		s.campaigns[item.Key()] = item
		if item.LocalID > s.counters[item.Owner] {
			s.counters[item.Owner] = item.LocalID
		}
	}
	s.ownerIndex, s.globalIndex = deriveIndexes(s.campaigns)
	return s
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := strings.TrimSpace(campaign.Owner)
	if owner == "" {
		return entities.Campaign{}, domainerrors.ErrInvalidArgument
	}
	s.counters[owner]++
	s.sequence++

	campaign.Owner = owner
	campaign.LocalID = s.counters[owner]
	campaign.Sequence = s.sequence
	campaign.Active = true

	key := campaign.Key()
	s.campaigns[key] = campaign
	s.ownerIndex[owner] = append(s.ownerIndex[owner], campaign.LocalID)
	s.globalIndex = append(s.globalIndex, key)
	return campaign, nil
}

func (s *Store) GetCampaign(_ context.Context, key entities.Key) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[normalizeKey(key)]
	if !exists || !item.Active {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) UpdateCampaign(_ context.Context, key entities.Key, patch entities.Patch, updatedAt time.Time) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key = normalizeKey(key)
	existing, exists := s.campaigns[key]
	if !exists || !existing.Active {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	updated := existing.Apply(patch, updatedAt)
	s.campaigns[key] = updated
	return updated, nil
}

func (s *Store) DeleteCampaign(_ context.Context, key entities.Key, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key = normalizeKey(key)
	existing, exists := s.campaigns[key]
	if !exists || !existing.Active {
		return domainerrors.ErrCampaignNotFound
	}
	existing.Active = false
	existing.UpdatedAt = deletedAt
	s.campaigns[key] = existing

	ids := s.ownerIndex[key.Owner]
	for i, id := range ids {
		if id == key.LocalID {
			s.ownerIndex[key.Owner] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(s.ownerIndex[key.Owner]) == 0 {
		delete(s.ownerIndex, key.Owner)
	}
	for i, item := range s.globalIndex {
		if item == key {
			s.globalIndex = append(s.globalIndex[:i:i], s.globalIndex[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ListByOwner(_ context.Context, owner string, page entities.Page) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner = strings.TrimSpace(owner)
	ids := s.ownerIndex[owner]
	start, end, ok := page.Bounds(len(ids))
	if !ok {
		return []entities.Campaign{}, nil
	}
	items := make([]entities.Campaign, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, s.campaigns[entities.Key{Owner: owner, LocalID: id}])
	}
	return items, nil
}

func (s *Store) CountByOwner(_ context.Context, owner string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ownerIndex[strings.TrimSpace(owner)]), nil
}

func (s *Store) ListAll(_ context.Context, page entities.Page) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end, ok := page.Bounds(len(s.globalIndex))
	if !ok {
		return []entities.Campaign{}, nil
	}
	items := make([]entities.Campaign, 0, end-start)
	for _, key := range s.globalIndex[start:end] {
		items = append(items, s.campaigns[key])
	}
	return items, nil
}

func (s *Store) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.globalIndex), nil
}

// Indexes returns copies of the owner and global indices.
func (s *Store) Indexes() (map[string][]uint64, []entities.Key) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make(map[string][]uint64, len(s.ownerIndex))
	for owner, ids := range s.ownerIndex {
		owners[owner] = append([]uint64(nil), ids...)
	}
	global := make([]entities.Key, len(s.globalIndex))
	copy(global, s.globalIndex)
	return owners, global
}

// DerivedIndexes recomputes both indices from the canonical table alone.
func (s *Store) DerivedIndexes() (map[string][]uint64, []entities.Key) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return deriveIndexes(s.campaigns)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func deriveIndexes(campaigns map[entities.Key]entities.Campaign) (map[string][]uint64, []entities.Key) {
	live := make([]entities.Campaign, 0, len(campaigns))
	for _, item := range campaigns {
		if item.Active {
			live = append(live, item)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].Sequence < live[j].Sequence
	})

	owners := make(map[string][]uint64)
	global := make([]entities.Key, 0, len(live))
	for _, item := range live {
		owners[item.Owner] = append(owners[item.Owner], item.LocalID)
		global = append(global, item.Key())
	}
	return owners, global
}

func normalizeKey(key entities.Key) entities.Key {
	key.Owner = strings.TrimSpace(key.Owner)
	return key
}
