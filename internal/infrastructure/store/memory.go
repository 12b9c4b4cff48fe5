package store

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tastematch/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory profile store
type MemoryStore struct {
	data   map[string][]byte
	mutex  sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory profile store
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := applyOptions(opts)
	return &MemoryStore{
		data:   make(map[string][]byte),
		logger: o.logger,
	}
}

// Get retrieves the profile stored for a user
func (s *MemoryStore) Get(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	s.mutex.RLock()
	data, exists := s.data[userID]
	s.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrProfileNotFound
	}

	return decodeProfile(data)
}

// Save stores a profile, replacing any existing one for the same user
func (s *MemoryStore) Save(ctx context.Context, profile *domain.StoredProfile) error {
	if err := validateForSave(profile); err != nil {
		return err
	}

	// Store the encoded form so callers never share maps with the store,
	// and values come back with the same types as from the other backends
	data, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[profile.UserID] = data

	return nil
}

// Delete removes a user's profile. Deleting a missing profile is not an error.
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, userID)
	return nil
}

// List returns up to limit profiles ordered by user id
func (s *MemoryStore) List(ctx context.Context, limit int) ([]domain.StoredProfile, error) {
	s.mutex.RLock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	raw := make([][]byte, len(ids))
	for i, id := range ids {
		raw[i] = s.data[id]
	}
	s.mutex.RUnlock()

	profiles := make([]domain.StoredProfile, 0, len(raw))
	for i, data := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := decodeProfile(data)
		if err != nil {
			skipUnreadable(s.logger, ids[i], err)
			continue
		}
		profiles = append(profiles, *p)
	}

	return profiles, nil
}

// Size returns the current number of stored profiles
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Clear removes all profiles
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string][]byte)
}
