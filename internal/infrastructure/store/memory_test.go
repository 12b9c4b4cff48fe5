package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tastematch/backend/internal/domain"
)

func writeRawMemory(t *testing.T, repo domain.ProfileRepository, userID string, data []byte) {
	s := repo.(*MemoryStore)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[userID] = data
}

func TestMemoryStore_Contract(t *testing.T) {
	testRepositoryContract(t, func(t *testing.T) domain.ProfileRepository {
		return NewMemoryStore()
	}, writeRawMemory)
}

func TestMemoryStore_ListLogsUnreadableProfiles(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewMemoryStore(WithLogger(zap.New(core)))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleStoredProfile("alice")))
	writeRawMemory(t, s, "carol", []byte(`{"profile":["not","a","map"]}`))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].UserID)

	entries := logs.FilterMessage("skipping unreadable stored profile").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "carol", entries[0].ContextMap()["user_id"])
}

func TestMemoryStore_IsolatesCallerMaps(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p := sampleStoredProfile("user-1")
	require.NoError(t, s.Save(ctx, p))

	// Mutating the caller's map after Save must not leak into the store
	p.Profile["favorite_artists"] = []any{"Leaked"}

	got, err := s.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got.Profile["favorite_artists"])
}

func TestMemoryStore_SizeAndClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleStoredProfile("a")))
	require.NoError(t, s.Save(ctx, sampleStoredProfile("b")))
	assert.Equal(t, 2, s.Size())

	s.Clear()
	assert.Equal(t, 0, s.Size())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = s.Save(ctx, sampleStoredProfile(id))
			_, _ = s.Get(ctx, id)
			_, _ = s.List(ctx, 5)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 26, s.Size())
}

func TestMemoryStore_ListHonorsCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Save(context.Background(), sampleStoredProfile("a")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
