package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastematch/backend/internal/domain"
)

func sampleStoredProfile(userID string) *domain.StoredProfile {
	return &domain.StoredProfile{
		UserID:    userID,
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Profile: domain.Profile{
			"user_id":    userID,
			"top_genres": []any{map[string]any{"genre": "pop", "count": 2}},
			"sample": map[string]any{
				"top_artists": []any{"Artist 1", "NCT 127"},
				"top_tracks":  []any{"Song A – Artist 1"},
			},
		},
	}
}

// rawWriter stores data for userID bypassing Save, so tests can plant rows
// that do not decode
type rawWriter func(t *testing.T, repo domain.ProfileRepository, userID string, data []byte)

// testRepositoryContract exercises the behavior every ProfileRepository shares
func testRepositoryContract(t *testing.T, newRepo func(t *testing.T) domain.ProfileRepository, writeRaw rawWriter) {
	ctx := context.Background()

	t.Run("get returns not found for unknown user", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, "nobody")
		assert.True(t, errors.Is(err, domain.ErrProfileNotFound), "error = %v", err)
	})

	t.Run("save and get round trip", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, sampleStoredProfile("user-1")))

		got, err := repo.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.True(t, got.UpdatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

		sample, ok := got.Profile["sample"].(map[string]any)
		require.True(t, ok, "sample should decode as a mapping")
		assert.Equal(t, []any{"Artist 1", "NCT 127"}, sample["top_artists"])
	})

	t.Run("save overwrites by user id", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, sampleStoredProfile("user-1")))

		updated := sampleStoredProfile("user-1")
		updated.Profile = domain.Profile{"favorite_artists": []any{"Red Velvet"}}
		require.NoError(t, repo.Save(ctx, updated))

		got, err := repo.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []any{"Red Velvet"}, got.Profile["favorite_artists"])
		assert.Nil(t, got.Profile["sample"])

		all, err := repo.List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("save rejects missing user id", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Save(ctx, sampleStoredProfile(""))
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest), "error = %v", err)
		assert.True(t, errors.Is(repo.Save(ctx, nil), domain.ErrInvalidRequest))
	})

	t.Run("list is ordered by user id and honors limit", func(t *testing.T) {
		repo := newRepo(t)
		for _, id := range []string{"carol", "alice", "dave", "bob"} {
			require.NoError(t, repo.Save(ctx, sampleStoredProfile(id)))
		}

		all, err := repo.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 4)
		var ids []string
		for _, p := range all {
			ids = append(ids, p.UserID)
		}
		assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, ids)

		limited, err := repo.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, "alice", limited[0].UserID)
		assert.Equal(t, "bob", limited[1].UserID)
	})

	t.Run("list skips unreadable profiles", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, sampleStoredProfile("alice")))
		require.NoError(t, repo.Save(ctx, sampleStoredProfile("bob")))
		writeRaw(t, repo, "carol", []byte(`{"user_id":"carol","profile":["not","a","map"]}`))
		writeRaw(t, repo, "dave", []byte(`{not json`))

		all, err := repo.List(ctx, 0)
		require.NoError(t, err)

		var ids []string
		for _, p := range all {
			ids = append(ids, p.UserID)
		}
		assert.Equal(t, []string{"alice", "bob"}, ids)

		_, err = repo.Get(ctx, "carol")
		assert.Error(t, err)
	})

	t.Run("delete removes profile and is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, sampleStoredProfile("user-1")))

		require.NoError(t, repo.Delete(ctx, "user-1"))
		require.NoError(t, repo.Delete(ctx, "user-1"))

		_, err := repo.Get(ctx, "user-1")
		assert.True(t, errors.Is(err, domain.ErrProfileNotFound))

		all, err := repo.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func uniqueName(t *testing.T) string {
	return fmt.Sprintf("test-%d", time.Now().UnixNano())
}
