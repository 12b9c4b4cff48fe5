package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastematch/backend/internal/domain"
)

func TestBuildTasteProfile_TrackList(t *testing.T) {
	items := []any{
		map[string]any{"name": "Song A", "artist": "Artist 1", "genres": []any{"pop"}, "popularity": 80},
		map[string]any{"name": "Song B", "artist": "Artist 2", "genres": []any{"r&b", "pop"}},
		map[string]any{"name": "  Song C  "},
		"not a track",
		map[string]any{"artist": "Artist 3", "genres": "pop"},
	}

	profile, err := BuildTasteProfile(items)
	require.NoError(t, err)

	assert.Equal(t, unknownUserID, profile["user_id"])

	sample := profile["sample"].(map[string]any)
	assert.Equal(t, []string{"Artist 1", "Artist 2", "Artist 3"}, sample["top_artists"])
	assert.Equal(t, []string{"Song A – Artist 1", "Song B – Artist 2", "Song C"}, sample["top_tracks"])

	stats := profile["stats"].(map[string]any)
	assert.Equal(t, 3, stats["artist_count"])
	assert.Equal(t, 3, stats["track_count"])
	assert.Equal(t, 2, stats["genre_variety"])

	topGenres := profile["top_genres"].([]any)
	require.Len(t, topGenres, 2)
	assert.Equal(t, map[string]any{"genre": "pop", "count": 2}, topGenres[0])
	assert.Equal(t, map[string]any{"genre": "r&b", "count": 1}, topGenres[1])

	summary := profile["summary"].(map[string]any)
	assert.Equal(t, "Artist 1", summary["favorite_artist"])
	assert.Equal(t, "pop", summary["favorite_genre"])
	assert.Equal(t,
		"You really love Artist 1. Your main genre is pop. You've got 3 favorite artists and 3 top tracks. You listen across 2 different genres.",
		summary["description"],
	)
}

func TestBuildTasteProfile_Mapping(t *testing.T) {
	items := map[string]any{
		"user_id":     "spotify:user:briana",
		"top_artists": []any{"NCT 127", "Taeyeon", "Red Velvet", "NewJeans", "aespa", "IU"},
		"top_genres":  []any{"k-pop", "k-pop", "k-pop", "r&b", "pop"},
		"top_tracks": []any{
			"Favorite – NCT 127",
			"Sticker – NCT 127",
			"Kick It – NCT 127",
			"Track A – Taeyeon",
			"Track B – Red Velvet",
			"Track C – IU",
		},
	}

	profile, err := BuildTasteProfile(items)
	require.NoError(t, err)

	assert.Equal(t, "spotify:user:briana", profile["user_id"])

	sample := profile["sample"].(map[string]any)
	assert.Len(t, sample["top_artists"], sampleSize)
	assert.Len(t, sample["top_tracks"], sampleSize)

	topGenres := profile["top_genres"].([]any)
	assert.Equal(t, []any{
		map[string]any{"genre": "k-pop", "count": 3},
		map[string]any{"genre": "r&b", "count": 1},
		map[string]any{"genre": "pop", "count": 1},
	}, topGenres)

	stats := profile["stats"].(map[string]any)
	assert.Equal(t, 6, stats["artist_count"])
	assert.Equal(t, 6, stats["track_count"])
	assert.Equal(t, 3, stats["genre_variety"])
}

func TestBuildTasteProfile_MappingShapes(t *testing.T) {
	t.Run("single string and records are accepted", func(t *testing.T) {
		profile, err := BuildTasteProfile(map[string]any{
			"top_artists": "Solo Artist",
			"top_genres":  []any{map[string]any{"genre": "jazz", "count": 4}, 12},
			"top_tracks":  []any{map[string]any{"name": "Track 1"}},
		})
		require.NoError(t, err)

		sample := profile["sample"].(map[string]any)
		assert.Equal(t, []string{"Solo Artist"}, sample["top_artists"])
		assert.Equal(t, []string{"Track 1"}, sample["top_tracks"])
		assert.Equal(t, []any{map[string]any{"genre": "jazz", "count": 1}}, profile["top_genres"])
	})

	t.Run("empty mapping gives an empty profile", func(t *testing.T) {
		profile, err := BuildTasteProfile(map[string]any{})
		require.NoError(t, err)

		summary := profile["summary"].(map[string]any)
		assert.Nil(t, summary["favorite_artist"])
		assert.Nil(t, summary["favorite_genre"])
		assert.Equal(t,
			"You've got 0 favorite artists and 0 top tracks. You listen across 0 different genres.",
			summary["description"],
		)
		assert.Empty(t, profile["top_genres"])
	})
}

func TestBuildTasteProfile_RanksAtMostFiveGenres(t *testing.T) {
	items := map[string]any{
		"top_genres": []any{"a", "b", "c", "d", "e", "f", "f", "e"},
	}

	profile, err := BuildTasteProfile(items)
	require.NoError(t, err)

	topGenres := profile["top_genres"].([]any)
	require.Len(t, topGenres, rankedGenreSize)
	assert.Equal(t, map[string]any{"genre": "e", "count": 2}, topGenres[0])
	assert.Equal(t, map[string]any{"genre": "f", "count": 2}, topGenres[1])
	assert.Equal(t, map[string]any{"genre": "a", "count": 1}, topGenres[2])
}

func TestBuildTasteProfile_InvalidInput(t *testing.T) {
	for _, items := range []any{nil, "items", 42, 3.5} {
		_, err := BuildTasteProfile(items)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "items %#v: error = %v", items, err)
	}
}

func TestBuildTasteProfile_FeedsTheScorer(t *testing.T) {
	a, err := BuildTasteProfile([]any{
		map[string]any{"name": "Song A", "artist": "Artist 1", "genres": []any{"pop"}},
	})
	require.NoError(t, err)

	b, err := BuildTasteProfile(map[string]any{
		"top_artists": []any{"artist 1"},
		"top_genres":  []any{"Pop"},
		"top_tracks":  []any{"Song A - Artist 1"},
	})
	require.NoError(t, err)

	result := NewScorer(nil).Score(a, b)
	assert.Equal(t, 6, result.RawScore)
	assert.Equal(t, 100, result.MatchPercent)
}
