package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tastematch/backend/internal/domain"
)

const (
	unknownUserID   = "unknown-user"
	rankedGenreSize = 5
	sampleSize      = 5
)

// rankedGenre is a genre with the number of times it was seen
type rankedGenre struct {
	Genre string
	Count int
}

// BuildTasteProfile builds a taste profile record from listening data in one of two shapes:
//
//	[{"name": "Song A", "artist": "Artist 1", "genres": ["pop"]}, ...]
//	{"user_id": "...", "top_artists": [...], "top_genres": [...], "top_tracks": [...]}
//
// The first shape yields tracks as "Song – Artist". Any other shape is ErrInvalidInput.
func BuildTasteProfile(items any) (domain.Profile, error) {
	userID := unknownUserID
	var artists, genres, tracks []string

	if list, ok := asList(items); ok {
		for _, item := range list {
			record, ok := asStringMap(item)
			if !ok {
				continue
			}

			artist := trimmedString(record["artist"])
			if artist != "" {
				artists = append(artists, artist)
			}

			if name := trimmedString(record["name"]); name != "" {
				if artist != "" {
					tracks = append(tracks, name+" – "+artist)
				} else {
					tracks = append(tracks, name)
				}
			}

			if trackGenres, ok := asList(record["genres"]); ok {
				for _, g := range trackGenres {
					if genre := trimmedString(g); genre != "" {
						genres = append(genres, genre)
					}
				}
			}
		}
	} else if record, ok := asStringMap(items); ok {
		if id := trimmedString(record["user_id"]); id != "" {
			userID = id
		}
		artists = stringEntries(record["top_artists"], "name")
		genres = stringEntries(record["top_genres"], "genre")
		tracks = stringEntries(record["top_tracks"], "name")
	} else {
		return nil, fmt.Errorf("%w: got %T", domain.ErrInvalidInput, items)
	}

	ranked := rankGenres(genres)
	genreVariety := countDistinct(genres)

	var favoriteArtist, favoriteGenre any
	if len(artists) > 0 {
		favoriteArtist = artists[0]
	}
	if len(ranked) > 0 {
		favoriteGenre = ranked[0].Genre
	}

	topGenres := make([]any, 0, len(ranked))
	for _, g := range ranked {
		topGenres = append(topGenres, map[string]any{"genre": g.Genre, "count": g.Count})
	}

	return domain.Profile{
		"user_id": userID,
		"summary": map[string]any{
			"favorite_artist": favoriteArtist,
			"favorite_genre":  favoriteGenre,
			"description":     describeProfile(favoriteArtist, favoriteGenre, len(artists), len(tracks), genreVariety),
		},
		"stats": map[string]any{
			"artist_count":  len(artists),
			"track_count":   len(tracks),
			"genre_variety": genreVariety,
		},
		"top_genres": topGenres,
		"sample": map[string]any{
			"top_artists": head(artists, sampleSize),
			"top_tracks":  head(tracks, sampleSize),
		},
	}, nil
}

// rankGenres counts genres and returns the most common ones, ties in order of first appearance
func rankGenres(genres []string) []rankedGenre {
	index := make(map[string]int)
	var ranked []rankedGenre
	for _, g := range genres {
		if i, ok := index[g]; ok {
			ranked[i].Count++
			continue
		}
		index[g] = len(ranked)
		ranked = append(ranked, rankedGenre{Genre: g, Count: 1})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > rankedGenreSize {
		ranked = ranked[:rankedGenreSize]
	}
	return ranked
}

func describeProfile(favoriteArtist, favoriteGenre any, artistCount, trackCount, genreVariety int) string {
	var parts []string
	if a, ok := favoriteArtist.(string); ok {
		parts = append(parts, fmt.Sprintf("You really love %s.", a))
	}
	if g, ok := favoriteGenre.(string); ok {
		parts = append(parts, fmt.Sprintf("Your main genre is %s.", g))
	}
	parts = append(parts, fmt.Sprintf("You've got %d favorite artists and %d top tracks.", artistCount, trackCount))
	parts = append(parts, fmt.Sprintf("You listen across %d different genres.", genreVariety))

	return strings.Join(parts, " ")
}

// stringEntries reads a list of strings or records holding a string under recordKey.
// A lone string counts as a one-element list.
func stringEntries(v any, recordKey string) []string {
	if s := trimmedString(v); s != "" {
		return []string{s}
	}

	items, ok := asList(v)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		if s := trimmedString(item); s != "" {
			out = append(out, s)
			continue
		}
		if record, ok := asStringMap(item); ok {
			if s := trimmedString(record[recordKey]); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func trimmedString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func countDistinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func head(values []string, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < len(values) && i < n; i++ {
		out = append(out, values[i])
	}
	return out
}
