package domain

// MatchWeights are the points awarded per shared identifier in each category
type MatchWeights struct {
	Artist int `json:"artist"`
	Genre  int `json:"genre"`
	Track  int `json:"track"`
}

// CategoryCounts holds one integer per category
type CategoryCounts struct {
	Artists int `json:"artists"`
	Genres  int `json:"genres"`
	Tracks  int `json:"tracks"`
}

// CategorySamples holds a short sorted sample of shared identifiers per category
type CategorySamples struct {
	Artists []string `json:"artists"`
	Genres  []string `json:"genres"`
	Tracks  []string `json:"tracks"`
}

// MatchExplain is the "why you matched" breakdown shown in the UI
type MatchExplain struct {
	Points  CategoryCounts  `json:"points"`
	Samples CategorySamples `json:"samples"`
}

// MatchResult represents the similarity between two taste profiles.
// MatchScore and MatchPercent always carry the same 0-100 value.
type MatchResult struct {
	RawScore      int            `json:"raw_score"`
	MaxRawScore   int            `json:"max_raw_score"`
	MatchScore    int            `json:"match_score"`
	MatchPercent  int            `json:"match_percent"`
	SharedArtists []string       `json:"shared_artists"`
	SharedGenres  []string       `json:"shared_genres"`
	SharedTracks  []string       `json:"shared_tracks"`
	Counts        CategoryCounts `json:"counts"`
	Weights       MatchWeights   `json:"weights"`
	Explain       MatchExplain   `json:"explain"`
}

// CandidateMatch is a scored candidate returned by a match search
type CandidateMatch struct {
	UserID string `json:"user_id"`
	*MatchResult
}
