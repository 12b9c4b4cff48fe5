package usecase

import (
	"math"

	"github.com/tastematch/backend/internal/domain"
)

// Points per shared identifier. A shared favorite artist is the strongest
// affinity signal; a single shared track is mostly noise.
const (
	weightArtist = 3
	weightGenre  = 2
	weightTrack  = 1
)

// explainSampleSize is how many shared identifiers per category the explain
// breakdown carries
const explainSampleSize = 3

// Scorer computes the similarity between two taste profiles.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	normalizer *Normalizer
}

// NewScorer creates a scorer that normalizes profiles with the given normalizer.
// A nil normalizer gets the default one.
func NewScorer(normalizer *Normalizer) *Scorer {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	return &Scorer{normalizer: normalizer}
}

// Weights returns the fixed per-category point values
func (s *Scorer) Weights() domain.MatchWeights {
	return domain.MatchWeights{
		Artist: weightArtist,
		Genre:  weightGenre,
		Track:  weightTrack,
	}
}

// Score normalizes both profiles and scores them against each other.
// Argument order never affects the result.
func (s *Scorer) Score(a, b domain.Profile) *domain.MatchResult {
	return s.ScoreSignals(s.normalizer.Extract(a), s.normalizer.Extract(b))
}

// ScoreAny validates both values as profile mappings before scoring them
func (s *Scorer) ScoreAny(a, b any) (*domain.MatchResult, error) {
	sa, err := s.normalizer.ExtractAny(a)
	if err != nil {
		return nil, err
	}
	sb, err := s.normalizer.ExtractAny(b)
	if err != nil {
		return nil, err
	}
	return s.ScoreSignals(sa, sb), nil
}

// ScoreSignals scores two already extracted signal sets.
//
// The raw score weights each shared identifier by its category. The maximum raw
// score is what the smaller side of each category could reach, so a user with a
// short artist list is not penalized against one with a long list. The match
// percent is raw over maximum, rounded and clamped to [0, 100]; it is 0 when
// there is nothing to compare.
func (s *Scorer) ScoreSignals(a, b *domain.TasteSignals) *domain.MatchResult {
	if a == nil {
		a = emptySignals()
	}
	if b == nil {
		b = emptySignals()
	}

	sharedArtists := a.Artists.Intersect(b.Artists).Sorted()
	sharedGenres := a.Genres.Intersect(b.Genres).Sorted()
	sharedTracks := a.Tracks.Intersect(b.Tracks).Sorted()

	points := domain.CategoryCounts{
		Artists: len(sharedArtists) * weightArtist,
		Genres:  len(sharedGenres) * weightGenre,
		Tracks:  len(sharedTracks) * weightTrack,
	}
	rawScore := points.Artists + points.Genres + points.Tracks

	maxRawScore := min(a.Artists.Len(), b.Artists.Len())*weightArtist +
		min(a.Genres.Len(), b.Genres.Len())*weightGenre +
		min(a.Tracks.Len(), b.Tracks.Len())*weightTrack

	percent := matchPercent(rawScore, maxRawScore)

	return &domain.MatchResult{
		RawScore:      rawScore,
		MaxRawScore:   maxRawScore,
		MatchScore:    percent,
		MatchPercent:  percent,
		SharedArtists: sharedArtists,
		SharedGenres:  sharedGenres,
		SharedTracks:  sharedTracks,
		Counts: domain.CategoryCounts{
			Artists: len(sharedArtists),
			Genres:  len(sharedGenres),
			Tracks:  len(sharedTracks),
		},
		Weights: s.Weights(),
		Explain: domain.MatchExplain{
			Points: points,
			Samples: domain.CategorySamples{
				Artists: sample(sharedArtists),
				Genres:  sample(sharedGenres),
				Tracks:  sample(sharedTracks),
			},
		},
	}
}

// matchPercent converts a raw score into a 0-100 percentage of the maximum
func matchPercent(raw, maxRaw int) int {
	if maxRaw <= 0 {
		return 0
	}

	pct := int(math.Round(100 * float64(raw) / float64(maxRaw)))
	return max(0, min(100, pct))
}

// sample returns a copy of the first explainSampleSize sorted identifiers
func sample(sorted []string) []string {
	n := min(len(sorted), explainSampleSize)
	out := make([]string, n)
	copy(out, sorted[:n])
	return out
}

func emptySignals() *domain.TasteSignals {
	return &domain.TasteSignals{
		Artists: domain.IdentifierSet{},
		Genres:  domain.IdentifierSet{},
		Tracks:  domain.IdentifierSet{},
	}
}
