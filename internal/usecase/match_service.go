package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tastematch/backend/internal/domain"
	"github.com/tastematch/backend/internal/infrastructure/logging"
	"github.com/tastematch/backend/internal/metrics"
)

// MatchServiceConfig holds configuration for the match service
type MatchServiceConfig struct {
	DefaultLimit  int
	MaxLimit      int
	MaxCandidates int
	Workers       int
}

// MatchService finds and scores matches between stored taste profiles
type MatchService struct {
	repo          domain.ProfileRepository
	normalizer    *Normalizer
	scorer        *Scorer
	logger        *zap.Logger
	defaultLimit  int
	maxLimit      int
	maxCandidates int
	workers       int
}

// NewMatchService creates a new match service with dependencies
func NewMatchService(
	repo domain.ProfileRepository,
	logger *zap.Logger,
	config MatchServiceConfig,
) *MatchService {
	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 25
	}

	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	defaultLimit = min(defaultLimit, maxLimit)

	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 500
	}

	workers := config.Workers
	if workers <= 0 {
		workers = 8
	}

	normalizer := NewNormalizer()

	return &MatchService{
		repo:          repo,
		normalizer:    normalizer,
		scorer:        NewScorer(normalizer),
		logger:        logging.OrNop(logger),
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
		maxCandidates: maxCandidates,
		workers:       workers,
	}
}

// FindMatches scores the user's stored profile against every other stored
// profile (up to the candidate cap) and returns the best matches, highest
// match score first. Ties fall back to raw score, then user id.
func (s *MatchService) FindMatches(ctx context.Context, userID string, limit int) ([]domain.CandidateMatch, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}

	self, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", userID, err)
	}

	// One extra so that the user's own entry does not eat into the cap
	stored, err := s.repo.List(ctx, s.maxCandidates+1)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	candidates := make([]domain.StoredProfile, 0, len(stored))
	for _, c := range stored {
		if c.UserID == userID {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}

	selfSignals := s.normalizer.Extract(self.Profile)
	results := make([]domain.CandidateMatch, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := s.scorer.ScoreSignals(selfSignals, s.normalizer.Extract(candidates[i].Profile))
			metrics.RecordMatchScore(result.MatchPercent)
			results[i] = domain.CandidateMatch{UserID: candidates[i].UserID, MatchResult: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.CandidatesScanned.Observe(float64(len(candidates)))

	sortMatches(results)

	limit = s.clampLimit(limit)
	if len(results) > limit {
		results = results[:limit]
	}

	s.logger.Debug("match search complete",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(results)),
	)

	return results, nil
}

// Compare scores two stored users against each other
func (s *MatchService) Compare(ctx context.Context, userA, userB string) (*domain.MatchResult, error) {
	userA, userB = strings.TrimSpace(userA), strings.TrimSpace(userB)
	if userA == "" || userB == "" {
		return nil, domain.ErrInvalidRequest
	}

	a, err := s.repo.Get(ctx, userA)
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", userA, err)
	}
	b, err := s.repo.Get(ctx, userB)
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", userB, err)
	}

	result := s.scorer.Score(a.Profile, b.Profile)
	metrics.RecordMatchScore(result.MatchPercent)

	return result, nil
}

// ScoreProfiles scores two caller-supplied profile records. Each must be a mapping.
func (s *MatchService) ScoreProfiles(a, b any) (*domain.MatchResult, error) {
	result, err := s.scorer.ScoreAny(a, b)
	if err != nil {
		return nil, err
	}
	metrics.RecordMatchScore(result.MatchPercent)

	return result, nil
}

// clampLimit maps a requested limit into [1, maxLimit]; zero or negative means the default
func (s *MatchService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	return min(limit, s.maxLimit)
}

func sortMatches(matches []domain.CandidateMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.RawScore != b.RawScore {
			return a.RawScore > b.RawScore
		}
		return a.UserID < b.UserID
	})
}
