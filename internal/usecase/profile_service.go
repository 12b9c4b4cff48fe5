package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tastematch/backend/internal/domain"
	"github.com/tastematch/backend/internal/infrastructure/logging"
	"github.com/tastematch/backend/internal/metrics"
)

// ProfileService builds taste profiles from listening data and stores them
type ProfileService struct {
	repo   domain.ProfileRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewProfileService creates a new profile service with dependencies
func NewProfileService(repo domain.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// BuildAndSave builds a profile from items and stores it under userID,
// overwriting any previous profile. When userID is empty the "user_id" field
// of a mapping-shaped items value is used instead.
func (s *ProfileService) BuildAndSave(ctx context.Context, userID string, items any) (*domain.StoredProfile, error) {
	if items == nil {
		return nil, fmt.Errorf("%w: missing items", domain.ErrInvalidInput)
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		if record, ok := asStringMap(items); ok {
			userID = trimmedString(record["user_id"])
		}
	}
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}

	profile, err := BuildTasteProfile(items)
	if err != nil {
		return nil, err
	}
	profile["user_id"] = userID

	stored := &domain.StoredProfile{
		UserID:    userID,
		UpdatedAt: s.now().UTC(),
		Profile:   profile,
	}
	if err := s.repo.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("saving profile %q: %w", userID, err)
	}
	metrics.ProfilesSavedTotal.Inc()

	s.logger.Info("taste profile saved", zap.String("user_id", userID))

	return stored, nil
}

// Get returns the stored profile for a user
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.Get(ctx, userID)
}

// Delete removes the stored profile for a user
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting profile %q: %w", userID, err)
	}

	s.logger.Info("taste profile deleted", zap.String("user_id", userID))
	return nil
}
