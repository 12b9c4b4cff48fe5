package domain

import "context"

// ProfileRepository defines the interface for taste profile persistence.
// Save overwrites any existing profile for the same user.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*StoredProfile, error)
	Save(ctx context.Context, profile *StoredProfile) error
	Delete(ctx context.Context, userID string) error
	// List returns at most limit profiles ordered by user id. A limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]StoredProfile, error)
}
