package store

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tastematch/backend/internal/domain"
)

// encodeProfile serializes a stored profile the same way for every backend
func encodeProfile(p *domain.StoredProfile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile %q: %w", p.UserID, err)
	}
	return data, nil
}

func decodeProfile(data []byte) (*domain.StoredProfile, error) {
	var p domain.StoredProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if p.Profile == nil {
		p.Profile = domain.Profile{}
	}
	return &p, nil
}

func validateForSave(p *domain.StoredProfile) error {
	if p == nil || p.UserID == "" {
		return domain.ErrInvalidRequest
	}
	return nil
}
