package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/drajad/kasbuku/internal/domain"
)

// ProfileUseCase handles the business profile page.
type ProfileUseCase struct {
	profileRepo ProfileRepository
}

// NewProfileUseCase creates a new ProfileUseCase.
func NewProfileUseCase(profileRepo ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{profileRepo: profileRepo}
}

// GetProfile retrieves the session owner's business profile. A missing
// profile resolves to an empty one so the form always has something to
// render.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, session *domain.Session) (*domain.BusinessProfile, error) {
	profile, err := uc.profileRepo.Get(ctx, session.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return &domain.BusinessProfile{OwnerID: session.OwnerID}, nil
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfileInput represents input for updating the business profile.
type UpdateProfileInput struct {
	BusinessName string
	Address      string
	Whatsapp     string
}

// UpdateProfile saves the business profile, creating it on first save.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, session *domain.Session, input UpdateProfileInput) (*domain.BusinessProfile, error) {
	now := time.Now().UTC()

	profile := &domain.BusinessProfile{
		OwnerID:      session.OwnerID,
		BusinessName: input.BusinessName,
		Address:      input.Address,
		Whatsapp:     input.Whatsapp,
		UpdatedAt:    now,
	}

	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
