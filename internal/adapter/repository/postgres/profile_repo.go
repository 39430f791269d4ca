package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drajad/kasbuku/internal/domain"
)

// ProfileRepository implements usecase.ProfileRepository.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get retrieves the business profile of an owner.
func (r *ProfileRepository) Get(ctx context.Context, ownerID string) (*domain.BusinessProfile, error) {
	query := `
		SELECT owner_id, business_name, address, whatsapp, created_at, updated_at
		FROM business_profiles
		WHERE owner_id = $1
	`

	var p domain.BusinessProfile
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&p.OwnerID,
		&p.BusinessName,
		&p.Address,
		&p.Whatsapp,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

// Upsert creates or replaces an owner's business profile.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.BusinessProfile) error {
	query := `
		INSERT INTO business_profiles (owner_id, business_name, address, whatsapp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (owner_id) DO UPDATE
		SET business_name = EXCLUDED.business_name,
		    address = EXCLUDED.address,
		    whatsapp = EXCLUDED.whatsapp,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		profile.OwnerID,
		profile.BusinessName,
		profile.Address,
		profile.Whatsapp,
		profile.UpdatedAt,
	)

	return err
}
