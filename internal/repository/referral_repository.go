package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"driverhub/api/internal/models"
)

type ReferralRepository struct {
	pool *pgxpool.Pool
}

func NewReferralRepository(pool *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{pool: pool}
}

func (r *ReferralRepository) List(ctx context.Context) ([]models.Referral, error) {
	const query = `
		SELECT id, vorname, nachname, abholort, abgabeort, created_at
		FROM empfehlungen
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var referrals []models.Referral
	for rows.Next() {
		var ref models.Referral
		if err := rows.Scan(&ref.ID, &ref.Vorname, &ref.Nachname, &ref.Abholort, &ref.Abgabeort, &ref.CreatedAt); err != nil {
			return nil, err
		}
		referrals = append(referrals, ref)
	}
	return referrals, rows.Err()
}

func (r *ReferralRepository) Create(ctx context.Context, ref models.Referral) error {
	const query = `
		INSERT INTO empfehlungen (id, vorname, nachname, abholort, abgabeort, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.pool.Exec(ctx, query, ref.ID, ref.Vorname, ref.Nachname, ref.Abholort, ref.Abgabeort)
	return err
}

func (r *ReferralRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM empfehlungen WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
