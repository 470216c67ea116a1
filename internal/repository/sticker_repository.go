package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"driverhub/api/internal/models"
)

type StickerRepository struct {
	pool *pgxpool.Pool
}

func NewStickerRepository(pool *pgxpool.Pool) *StickerRepository {
	return &StickerRepository{pool: pool}
}

func (r *StickerRepository) List(ctx context.Context) ([]models.ExtraSticker, error) {
	const query = `
		SELECT id, kennzeichen, created_at
		FROM extra_sticker
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stickers []models.ExtraSticker
	for rows.Next() {
		var sticker models.ExtraSticker
		if err := rows.Scan(&sticker.ID, &sticker.Kennzeichen, &sticker.CreatedAt); err != nil {
			return nil, err
		}
		stickers = append(stickers, sticker)
	}
	return stickers, rows.Err()
}

func (r *StickerRepository) Create(ctx context.Context, sticker models.ExtraSticker) error {
	const query = `
		INSERT INTO extra_sticker (id, kennzeichen, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := r.pool.Exec(ctx, query, sticker.ID, sticker.Kennzeichen)
	return err
}

func (r *StickerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM extra_sticker WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
