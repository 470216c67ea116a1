package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"driverhub/api/internal/models"
)

var ErrDriverNotFound = errors.New("driver not found")

type DriverRepository struct {
	pool *pgxpool.Pool
}

func NewDriverRepository(pool *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{pool: pool}
}

const driverColumns = `
	id, vorname, nachname, email, phone, status, fahrzeugtyp, kennzeichen, sticker, app, created_at
`

func (r *DriverRepository) Create(ctx context.Context, driver models.Driver) error {
	const query = `
		INSERT INTO drivers (
			id, vorname, nachname, email, phone, status, fahrzeugtyp, kennzeichen, sticker, app, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		driver.ID,
		driver.Vorname,
		driver.Nachname,
		driver.Email,
		driver.Phone,
		driver.Status,
		driver.Fahrzeugtyp,
		driver.Kennzeichen,
		driver.Sticker,
		driver.App,
	)
	return err
}

func (r *DriverRepository) Update(ctx context.Context, driver models.Driver) error {
	const query = `
		UPDATE drivers
		SET vorname = $2, nachname = $3, email = $4, phone = $5, status = $6,
		    fahrzeugtyp = $7, kennzeichen = $8, sticker = $9, app = $10
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		driver.ID,
		driver.Vorname,
		driver.Nachname,
		driver.Email,
		driver.Phone,
		driver.Status,
		driver.Fahrzeugtyp,
		driver.Kennzeichen,
		driver.Sticker,
		driver.App,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepository) UpdateStatus(ctx context.Context, id string, status models.DriverStatus) error {
	const query = `UPDATE drivers SET status = $2 WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM drivers WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *DriverRepository) GetByID(ctx context.Context, id string) (models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	driver, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Driver{}, ErrDriverNotFound
		}
		return models.Driver{}, err
	}
	return driver, nil
}

func (r *DriverRepository) List(ctx context.Context) ([]models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

func (r *DriverRepository) Stats(ctx context.Context) (models.DriverStats, error) {
	const query = `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'aktiv') AS aktiv,
			COUNT(*) FILTER (WHERE status = 'inaktiv') AS inaktiv,
			COUNT(*) FILTER (WHERE status = 'neu') AS neu
		FROM drivers
	`

	row := r.pool.QueryRow(ctx, query)
	var stats models.DriverStats
	if err := row.Scan(&stats.Total, &stats.Aktiv, &stats.Inaktiv, &stats.Neu); err != nil {
		return models.DriverStats{}, err
	}
	return stats, nil
}

func scanDriver(row pgx.Row) (models.Driver, error) {
	var driver models.Driver
	err := row.Scan(
		&driver.ID,
		&driver.Vorname,
		&driver.Nachname,
		&driver.Email,
		&driver.Phone,
		&driver.Status,
		&driver.Fahrzeugtyp,
		&driver.Kennzeichen,
		&driver.Sticker,
		&driver.App,
		&driver.CreatedAt,
	)
	return driver, err
}
