package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citywaste/waste-flow-api/internal/model"
)

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	List(ctx context.Context) ([]model.Location, error)
	Update(ctx context.Context, location *model.Location) error
	Delete(ctx context.Context, id int64) error
}

type pgLocationRepo struct{ pool *pgxpool.Pool }

func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &pgLocationRepo{pool: pool}
}

func (r *pgLocationRepo) Create(ctx context.Context, location *model.Location) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO locations (name, address) VALUES ($1, $2) RETURNING id`,
		location.Name, location.Address,
	).Scan(&location.ID)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *pgLocationRepo) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, address FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *pgLocationRepo) Update(ctx context.Context, location *model.Location) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE locations SET name = $2, address = $3 WHERE id = $1`,
		location.ID, location.Name, location.Address,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgLocationRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
