package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citywaste/waste-flow-api/internal/model"
)

type CollectionRepository interface {
	Create(ctx context.Context, collection *model.WasteCollection) error
	GetByID(ctx context.Context, id int64) (*model.WasteCollection, error)
	List(ctx context.Context) ([]model.WasteCollection, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.WasteCollection, error)
	ListByCollectorID(ctx context.Context, collectorID int64) ([]model.WasteCollection, error)
	ListRecent(ctx context.Context, limit int) ([]model.WasteCollection, error)
	Claim(ctx context.Context, id, collectorID int64) (bool, error)
	Complete(ctx context.Context, id, collectorID int64) error
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountCompletedByCollector(ctx context.Context, collectorID int64) (int, error)
}

type pgCollectionRepo struct{ pool *pgxpool.Pool }

func NewCollectionRepository(pool *pgxpool.Pool) CollectionRepository {
	return &pgCollectionRepo{pool: pool}
}

func (r *pgCollectionRepo) Create(ctx context.Context, collection *model.WasteCollection) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO waste_collections (user_id, location, status)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		collection.UserID, collection.Location, collection.Status,
	).Scan(&collection.ID, &collection.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

func (r *pgCollectionRepo) GetByID(ctx context.Context, id int64) (*model.WasteCollection, error) {
	c := &model.WasteCollection{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, collector_id, location, status, created_at
		 FROM waste_collections WHERE id = $1`, id,
	).Scan(&c.ID, &c.UserID, &c.CollectorID, &c.Location, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

func (r *pgCollectionRepo) List(ctx context.Context) ([]model.WasteCollection, error) {
	return r.list(ctx,
		`SELECT id, user_id, collector_id, location, status, created_at
		 FROM waste_collections ORDER BY id`)
}

func (r *pgCollectionRepo) ListByUserID(ctx context.Context, userID int64) ([]model.WasteCollection, error) {
	return r.list(ctx,
		`SELECT id, user_id, collector_id, location, status, created_at
		 FROM waste_collections WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *pgCollectionRepo) ListByCollectorID(ctx context.Context, collectorID int64) ([]model.WasteCollection, error) {
	return r.list(ctx,
		`SELECT id, user_id, collector_id, location, status, created_at
		 FROM waste_collections WHERE collector_id = $1 ORDER BY id`, collectorID)
}

func (r *pgCollectionRepo) ListRecent(ctx context.Context, limit int) ([]model.WasteCollection, error) {
	return r.list(ctx,
		`SELECT id, user_id, collector_id, location, status, created_at
		 FROM waste_collections ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *pgCollectionRepo) list(ctx context.Context, query string, args ...any) ([]model.WasteCollection, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []model.WasteCollection
	for rows.Next() {
		var c model.WasteCollection
		if err := rows.Scan(&c.ID, &c.UserID, &c.CollectorID, &c.Location, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// Claim assigns the collector and moves the row to in_progress in one
// conditional update so two collectors cannot race past the completed check.
// Returns false when the row was already completed.
func (r *pgCollectionRepo) Claim(ctx context.Context, id, collectorID int64) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE waste_collections SET collector_id = $2, status = $3
		 WHERE id = $1 AND status <> $4`,
		id, collectorID, model.CollectionStatusInProgress, model.CollectionStatusCompleted,
	)
	if err != nil {
		return false, fmt.Errorf("claim collection: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Complete moves the row to completed only when it is in_progress and assigned
// to the given collector.
func (r *pgCollectionRepo) Complete(ctx context.Context, id, collectorID int64) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE waste_collections SET status = $3
		 WHERE id = $1 AND collector_id = $2 AND status = $4`,
		id, collectorID, model.CollectionStatusCompleted, model.CollectionStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("complete collection: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCollectionRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM waste_collections WHERE created_at >= $1`, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count collections: %w", err)
	}
	return n, nil
}

func (r *pgCollectionRepo) CountCompletedByCollector(ctx context.Context, collectorID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM waste_collections WHERE collector_id = $1 AND status = $2`,
		collectorID, model.CollectionStatusCompleted,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed collections: %w", err)
	}
	return n, nil
}
