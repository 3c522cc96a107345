package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citywaste/waste-flow-api/internal/model"
)

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	List(ctx context.Context) ([]model.Complaint, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status model.ComplaintStatus) (*model.Complaint, error)
	CountUnresolved(ctx context.Context) (int, error)
}

type pgComplaintRepo struct{ pool *pgxpool.Pool }

func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &pgComplaintRepo{pool: pool}
}

func (r *pgComplaintRepo) Create(ctx context.Context, complaint *model.Complaint) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO complaints (user_id, description, status)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		complaint.UserID, complaint.Description, complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

func (r *pgComplaintRepo) List(ctx context.Context) ([]model.Complaint, error) {
	return r.list(ctx,
		`SELECT id, user_id, description, status, created_at FROM complaints ORDER BY id`)
}

func (r *pgComplaintRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Complaint, error) {
	return r.list(ctx,
		`SELECT id, user_id, description, status, created_at
		 FROM complaints WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *pgComplaintRepo) list(ctx context.Context, query string, args ...any) ([]model.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []model.Complaint
	for rows.Next() {
		var c model.Complaint
		if err := rows.Scan(&c.ID, &c.UserID, &c.Description, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func (r *pgComplaintRepo) UpdateStatus(ctx context.Context, id int64, status model.ComplaintStatus) (*model.Complaint, error) {
	c := &model.Complaint{}
	err := r.pool.QueryRow(ctx,
		`UPDATE complaints SET status = $2 WHERE id = $1
		 RETURNING id, user_id, description, status, created_at`,
		id, status,
	).Scan(&c.ID, &c.UserID, &c.Description, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update complaint status: %w", err)
	}
	return c, nil
}

func (r *pgComplaintRepo) CountUnresolved(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM complaints WHERE status <> $1`, model.ComplaintStatusResolved,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unresolved complaints: %w", err)
	}
	return n, nil
}
