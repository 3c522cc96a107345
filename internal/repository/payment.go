package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citywaste/waste-flow-api/internal/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByReference(ctx context.Context, reference string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus) error
}

type pgPaymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &pgPaymentRepo{pool: pool}
}

func (r *pgPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payments (user_id, order_id, amount, status, reference)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		payment.UserID, payment.OrderID, payment.Amount, payment.Status, payment.Reference,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByReference looks up the payment the gateway webhook refers to.
func (r *pgPaymentRepo) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	payment := &model.Payment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, order_id, amount, status, reference, created_at
		 FROM payments WHERE reference = $1`, reference,
	).Scan(&payment.ID, &payment.UserID, &payment.OrderID, &payment.Amount,
		&payment.Status, &payment.Reference, &payment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by reference: %w", err)
	}
	return payment, nil
}

func (r *pgPaymentRepo) UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $2 WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}
