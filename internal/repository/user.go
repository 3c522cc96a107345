package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citywaste/waste-flow-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	DeleteByRole(ctx context.Context, id int64, role model.Role) (*model.User, error)
}

type pgUserRepo struct{ pool *pgxpool.Pool }

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepo{pool: pool}
}

func (r *pgUserRepo) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, role, is_active)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.Password, user.Role, user.IsActive,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *pgUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *pgUserRepo) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, role, is_active FROM users ` + where
	user := &model.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *pgUserRepo) Update(ctx context.Context, user *model.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET username=$2, email=$3, password_hash=$4, role=$5, is_active=$6 WHERE id=$1`,
		user.ID, user.Username, user.Email, user.Password, user.Role, user.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, `SELECT id, username, email, password_hash, role, is_active FROM users ORDER BY id`)
}

func (r *pgUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.list(ctx,
		`SELECT id, username, email, password_hash, role, is_active FROM users WHERE role = $1 ORDER BY id`,
		role,
	)
}

func (r *pgUserRepo) list(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.IsActive); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteByRole removes a user only when it carries the given role and
// returns the deleted row, or (nil, nil) when no such user exists.
func (r *pgUserRepo) DeleteByRole(ctx context.Context, id int64, role model.Role) (*model.User, error) {
	user := &model.User{}
	err := r.pool.QueryRow(ctx,
		`DELETE FROM users WHERE id = $1 AND role = $2
		 RETURNING id, username, email, password_hash, role, is_active`,
		id, role,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return user, nil
}
