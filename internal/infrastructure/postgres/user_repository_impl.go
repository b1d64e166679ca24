package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomarket/user-service/internal/domain/entity"
	"github.com/ecomarket/user-service/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// mapDuplicate translates a unique-constraint violation into the matching
// repository sentinel. The constraint names come from the migration that
// creates the users table.
func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return repository.ErrDuplicateUsername
	case "users_email_key":
		return repository.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, password_hash, email, full_name, created_at, updated_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FullName,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, password_hash, email, full_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, password_hash, email, full_name, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, password_hash, email, full_name, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FullName,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Username, u.PasswordHash, u.Email, u.FullName)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapDuplicate(err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, password_hash = $2, email = $3, full_name = $4, updated_at = $5
		WHERE id = $6
	`, u.Username, u.PasswordHash, u.Email, u.FullName, u.UpdatedAt, u.ID)
	if err != nil {
		return mapDuplicate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	// No row count check: delete is unconditional and idempotent.
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
