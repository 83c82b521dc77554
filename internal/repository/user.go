package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const _uniqueViolationCode = "23505"

type UserRepository struct {
	db *postgres.Postgres
}

func NewUserRepository(db *postgres.Postgres) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	const op = "repository.user.Create"

	query := r.db.Builder.Insert("users").
		Columns("username", "email").
		Values(user.Username, user.Email).
		Suffix("RETURNING id, username, email")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.User{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.ID,
		&result.Username,
		&result.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrConflictingData
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	const op = "repository.user.GetByID"

	query := r.db.Builder.Select("id", "username", "email").
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.User{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.ID,
		&result.Username,
		&result.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	const op = "repository.user.List"

	query := r.db.Builder.Select("id", "username", "email").
		From("users").
		OrderBy("id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user := &entity.User{}
		if err = rows.Scan(&user.ID, &user.Username, &user.Email); err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		users = append(users, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, rows.Err())
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	const op = "repository.user.Update"

	query := r.db.Builder.Update("users").
		Set("username", user.Username).
		Set("email", user.Email).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING id, username, email")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.User{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.ID,
		&result.Username,
		&result.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		if isUniqueViolation(err) {
			return nil, entity.ErrConflictingData
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const op = "repository.user.Delete"

	query := r.db.Builder.Delete("users").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDataNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == _uniqueViolationCode
}
