package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = "id, email, username, password_hash, role, is_active, created_at, updated_at"

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// mapUniqueViolation translates Postgres unique-constraint errors into the
// package's conflict sentinels.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrEmailTaken
	case strings.Contains(pgErr.ConstraintName, "username"):
		return ErrUsernameTaken
	}
	return err
}

func (s *Store) Insert(ctx context.Context, u User) (User, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, username, password_hash, role, is_active)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+userColumns+`
  `, u.Email, u.Username, u.PasswordHash, u.Role, u.IsActive)
	created, err := scanUser(row)
	if err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return created, nil
}

func (s *Store) Get(ctx context.Context, id int64) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Store) GetByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM users
    WHERE ($1 = '' OR username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
  `, filter.Search).Scan(&total)
	return total, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE ($1 = '' OR username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
    ORDER BY id
    LIMIT $2 OFFSET $3
  `, filter.Search, filter.Limit, filter.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, u User) (User, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE users
    SET email = $2, username = $3, password_hash = $4, role = $5, is_active = $6, updated_at = now()
    WHERE id = $1
    RETURNING `+userColumns+`
  `, u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.IsActive)
	updated, err := scanUser(row)
	if err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) IsActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := s.DB.QueryRow(ctx, "SELECT is_active FROM users WHERE id = $1", id).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return active, nil
}
