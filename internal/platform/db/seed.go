package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/platform/config"
)

// Seed ensures the configured admin account exists. It never overwrites an
// existing account with the same email.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, username, password_hash, role, is_active)
    VALUES ($1, $2, $3, $4, true)
    ON CONFLICT (username) DO NOTHING
  `, email, cfg.SeedAdminUsername, hash, string(auth.RoleAdmin))
	return err
}
