// internal/storage/postgres/postgres.go
package postgres

import (
	"cashback-chain/internal/domain"
	"cashback-chain/internal/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool the storage needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DB = (*pgxpool.Pool)(nil)

type Storage struct {
	db DB
}

func NewStorage(db DB) *Storage {
	return &Storage{db: db}
}

func validateProfile(p domain.CashbackProfile) error {
	if domain.NormalizeProfileName(p.Name) == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.RateBps < 0 || p.RateBps > 10000 {
		return fmt.Errorf("rate must be between 0 and 10000 bps for profile %q", p.Name)
	}
	return nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]domain.CashbackProfile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, rate_bps
		FROM cashback_profiles
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.CashbackProfile
	for rows.Next() {
		var p domain.CashbackProfile
		if err := rows.Scan(&p.Name, &p.RateBps); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *Storage) FindProfile(ctx context.Context, name string) (*domain.CashbackProfile, error) {
	var p domain.CashbackProfile
	err := s.db.QueryRow(ctx, "SELECT name, rate_bps FROM cashback_profiles WHERE name = $1", domain.NormalizeProfileName(name)).Scan(&p.Name, &p.RateBps)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (s *Storage) SaveProfile(ctx context.Context, p domain.CashbackProfile) error {
	if err := validateProfile(p); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO cashback_profiles (name, rate_bps)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET rate_bps = EXCLUDED.rate_bps, updated_at = NOW()
	`, domain.NormalizeProfileName(p.Name), p.RateBps)
	if err != nil {
		return fmt.Errorf("upsert profile %q: %w", p.Name, err)
	}

	slog.Debug("SaveProfile completed", "name", p.Name, "rate_bps", p.RateBps)
	return nil
}

func (s *Storage) DeleteProfile(ctx context.Context, name string) error {
	result, err := s.db.Exec(ctx, "DELETE FROM cashback_profiles WHERE name = $1", domain.NormalizeProfileName(name))
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%q: %w", name, storage.ErrProfileNotFound)
	}
	return nil
}
