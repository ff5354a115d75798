// internal/storage/storage.go
package storage

import (
	"cashback-chain/internal/domain"
	"context"
	"errors"
)

var ErrProfileNotFound = errors.New("cashback profile not found")

// ProfileStorage keeps named cashback rates. Account balances are never stored.
type ProfileStorage interface {
	ListProfiles(ctx context.Context) ([]domain.CashbackProfile, error)
	FindProfile(ctx context.Context, name string) (*domain.CashbackProfile, error)
	SaveProfile(ctx context.Context, profile domain.CashbackProfile) error
	DeleteProfile(ctx context.Context, name string) error
}
