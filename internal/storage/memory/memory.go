// internal/storage/memory/memory.go
package memory

import (
	"cashback-chain/internal/domain"
	"cashback-chain/internal/storage"
	"context"
	"fmt"
	"sort"
	"sync"
)

// Storage is the profile store used when no DATABASE_URL is configured.
type Storage struct {
	mu       sync.RWMutex
	profiles map[string]int
}

// NewStorage returns a store seeded with the builtin low and high profiles.
func NewStorage() *Storage {
	return &Storage{profiles: map[string]int{"low": 200, "high": 1200}}
}

func (s *Storage) ListProfiles(_ context.Context) ([]domain.CashbackProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CashbackProfile, 0, len(s.profiles))
	for name, bps := range s.profiles {
		out = append(out, domain.CashbackProfile{Name: name, RateBps: bps})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Storage) FindProfile(_ context.Context, name string) (*domain.CashbackProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k := domain.NormalizeProfileName(name)
	bps, ok := s.profiles[k]
	if !ok {
		return nil, nil
	}
	return &domain.CashbackProfile{Name: k, RateBps: bps}, nil
}

func (s *Storage) SaveProfile(_ context.Context, p domain.CashbackProfile) error {
	k := domain.NormalizeProfileName(p.Name)
	if k == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.RateBps < 0 || p.RateBps > 10000 {
		return fmt.Errorf("rate must be between 0 and 10000 bps for profile %q", p.Name)
	}

	s.mu.Lock()
	s.profiles[k] = p.RateBps
	s.mu.Unlock()
	return nil
}

func (s *Storage) DeleteProfile(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := domain.NormalizeProfileName(name)
	if _, ok := s.profiles[k]; !ok {
		return fmt.Errorf("%q: %w", name, storage.ErrProfileNotFound)
	}
	delete(s.profiles, k)
	return nil
}
