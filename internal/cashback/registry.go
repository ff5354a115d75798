// internal/cashback/registry.go
package cashback

import (
	"cashback-chain/internal/domain"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrBuiltinProfile = errors.New("builtin cashback profile cannot be removed")

// ProfileSource lists stored cashback profiles.
type ProfileSource interface {
	ListProfiles(ctx context.Context) ([]domain.CashbackProfile, error)
}

// Registry maps profile names to strategies. It always knows "low" and "high".
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Strategy
}

func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Strategy)}
	r.Register(Low)
	r.Register(High)
	return r
}

// Register adds or replaces a strategy under its name.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	r.byName[domain.NormalizeProfileName(s.Name())] = s
	r.mu.Unlock()
}

// IsBuiltin reports whether name is one of the profiles every registry has.
func IsBuiltin(name string) bool {
	switch domain.NormalizeProfileName(name) {
	case Low.Name(), High.Name():
		return true
	}
	return false
}

// Unregister forgets name. Builtins are never removed.
func (r *Registry) Unregister(name string) {
	if IsBuiltin(name) {
		return
	}
	r.mu.Lock()
	delete(r.byName, domain.NormalizeProfileName(name))
	r.mu.Unlock()
}

func (r *Registry) Lookup(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[domain.NormalizeProfileName(name)]
	return s, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load registers every profile of src. Stored profiles override builtins
// with the same name.
func (r *Registry) Load(ctx context.Context, src ProfileSource) error {
	profiles, err := src.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list cashback profiles: %w", err)
	}
	for _, p := range profiles {
		rate, err := FromBasisPoints(p.Name, p.RateBps)
		if err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
		r.Register(rate)
	}
	return nil
}
