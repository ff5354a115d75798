// internal/catalog/catalog.go
package catalog

import (
	"cashback-chain/internal/domain"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

var (
	ErrNoFactory       = errors.New("factory does not exist yet")
	ErrUnknownCategory = errors.New("unknown car category")
)

var modelPrefix = map[domain.Category]string{
	domain.Sedan:  "S",
	domain.SAV:    "X",
	domain.Luxury: "L",
}

// maxManufactured bounds the build log; older cars drop off first.
const maxManufactured = 100

var factories = map[domain.Manufacturer]bool{
	domain.BMW:      true,
	domain.Mercedes: true,
	domain.Audi:     true,
}

// Catalog builds cars and remembers the last ones it built.
type Catalog struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	now   func() time.Time
	built []domain.Car
}

func New(rnd *rand.Rand) *Catalog {
	return &Catalog{rnd: rnd, now: time.Now}
}

// Build returns an unpriced car of the given manufacturer and category.
func (c *Catalog) Build(m domain.Manufacturer, cat domain.Category) (*domain.Car, error) {
	if !factories[m] {
		return nil, fmt.Errorf("%s: %w", m, ErrNoFactory)
	}
	prefix, ok := modelPrefix[cat]
	if !ok {
		return nil, fmt.Errorf("%s: %w", cat, ErrUnknownCategory)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	car := domain.Car{
		Manufacturer: m,
		Model:        fmt.Sprintf("%s%d", prefix, c.rnd.IntN(99)*100),
		Year:         c.now().Year(),
		Category:     cat,
	}
	if len(c.built) == maxManufactured {
		copy(c.built, c.built[1:])
		c.built = c.built[:maxManufactured-1]
	}
	c.built = append(c.built, car)
	return &car, nil
}

// Manufactured lists the most recently built cars, oldest first.
func (c *Catalog) Manufactured() []domain.Car {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Car, len(c.built))
	copy(out, c.built)
	return out
}
