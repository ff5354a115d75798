// internal/wallet/wallet.go
package wallet

import (
	"cashback-chain/internal/account"
	"cashback-chain/internal/cashback"
	"cashback-chain/internal/catalog"
	"cashback-chain/internal/domain"
	"cashback-chain/internal/purchase"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUnknownProfile  = errors.New("unknown cashback profile")
)

// Wallet owns a set of payment accounts together with the rebate subscriber
// they all report to. One wallet is one independent session.
type Wallet struct {
	profiles *cashback.Registry
	rebates  *cashback.Subscriber
	resolver *purchase.Resolver
	catalog  *catalog.Catalog

	mu       sync.RWMutex
	accounts map[uuid.UUID]*account.Account
	order    []uuid.UUID

	// links serializes fallback changes so a cycle check and its write
	// cannot interleave with another link.
	links sync.Mutex
}

func New(profiles *cashback.Registry, resolver *purchase.Resolver, cat *catalog.Catalog, initialProfile string) (*Wallet, error) {
	strategy, ok := profiles.Lookup(initialProfile)
	if !ok {
		return nil, fmt.Errorf("%q: %w", initialProfile, ErrUnknownProfile)
	}
	return &Wallet{
		profiles: profiles,
		rebates:  cashback.NewSubscriber(strategy),
		resolver: resolver,
		catalog:  cat,
		accounts: make(map[uuid.UUID]*account.Account),
	}, nil
}

// Open creates an account subscribed to the wallet's cashback.
func (w *Wallet) Open(kind domain.AccountKind, balance decimal.Decimal) (*account.Account, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("opening balance %s: %w", balance, account.ErrInvalidAmount)
	}
	acc := account.New(kind, balance)
	acc.Subscribe(w.rebates)

	w.mu.Lock()
	w.accounts[acc.ID()] = acc
	w.order = append(w.order, acc.ID())
	w.mu.Unlock()

	slog.Debug("account opened", "account_id", acc.ID(), "kind", kind, "balance", balance)
	return acc, nil
}

func (w *Wallet) Account(id uuid.UUID) (*account.Account, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	acc, ok := w.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrAccountNotFound)
	}
	return acc, nil
}

// Accounts returns accounts in opening order.
func (w *Wallet) Accounts() []*account.Account {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*account.Account, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.accounts[id])
	}
	return out
}

// Link makes fallbackID the next account after id.
func (w *Wallet) Link(id, fallbackID uuid.UUID) error {
	acc, err := w.Account(id)
	if err != nil {
		return err
	}
	next, err := w.Account(fallbackID)
	if err != nil {
		return err
	}

	w.links.Lock()
	defer w.links.Unlock()
	return acc.SetFallback(next)
}

func (w *Wallet) Unlink(id uuid.UUID) error {
	acc, err := w.Account(id)
	if err != nil {
		return err
	}

	w.links.Lock()
	defer w.links.Unlock()
	return acc.SetFallback(nil)
}

func (w *Wallet) Deposit(id uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("deposit %s: %w", amount, account.ErrInvalidAmount)
	}
	acc, err := w.Account(id)
	if err != nil {
		return err
	}
	acc.AddToBalance(amount)
	return nil
}

// Buy builds a car from the catalog, prices it and purchases it with the
// chain starting at id.
func (w *Wallet) Buy(ctx context.Context, id uuid.UUID, m domain.Manufacturer, cat domain.Category, price decimal.Decimal) (*domain.Car, purchase.Outcome, error) {
	acc, err := w.Account(id)
	if err != nil {
		return nil, purchase.Failed, err
	}
	car, err := w.catalog.Build(m, cat)
	if err != nil {
		return nil, purchase.Failed, err
	}
	car.SetPrice(price)

	outcome, err := w.resolver.Purchase(ctx, car, acc)
	return car, outcome, err
}

// SetStrategy switches the active cashback profile for future payments.
func (w *Wallet) SetStrategy(name string) (cashback.Strategy, error) {
	strategy, ok := w.profiles.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownProfile)
	}
	w.rebates.SetActiveStrategy(strategy)
	return strategy, nil
}

func (w *Wallet) Strategy() cashback.Strategy {
	return w.rebates.ActiveStrategy()
}

func (w *Wallet) Observations() []cashback.Observation {
	return w.rebates.Observations()
}

func (w *Wallet) Profiles() []string {
	return w.profiles.Names()
}

func (w *Wallet) Manufactured() []domain.Car {
	return w.catalog.Manufactured()
}
