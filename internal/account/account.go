// internal/account/account.go
package account

import (
	"cashback-chain/internal/domain"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrChainCycle    = errors.New("payment chain cycle detected")
)

// Account is one link of a payment chain. Each account guards its own state;
// a payment never holds a lock while it moves down the chain.
type Account struct {
	id   uuid.UUID
	kind domain.AccountKind

	mu          sync.Mutex
	balance     decimal.Decimal
	fallback    *Account
	subscribers []Subscriber
}

func New(kind domain.AccountKind, balance decimal.Decimal) *Account {
	return &Account{
		id:      uuid.New(),
		kind:    kind,
		balance: balance,
	}
}

func (a *Account) ID() uuid.UUID { return a.id }

func (a *Account) Kind() domain.AccountKind { return a.kind }

// Describe returns the display name used in log lines and reports.
func (a *Account) Describe() string { return string(a.kind) }

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *Account) Fallback() *Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fallback
}

// AddToBalance credits the account unconditionally.
func (a *Account) AddToBalance(amount decimal.Decimal) {
	a.mu.Lock()
	a.balance = a.balance.Add(amount)
	a.mu.Unlock()
}

// SetFallback replaces the next account of the chain; nil clears it.
// A link that would close a loop, or that leads into an existing loop, is
// refused and the old link is kept. The check and the write are not atomic:
// callers linking concurrently must serialize, as Wallet does.
func (a *Account) SetFallback(next *Account) error {
	visited := make(map[*Account]struct{})
	for cur := next; cur != nil; cur = cur.Fallback() {
		if _, seen := visited[cur]; seen || cur == a {
			return fmt.Errorf("link %s -> %s: %w", a.Describe(), next.Describe(), ErrChainCycle)
		}
		visited[cur] = struct{}{}
	}

	a.mu.Lock()
	a.fallback = next
	a.mu.Unlock()
	return nil
}

// Subscribe registers sub; subscribers are notified in registration order.
func (a *Account) Subscribe(sub Subscriber) {
	a.mu.Lock()
	a.subscribers = append(a.subscribers, sub)
	a.mu.Unlock()
}

// Pay takes the full amount from the first account of the chain, starting at
// a, that can cover it. It returns false when no account can.
func (a *Account) Pay(amount decimal.Decimal) (bool, error) {
	if amount.IsNegative() {
		return false, fmt.Errorf("pay %s: %w", amount, ErrInvalidAmount)
	}

	visited := make(map[*Account]struct{})
	for cur := a; cur != nil; {
		if _, seen := visited[cur]; seen {
			return false, fmt.Errorf("pay %s via %s: %w", amount, cur.Describe(), ErrChainCycle)
		}
		visited[cur] = struct{}{}

		remaining, subs, next, ok := cur.debit(amount)
		if ok {
			slog.Info("paid", "account_id", cur.id, "kind", cur.kind, "amount", amount, "remaining", remaining)
			ev := RebateEvent{Account: cur, SpentAmount: amount}
			for _, sub := range subs {
				sub.OnRebateEvent(ev)
			}
			return true, nil
		}

		if next == nil {
			slog.Info("cannot pay", "account_id", cur.id, "kind", cur.kind, "amount", amount)
			return false, nil
		}
		slog.Info("cannot pay, proceeding", "account_id", cur.id, "kind", cur.kind, "amount", amount, "next", next.kind)
		cur = next
	}
	return false, nil
}

// debit is the single critical section of a payment attempt.
func (a *Account) debit(amount decimal.Decimal) (decimal.Decimal, []Subscriber, *Account, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.balance.LessThan(amount) {
		return a.balance, nil, a.fallback, false
	}
	a.balance = a.balance.Sub(amount)

	subs := make([]Subscriber, len(a.subscribers))
	copy(subs, a.subscribers)
	return a.balance, subs, a.fallback, true
}
