// internal/cashback/subscriber.go
package cashback

import (
	"cashback-chain/internal/account"
	"cashback-chain/internal/domain"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxObservations = 100

// Observation is one issued rebate, kept for reporting.
type Observation struct {
	AccountID   uuid.UUID          `json:"account_id"`
	Kind        domain.AccountKind `json:"kind"`
	Spent       decimal.Decimal    `json:"spent"`
	Rebate      decimal.Decimal    `json:"rebate"`
	RatePercent decimal.Decimal    `json:"rate_percent"`
	Strategy    string             `json:"strategy"`
}

type slot struct{ Strategy }

// Subscriber credits a rebate back to every account that pays, using the
// strategy active at notification time.
type Subscriber struct {
	active atomic.Pointer[slot]

	mu           sync.Mutex
	observations []Observation
}

var _ account.Subscriber = (*Subscriber)(nil)

func NewSubscriber(initial Strategy) *Subscriber {
	s := &Subscriber{}
	s.SetActiveStrategy(initial)
	return s
}

// SetActiveStrategy affects future notifications only.
func (s *Subscriber) SetActiveStrategy(strategy Strategy) {
	s.active.Store(&slot{strategy})
	slog.Info("cashback strategy switched", "strategy", strategy.Name(), "rate", strategy.DisplayRate())
}

func (s *Subscriber) ActiveStrategy() Strategy {
	return s.active.Load().Strategy
}

func (s *Subscriber) OnRebateEvent(ev account.RebateEvent) {
	strategy := s.ActiveStrategy()
	rebate := strategy.Rebate(ev.SpentAmount)
	ev.Account.AddToBalance(rebate)

	s.record(Observation{
		AccountID:   ev.Account.ID(),
		Kind:        ev.Account.Kind(),
		Spent:       ev.SpentAmount,
		Rebate:      rebate,
		RatePercent: strategy.DisplayRate(),
		Strategy:    strategy.Name(),
	})

	slog.Info("cashback issued",
		"account_id", ev.Account.ID(),
		"kind", ev.Account.Kind(),
		"amount", ev.SpentAmount,
		"rate", strategy.DisplayRate(),
		"rebate", rebate,
	)
}

func (s *Subscriber) record(o Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.observations) == maxObservations {
		copy(s.observations, s.observations[1:])
		s.observations = s.observations[:maxObservations-1]
	}
	s.observations = append(s.observations, o)
}

// Observations returns the most recent rebates, oldest first.
func (s *Subscriber) Observations() []Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Observation, len(s.observations))
	copy(out, s.observations)
	return out
}
