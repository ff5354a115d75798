// internal/account/event.go
package account

import "github.com/shopspring/decimal"

// RebateEvent says that Account has just paid SpentAmount.
type RebateEvent struct {
	Account     *Account
	SpentAmount decimal.Decimal
}

// Subscriber receives a RebateEvent after every successful payment of an
// account it is subscribed to.
type Subscriber interface {
	OnRebateEvent(ev RebateEvent)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(ev RebateEvent)

func (f SubscriberFunc) OnRebateEvent(ev RebateEvent) { f(ev) }
