// internal/purchase/resolver.go
package purchase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotForSale    = errors.New("item is not for sale")
	ErrPaymentFailed = errors.New("payment failed")
)

type Outcome int

const (
	// Failed is returned together with a non-nil error.
	Failed Outcome = iota
	Purchased
	NotForSale
	PaymentFailed
)

func (o Outcome) String() string {
	switch o {
	case Purchased:
		return "purchased"
	case NotForSale:
		return "rejected_not_for_sale"
	case PaymentFailed:
		return "rejected_payment_failed"
	default:
		return "failed"
	}
}

// Err maps a rejection to its sentinel error; nil for Purchased and Failed.
func (o Outcome) Err() error {
	switch o {
	case NotForSale:
		return ErrNotForSale
	case PaymentFailed:
		return ErrPaymentFailed
	default:
		return nil
	}
}

var minPrice = decimal.NewFromInt(1)

// Purchasable is anything with a price.
type Purchasable interface {
	Price() decimal.Decimal
	Describe() string
}

// Payer is the entry point of a payment chain.
type Payer interface {
	Pay(amount decimal.Decimal) (bool, error)
	Describe() string
}

type Resolver struct {
	tracer    trace.Tracer
	purchases metric.Int64Counter
}

func NewResolver(meter metric.Meter, tracer trace.Tracer) (*Resolver, error) {
	purchases, err := meter.Int64Counter("purchases_total",
		metric.WithDescription("Purchase attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}
	return &Resolver{tracer: tracer, purchases: purchases}, nil
}

// Purchase asks payer to pay the item's price. Rejections are outcomes;
// the error is non-nil only when the payment chain itself is broken.
func (r *Resolver) Purchase(ctx context.Context, item Purchasable, payer Payer) (Outcome, error) {
	ctx, span := r.tracer.Start(ctx, "purchase")
	defer span.End()

	price := item.Price()
	span.SetAttributes(
		attribute.String("item", item.Describe()),
		attribute.String("price", price.String()),
		attribute.String("payer", payer.Describe()),
	)

	outcome, err := r.resolve(item, payer, price)

	span.SetAttributes(attribute.String("outcome", outcome.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	r.purchases.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
	return outcome, err
}

func (r *Resolver) resolve(item Purchasable, payer Payer, price decimal.Decimal) (Outcome, error) {
	if price.LessThan(minPrice) {
		slog.Info("can not be sold", "item", item.Describe(), "price", price)
		return NotForSale, nil
	}

	ok, err := payer.Pay(price)
	if err != nil {
		slog.Error("purchase aborted", "item", item.Describe(), "error", err)
		return Failed, err
	}
	if !ok {
		slog.Info("purchase failed", "item", item.Describe(), "price", price)
		return PaymentFailed, nil
	}

	slog.Info("purchased", "item", item.Describe(), "price", price)
	return Purchased, nil
}
