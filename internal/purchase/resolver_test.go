package purchase

import (
	"cashback-chain/internal/account"
	"cashback-chain/internal/cashback"
	"cashback-chain/internal/domain"
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type MockPayer struct {
	mock.Mock
}

func (m *MockPayer) Pay(amount decimal.Decimal) (bool, error) {
	args := m.Called(amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayer) Describe() string { return "mock" }

func newResolver(t *testing.T) (*Resolver, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r, err := NewResolver(mp.Meter("test"), noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, err)
	return r, reader
}

func countsByOutcome(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "purchases_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key("outcome"))
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func car(price int64) *domain.Car {
	return &domain.Car{Manufacturer: domain.Mercedes, Model: "L4200", Year: 2026, Category: domain.Luxury, ListPrice: d(price)}
}

func TestPurchase_Purchased(t *testing.T) {
	// Arrange
	r, reader := newResolver(t)
	payer := new(MockPayer)
	payer.On("Pay", d(27500)).Return(true, nil)

	// Act
	outcome, err := r.Purchase(context.Background(), car(27500), payer)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Purchased, outcome)
	assert.NoError(t, outcome.Err())
	payer.AssertExpectations(t)
	assert.Equal(t, map[string]int64{"purchased": 1}, countsByOutcome(t, reader))
}

func TestPurchase_PaymentFailed(t *testing.T) {
	r, _ := newResolver(t)
	payer := new(MockPayer)
	payer.On("Pay", d(500)).Return(false, nil)

	outcome, err := r.Purchase(context.Background(), car(500), payer)

	require.NoError(t, err)
	assert.Equal(t, PaymentFailed, outcome)
	assert.ErrorIs(t, outcome.Err(), ErrPaymentFailed)
}

func TestPurchase_NotForSaleSkipsPayment(t *testing.T) {
	r, reader := newResolver(t)

	for _, price := range []string{"0", "0.99", "-10"} {
		payer := new(MockPayer)
		item := car(0)
		item.SetPrice(decimal.RequireFromString(price))

		outcome, err := r.Purchase(context.Background(), item, payer)

		require.NoError(t, err, price)
		assert.Equal(t, NotForSale, outcome, price)
		assert.ErrorIs(t, outcome.Err(), ErrNotForSale)
		payer.AssertNotCalled(t, "Pay", mock.Anything)
	}
	assert.Equal(t, map[string]int64{"rejected_not_for_sale": 3}, countsByOutcome(t, reader))
}

func TestPurchase_ChainErrorIsReturned(t *testing.T) {
	r, _ := newResolver(t)
	payer := new(MockPayer)
	broken := fmt.Errorf("pay 10 via Bank: %w", account.ErrChainCycle)
	payer.On("Pay", d(10)).Return(false, broken)

	outcome, err := r.Purchase(context.Background(), car(10), payer)

	assert.ErrorIs(t, err, account.ErrChainCycle)
	assert.Equal(t, Failed, outcome)
	assert.NoError(t, outcome.Err())
}

func TestPurchase_ChainScenario(t *testing.T) {
	for _, tc := range []struct {
		strategy cashback.Strategy
		bitcoin  int64
	}{
		{cashback.Low, 34254},
		{cashback.High, 39126},
	} {
		t.Run(tc.strategy.Name(), func(t *testing.T) {
			// Arrange
			r, _ := newResolver(t)
			sub := cashback.NewSubscriber(tc.strategy)
			bank := account.New(domain.Bank, d(3000))
			paypal := account.New(domain.Paypal, d(24800))
			bitcoin := account.New(domain.Bitcoin, d(82000))
			require.NoError(t, bank.SetFallback(paypal))
			require.NoError(t, paypal.SetFallback(bitcoin))
			for _, acc := range []*account.Account{bank, paypal, bitcoin} {
				acc.Subscribe(sub)
			}

			// Act
			outcome, err := r.Purchase(context.Background(), car(48720), bank)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, Purchased, outcome)
			assert.True(t, bank.Balance().Equal(d(3000)))
			assert.True(t, paypal.Balance().Equal(d(24800)))
			assert.True(t, bitcoin.Balance().Equal(d(tc.bitcoin)), bitcoin.Balance().String())
		})
	}
}

func TestPurchase_ZeroPriceFiresNoNotification(t *testing.T) {
	r, _ := newResolver(t)
	acc := account.New(domain.Bank, d(1000))
	fired := 0
	acc.Subscribe(account.SubscriberFunc(func(account.RebateEvent) { fired++ }))

	outcome, err := r.Purchase(context.Background(), car(0), acc)

	require.NoError(t, err)
	assert.Equal(t, NotForSale, outcome)
	assert.Zero(t, fired)
	assert.True(t, acc.Balance().Equal(d(1000)))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "purchased", Purchased.String())
	assert.Equal(t, "rejected_not_for_sale", NotForSale.String())
	assert.Equal(t, "rejected_payment_failed", PaymentFailed.String())
	assert.Equal(t, "failed", Failed.String())
}
