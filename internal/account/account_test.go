package account

import (
	"cashback-chain/internal/domain"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type recorder struct {
	events []RebateEvent
	seen   []decimal.Decimal // balance of the paying account at notification time
}

func (r *recorder) OnRebateEvent(ev RebateEvent) {
	r.events = append(r.events, ev)
	r.seen = append(r.seen, ev.Account.Balance())
}

func TestPay_SufficientBalance(t *testing.T) {
	// Arrange
	acc := New(domain.Bank, d(38000))
	rec := &recorder{}
	acc.Subscribe(rec)

	// Act
	ok, err := acc.Pay(d(27500))

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, acc.Balance().Equal(d(10500)))
	require.Len(t, rec.events, 1)
	assert.Same(t, acc, rec.events[0].Account)
	assert.True(t, rec.events[0].SpentAmount.Equal(d(27500)))
	assert.True(t, rec.seen[0].Equal(d(10500)), "subscriber must see the debited balance")
}

func TestPay_ExactBalance(t *testing.T) {
	acc := New(domain.Paypal, d(100))

	ok, err := acc.Pay(d(100))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, acc.Balance().IsZero())
}

func TestPay_FallsBackToFirstSufficientAccount(t *testing.T) {
	// Arrange
	bank := New(domain.Bank, d(3000))
	paypal := New(domain.Paypal, d(24800))
	bitcoin := New(domain.Bitcoin, d(82000))
	require.NoError(t, bank.SetFallback(paypal))
	require.NoError(t, paypal.SetFallback(bitcoin))

	bankRec, paypalRec, bitcoinRec := &recorder{}, &recorder{}, &recorder{}
	bank.Subscribe(bankRec)
	paypal.Subscribe(paypalRec)
	bitcoin.Subscribe(bitcoinRec)

	// Act
	ok, err := bank.Pay(d(48720))

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, bank.Balance().Equal(d(3000)))
	assert.True(t, paypal.Balance().Equal(d(24800)))
	assert.True(t, bitcoin.Balance().Equal(d(33280)))
	assert.Empty(t, bankRec.events)
	assert.Empty(t, paypalRec.events)
	require.Len(t, bitcoinRec.events, 1)
	assert.Same(t, bitcoin, bitcoinRec.events[0].Account)
}

func TestPay_WholeChainInsufficient(t *testing.T) {
	bank := New(domain.Bank, d(10))
	paypal := New(domain.Paypal, d(20))
	require.NoError(t, bank.SetFallback(paypal))
	rec := &recorder{}
	bank.Subscribe(rec)
	paypal.Subscribe(rec)

	ok, err := bank.Pay(d(25))

	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, bank.Balance().Equal(d(10)))
	assert.True(t, paypal.Balance().Equal(d(20)))
	assert.Empty(t, rec.events)
}

func TestPay_NegativeAmount(t *testing.T) {
	bank := New(domain.Bank, d(0))
	paypal := New(domain.Paypal, d(100))
	require.NoError(t, bank.SetFallback(paypal))
	rec := &recorder{}
	paypal.Subscribe(rec)

	ok, err := bank.Pay(d(-5))

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.False(t, ok)
	assert.True(t, bank.Balance().IsZero())
	assert.True(t, paypal.Balance().Equal(d(100)))
	assert.Empty(t, rec.events)
}

func TestPay_NotifiesInRegistrationOrder(t *testing.T) {
	acc := New(domain.Bank, d(50))
	var order []string
	acc.Subscribe(SubscriberFunc(func(RebateEvent) { order = append(order, "first") }))
	acc.Subscribe(SubscriberFunc(func(RebateEvent) { order = append(order, "second") }))
	acc.Subscribe(SubscriberFunc(func(RebateEvent) { order = append(order, "third") }))

	ok, err := acc.Pay(d(5))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSetFallback_RefusesCycle(t *testing.T) {
	a := New(domain.Bank, d(1))
	b := New(domain.Paypal, d(1))
	c := New(domain.Bitcoin, d(1))
	require.NoError(t, a.SetFallback(b))
	require.NoError(t, b.SetFallback(c))

	err := c.SetFallback(a)
	assert.ErrorIs(t, err, ErrChainCycle)
	assert.Nil(t, c.Fallback())

	assert.ErrorIs(t, a.SetFallback(a), ErrChainCycle)
	assert.Same(t, b, a.Fallback())
}

func TestSetFallback_NilClearsLink(t *testing.T) {
	a := New(domain.Bank, d(0))
	b := New(domain.Paypal, d(10))
	require.NoError(t, a.SetFallback(b))
	require.NoError(t, a.SetFallback(nil))

	ok, err := a.Pay(d(5))

	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, b.Balance().Equal(d(10)))
}

func TestPay_DetectsCycleDuringTraversal(t *testing.T) {
	// SetFallback refuses loops, so build one behind its back.
	a := New(domain.Bank, d(0))
	b := New(domain.Paypal, d(0))
	a.fallback = b
	b.fallback = a

	ok, err := a.Pay(d(1))

	assert.ErrorIs(t, err, ErrChainCycle)
	assert.False(t, ok)
}

func TestSetFallback_RefusesLinkIntoExistingLoop(t *testing.T) {
	a := New(domain.Bank, d(0))
	b := New(domain.Paypal, d(0))
	c := New(domain.Bitcoin, d(0))
	b.fallback = c
	c.fallback = b

	err := a.SetFallback(b)

	assert.ErrorIs(t, err, ErrChainCycle)
	assert.Nil(t, a.Fallback())
}

func TestAddToBalance(t *testing.T) {
	acc := New(domain.Bitcoin, d(33280))

	acc.AddToBalance(d(974))

	assert.True(t, acc.Balance().Equal(d(34254)))
}

func TestPay_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	acc := New(domain.Bank, d(100))
	var wg sync.WaitGroup
	var mu sync.Mutex
	paid := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := acc.Pay(d(3))
			if err == nil && ok {
				mu.Lock()
				paid++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 33, paid)
	assert.True(t, acc.Balance().Equal(d(1)))
	assert.False(t, acc.Balance().IsNegative())
}

func TestDescribe(t *testing.T) {
	acc := New(domain.Paypal, d(0))
	assert.Equal(t, "Paypal", acc.Describe())
	assert.Equal(t, domain.Paypal, acc.Kind())
	assert.NotEqual(t, acc.ID(), New(domain.Paypal, d(0)).ID())
}
