// internal/cashback/strategy.go
package cashback

import (
	"cashback-chain/internal/domain"
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy turns a spent amount into a rebate.
type Strategy interface {
	Name() string
	// Rebate is floor(spent * rate); fractions are truncated, never rounded.
	Rebate(spent decimal.Decimal) decimal.Decimal
	// DisplayRate is the rate in percent, for reporting only.
	DisplayRate() decimal.Decimal
	// BasisPoints is the stored form of the rate: 1200 = 12%.
	BasisPoints() int
}

// Rate is a Strategy with a constant rate.
type Rate struct {
	name string
	rate decimal.Decimal
}

var (
	Low  = Rate{name: "low", rate: decimal.New(2, -2)}
	High = Rate{name: "high", rate: decimal.New(12, -2)}
)

var hundred = decimal.NewFromInt(100)

// FromBasisPoints builds a Rate from a stored profile: 1200 bps = 12%.
func FromBasisPoints(name string, bps int) (Rate, error) {
	name = domain.NormalizeProfileName(name)
	if name == "" {
		return Rate{}, fmt.Errorf("cashback profile name cannot be empty")
	}
	if bps < 0 || bps > 10000 {
		return Rate{}, fmt.Errorf("cashback rate must be between 0 and 10000 bps, got %d", bps)
	}
	return Rate{name: name, rate: decimal.New(int64(bps), -4)}, nil
}

func (r Rate) Name() string { return r.name }

func (r Rate) Rebate(spent decimal.Decimal) decimal.Decimal {
	return spent.Mul(r.rate).Floor()
}

func (r Rate) DisplayRate() decimal.Decimal {
	return r.rate.Mul(hundred)
}

func (r Rate) BasisPoints() int {
	return int(r.rate.Shift(4).IntPart())
}
