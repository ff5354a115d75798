// internal/handler/dto.go
package handler

import (
	"cashback-chain/internal/account"
	"cashback-chain/internal/domain"
	"fmt"
	"strings"

	val "cashback-chain/internal/validator"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// === DTO ===

type OpenAccountRequest struct {
	Kind    string `json:"kind" validate:"required,accountkind"`
	Balance string `json:"balance" validate:"required,amount"`
}

type DepositRequest struct {
	Amount string `json:"amount" validate:"required,amount"`
}

type FallbackRequest struct {
	FallbackID string `json:"fallback_id" validate:"required,uuid"`
}

type PurchaseRequest struct {
	AccountID    string `json:"account_id" validate:"required,uuid"`
	Manufacturer string `json:"manufacturer" validate:"required,manufacturer"`
	Category     string `json:"category" validate:"required,category"`
	Price        string `json:"price" validate:"required,amount"`
}

type StrategyRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

type ProfileRequest struct {
	Name    string `json:"name" validate:"required,notblank"`
	RateBps *int   `json:"rate_bps" validate:"required,gte=0,lte=10000"`
}

type AccountResponse struct {
	ID         uuid.UUID          `json:"id"`
	Kind       domain.AccountKind `json:"kind"`
	Balance    decimal.Decimal    `json:"balance"`
	FallbackID *uuid.UUID         `json:"fallback_id,omitempty"`
}

type PurchaseResponse struct {
	Outcome string            `json:"outcome"`
	Car     *domain.Car       `json:"car,omitempty"`
	Chain   []AccountResponse `json:"chain"`
}

type StrategyResponse struct {
	Name        string          `json:"name"`
	RateBps     int             `json:"rate_bps"`
	RatePercent decimal.Decimal `json:"rate_percent"`
}

func toAccountResponse(acc *account.Account) AccountResponse {
	resp := AccountResponse{ID: acc.ID(), Kind: acc.Kind(), Balance: acc.Balance()}
	if next := acc.Fallback(); next != nil {
		id := next.ID()
		resp.FallbackID = &id
	}
	return resp
}

// chainOf lists the accounts reachable from entry, entry first.
func chainOf(entry *account.Account) []AccountResponse {
	var out []AccountResponse
	seen := make(map[*account.Account]bool)
	for cur := entry; cur != nil && !seen[cur]; cur = cur.Fallback() {
		seen[cur] = true
		out = append(out, toAccountResponse(cur))
	}
	return out
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var errs []string
		for _, e := range err.(validator.ValidationErrors) {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "amount":
		return fmt.Sprintf("%s must be a non-negative decimal", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a UUID", e.Field())
	case "accountkind", "manufacturer", "category":
		return fmt.Sprintf("%s %q is not supported", e.Field(), e.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 10000", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
