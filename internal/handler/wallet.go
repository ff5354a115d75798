// internal/handler/wallet.go
package handler

import (
	"cashback-chain/internal/account"
	"cashback-chain/internal/cashback"
	"cashback-chain/internal/catalog"
	"cashback-chain/internal/domain"
	"cashback-chain/internal/purchase"
	"cashback-chain/internal/storage"
	"cashback-chain/internal/wallet"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	wallet   *wallet.Wallet
	registry *cashback.Registry
	store    storage.ProfileStorage
}

func NewWalletHandler(w *wallet.Wallet, registry *cashback.Registry, store storage.ProfileStorage) *WalletHandler {
	return &WalletHandler{wallet: w, registry: registry, store: store}
}

// errorStatus maps domain errors to HTTP codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, account.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrChainCycle):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNoFactory), errors.Is(err, catalog.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wallet.ErrUnknownProfile):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *WalletHandler) accountFromPath(c *gin.Context) (*account.Account, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return nil, false
	}
	acc, err := h.wallet.Account(id)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return acc, true
}

// OpenAccount godoc
// @Summary Open a payment account
// @Param request body OpenAccountRequest true "Account kind and opening balance"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/accounts [post]
func (h *WalletHandler) OpenAccount(c *gin.Context) {
	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, _ := domain.ParseAccountKind(req.Kind)
	balance := decimal.RequireFromString(req.Balance)

	acc, err := h.wallet.Open(kind, balance)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	slog.Info("Account opened", "account_id", acc.ID(), "kind", kind, "balance", balance)
	c.JSON(http.StatusCreated, toAccountResponse(acc))
}

// ListAccounts godoc
// @Success 200 {array} AccountResponse
// @Router /api/v1/accounts [get]
func (h *WalletHandler) ListAccounts(c *gin.Context) {
	accounts := h.wallet.Accounts()
	out := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, toAccountResponse(acc))
	}
	c.JSON(http.StatusOK, out)
}

// GetAccount godoc
// @Param id path string true "Account ID"
// @Success 200 {object} AccountResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/accounts/{id} [get]
func (h *WalletHandler) GetAccount(c *gin.Context) {
	acc, ok := h.accountFromPath(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acc))
}

// Deposit godoc
// @Param id path string true "Account ID"
// @Param request body DepositRequest true "Amount"
// @Success 200 {object} AccountResponse
// @Router /api/v1/accounts/{id}/deposit [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	acc, ok := h.accountFromPath(c)
	if !ok {
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.wallet.Deposit(acc.ID(), decimal.RequireFromString(req.Amount)); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acc))
}

// SetFallback godoc
// @Summary Link the next account of the payment chain
// @Param id path string true "Account ID"
// @Param request body FallbackRequest true "Fallback account"
// @Success 200 {object} AccountResponse
// @Failure 409 {object} map[string]string
// @Router /api/v1/accounts/{id}/fallback [put]
func (h *WalletHandler) SetFallback(c *gin.Context) {
	acc, ok := h.accountFromPath(c)
	if !ok {
		return
	}

	var req FallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.wallet.Link(acc.ID(), uuid.MustParse(req.FallbackID)); err != nil {
		slog.Warn("SetFallback failed", "error", err, "account_id", acc.ID(), "fallback_id", req.FallbackID)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acc))
}

// ClearFallback godoc
// @Param id path string true "Account ID"
// @Success 200 {object} AccountResponse
// @Router /api/v1/accounts/{id}/fallback [delete]
func (h *WalletHandler) ClearFallback(c *gin.Context) {
	acc, ok := h.accountFromPath(c)
	if !ok {
		return
	}
	if err := h.wallet.Unlink(acc.ID()); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acc))
}

// Purchase godoc
// @Summary Buy a car with a payment chain
// @Param request body PurchaseRequest true "Entry account and car"
// @Success 200 {object} PurchaseResponse
// @Failure 402 {object} PurchaseResponse
// @Failure 422 {object} PurchaseResponse
// @Router /api/v1/purchases [post]
func (h *WalletHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.wallet.Account(uuid.MustParse(req.AccountID))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	m, _ := domain.ParseManufacturer(req.Manufacturer)
	cat, _ := domain.ParseCategory(req.Category)
	price := decimal.RequireFromString(req.Price)

	car, outcome, err := h.wallet.Buy(c.Request.Context(), entry.ID(), m, cat, price)
	if err != nil {
		slog.Error("Purchase failed", "error", err, "account_id", entry.ID(), "price", price)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	switch outcome {
	case purchase.NotForSale:
		status = http.StatusUnprocessableEntity
	case purchase.PaymentFailed:
		status = http.StatusPaymentRequired
	}

	c.JSON(status, PurchaseResponse{
		Outcome: outcome.String(),
		Car:     car,
		Chain:   chainOf(entry),
	})
}

// ListCars godoc
// @Summary Most recently manufactured cars, oldest first
// @Success 200 {array} domain.Car
// @Router /api/v1/cars [get]
func (h *WalletHandler) ListCars(c *gin.Context) {
	c.JSON(http.StatusOK, h.wallet.Manufactured())
}
