// internal/handler/cashback.go
package handler

import (
	"cashback-chain/internal/cashback"
	"cashback-chain/internal/domain"
	"cashback-chain/internal/storage"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func toStrategyResponse(s cashback.Strategy) StrategyResponse {
	return StrategyResponse{Name: s.Name(), RateBps: s.BasisPoints(), RatePercent: s.DisplayRate()}
}

// GetStrategy godoc
// @Summary Active cashback strategy
// @Success 200 {object} StrategyResponse
// @Router /api/v1/cashback/strategy [get]
func (h *WalletHandler) GetStrategy(c *gin.Context) {
	c.JSON(http.StatusOK, toStrategyResponse(h.wallet.Strategy()))
}

// SetStrategy godoc
// @Summary Switch the cashback strategy for future payments
// @Param request body StrategyRequest true "Profile name"
// @Success 200 {object} StrategyResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/cashback/strategy [put]
func (h *WalletHandler) SetStrategy(c *gin.Context) {
	var req StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategy, err := h.wallet.SetStrategy(req.Name)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toStrategyResponse(strategy))
}

// ListObservations godoc
// @Summary Recently issued rebates
// @Success 200 {array} cashback.Observation
// @Router /api/v1/cashback/observations [get]
func (h *WalletHandler) ListObservations(c *gin.Context) {
	c.JSON(http.StatusOK, h.wallet.Observations())
}

// ListProfiles godoc
// @Summary Known cashback profiles
// @Success 200 {array} StrategyResponse
// @Router /api/v1/cashback/profiles [get]
func (h *WalletHandler) ListProfiles(c *gin.Context) {
	names := h.wallet.Profiles()
	out := make([]StrategyResponse, 0, len(names))
	for _, name := range names {
		if s, ok := h.registry.Lookup(name); ok {
			out = append(out, toStrategyResponse(s))
		}
	}
	c.JSON(http.StatusOK, out)
}

// SaveProfile godoc
// @Summary Create or update a cashback profile
// @Param request body ProfileRequest true "Profile"
// @Success 200 {object} StrategyResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/cashback/profiles [put]
func (h *WalletHandler) SaveProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate, err := cashback.FromBasisPoints(req.Name, *req.RateBps)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := domain.CashbackProfile{Name: rate.Name(), RateBps: *req.RateBps}
	if err := h.store.SaveProfile(c.Request.Context(), profile); err != nil {
		slog.Error("Failed to save profile", "error", err, "name", profile.Name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}
	h.registry.Register(rate)

	slog.Info("Profile saved", "name", profile.Name, "rate_bps", profile.RateBps)
	c.JSON(http.StatusOK, toStrategyResponse(rate))
}

// DeleteProfile godoc
// @Summary Remove a stored cashback profile
// @Param name path string true "Profile name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/cashback/profiles/{name} [delete]
func (h *WalletHandler) DeleteProfile(c *gin.Context) {
	name := domain.NormalizeProfileName(c.Param("name"))
	if cashback.IsBuiltin(name) {
		c.JSON(http.StatusConflict, gin.H{"error": cashback.ErrBuiltinProfile.Error()})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.store.FindProfile(ctx, name)
	if err != nil {
		slog.Error("Failed to find profile", "error", err, "name", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": storage.ErrProfileNotFound.Error()})
		return
	}

	if err := h.store.DeleteProfile(ctx, name); err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Failed to delete profile", "error", err, "name", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
		return
	}
	h.registry.Unregister(name)

	slog.Info("Profile deleted", "name", name)
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}
