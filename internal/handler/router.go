// internal/handler/router.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Routes mounts the wallet API on r. Mutations of cashback configuration go
// through operator.
func (h *WalletHandler) Routes(r gin.IRouter, operator gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/accounts", h.OpenAccount)
		api.GET("/accounts", h.ListAccounts)
		api.GET("/accounts/:id", h.GetAccount)
		api.POST("/accounts/:id/deposit", h.Deposit)
		api.PUT("/accounts/:id/fallback", h.SetFallback)
		api.DELETE("/accounts/:id/fallback", h.ClearFallback)

		api.POST("/purchases", h.Purchase)
		api.GET("/cars", h.ListCars)

		api.GET("/cashback/strategy", h.GetStrategy)
		api.GET("/cashback/observations", h.ListObservations)
		api.GET("/cashback/profiles", h.ListProfiles)
	}

	protected := api.Group("/cashback")
	protected.Use(operator)
	{
		protected.PUT("/strategy", h.SetStrategy)
		protected.PUT("/profiles", h.SaveProfile)
		protected.DELETE("/profiles/:name", h.DeleteProfile)
	}
}
