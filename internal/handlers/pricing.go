package handlers

import (
	"strconv"

	"github.com/cargolink/cargolink-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetBookingQuote returns the commission/tax breakdown for a booking amount
// under the active platform configuration
func GetBookingQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		amountStr := c.Query("amount")
		if amountStr == "" {
			c.JSON(400, gin.H{"error": "amount query parameter required"})
			return
		}

		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil || amount <= 0 {
			c.JSON(400, gin.H{"error": "Invalid amount"})
			return
		}

		cfg := getActiveConfig(c.Request.Context(), db)

		if !utils.WithinBookingLimits(amount, cfg) {
			c.JSON(400, gin.H{"error": "Amount is outside the allowed booking range"})
			return
		}

		c.JSON(200, utils.CalculateBookingQuote(amount, cfg))
	}
}
