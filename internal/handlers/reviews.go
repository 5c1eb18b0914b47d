package handlers

import (
	"strconv"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateReview records a post-booking rating. The reviewee is always the
// other side of the booking; a company reviews a booking at most once.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

		var input struct {
			BookingID uint   `json:"bookingId" binding:"required"`
			Rating    int    `json:"rating" binding:"required"`
			Comment   string `json:"comment"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Rating < 1 || input.Rating > 5 {
			c.JSON(400, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}

		cfg := getActiveConfig(c.Request.Context(), db)
		if !cfg.ReviewsEnabled {
			c.JSON(403, gin.H{"error": "Reviews are currently disabled"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, input.BookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.IsParty(companyId) {
			c.JSON(403, gin.H{"error": "Only booking parties can leave a review"})
			return
		}

		if !booking.Status.IsTerminal() {
			c.JSON(400, gin.H{"error": "Booking must be completed, cancelled or rejected before reviewing"})
			return
		}

		var existing models.Review
		if err := db.Where("booking_id = ? AND reviewer_company_id = ?",
			booking.ID, companyId).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "You have already reviewed this booking"})
			return
		}

		review := models.Review{
			BookingID:         booking.ID,
			ReviewerCompanyID: companyId,
			RevieweeCompanyID: booking.Counterpart(companyId),
			Rating:            input.Rating,
			Comment:           input.Comment,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&review).Error; err != nil {
				return err
			}

			// Keep the reviewee's rating cache consistent with the reviews table
			var stats struct {
				Avg   float64
				Count int64
			}
			if err := tx.Model(&models.Review{}).
				Where("reviewee_company_id = ?", review.RevieweeCompanyID).
				Select("AVG(rating) as avg, COUNT(*) as count").
				Scan(&stats).Error; err != nil {
				return err
			}

			return tx.Model(&models.Company{}).
				Where("id = ?", review.RevieweeCompanyID).
				Updates(map[string]interface{}{
					"average_rating": stats.Avg,
					"review_count":   stats.Count,
				}).Error
		})
		if err != nil {
			logrus.WithError(err).Error("failed to create review")
			c.JSON(500, gin.H{"error": "Failed to create review"})
			return
		}

		c.JSON(201, review)
	}
}

// GetCompanyReviews lists reviews a company has received
func GetCompanyReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.Param("companyId")

		pageStr := c.DefaultQuery("page", "1")
		limitStr := c.DefaultQuery("limit", "10")

		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			page = 1
		}

		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			limit = 10
		}

		offset := (page - 1) * limit

		var reviews []models.Review
		if err := db.Where("reviewee_company_id = ?", companyId).
			Preload("ReviewerCompany").
			Order("created_at DESC").
			Offset(offset).
			Limit(limit).
			Find(&reviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		var total int64
		db.Model(&models.Review{}).Where("reviewee_company_id = ?", companyId).Count(&total)

		c.JSON(200, gin.H{
			"reviews": reviews,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": (total + int64(limit) - 1) / int64(limit),
			},
		})
	}
}

// GetBookingReviews lists the reviews on one booking for its parties
func GetBookingReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("bookingId")
		companyId := c.GetUint("companyId")

		var booking models.Booking
		if err := db.First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.IsParty(companyId) {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		var reviews []models.Review
		if err := db.Where("booking_id = ?", booking.ID).
			Preload("ReviewerCompany").
			Preload("RevieweeCompany").
			Find(&reviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		c.JSON(200, reviews)
	}
}
