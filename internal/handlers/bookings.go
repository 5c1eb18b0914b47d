package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/cargolink/cargolink-backend/internal/services"
	"github.com/cargolink/cargolink-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateBooking handles the creation of a new booking request
func CreateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

		var input struct {
			ProviderCompanyID uint      `json:"providerCompanyId" binding:"required"`
			VehicleID         *uint     `json:"vehicleId"`
			ShipmentID        *uint     `json:"shipmentId"`
			StartDate         time.Time `json:"startDate" binding:"required"`
			EndDate           time.Time `json:"endDate" binding:"required"`
			TotalAmount       float64   `json:"totalAmount" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		cfg := getActiveConfig(c.Request.Context(), db)
		if cfg.MaintenanceMode {
			c.JSON(503, gin.H{"error": "Platform is under maintenance"})
			return
		}
		if !cfg.BookingsEnabled {
			c.JSON(403, gin.H{"error": "Bookings are currently disabled"})
			return
		}

		if (input.VehicleID == nil) == (input.ShipmentID == nil) {
			c.JSON(400, gin.H{"error": "Exactly one of vehicleId or shipmentId must be set"})
			return
		}
		if input.ProviderCompanyID == companyId {
			c.JSON(400, gin.H{"error": "Cannot book your own resources"})
			return
		}
		if !input.EndDate.After(input.StartDate) {
			c.JSON(400, gin.H{"error": "End date must be after start date"})
			return
		}
		if input.StartDate.Before(time.Now()) {
			c.JSON(400, gin.H{"error": "Start date cannot be in the past"})
			return
		}
		if !utils.WithinBookingLimits(input.TotalAmount, cfg) {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Amount must be between %.2f and %.2f %s",
				cfg.MinBookingAmount, cfg.MaxBookingAmount, cfg.Currency)})
			return
		}

		var provider models.Company
		if err := db.First(&provider, input.ProviderCompanyID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Provider company not found"})
			return
		}

		if cfg.GeoRestrictionsEnabled {
			var requester models.Company
			if err := db.First(&requester, companyId).Error; err != nil {
				c.JSON(404, gin.H{"error": "Company not found"})
				return
			}

			// Each PUT replaces the restriction set, so only the newest set is
			// consulted; regions absent from it are unrestricted
			var latest models.GeographicRestriction
			if err := db.Order("config_version DESC").First(&latest).Error; err == nil {
				var restriction models.GeographicRestriction
				err := db.Where("config_version = ? AND region_code = ?",
					latest.ConfigVersion, requester.RegionCode).First(&restriction).Error
				if err == nil && restriction.Restricted {
					c.JSON(403, gin.H{"error": "Bookings are not available in your region"})
					return
				}
			}
		}

		if input.VehicleID != nil {
			var vehicle models.Vehicle
			if err := db.First(&vehicle, *input.VehicleID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Vehicle not found"})
				return
			}
			if vehicle.CompanyID != input.ProviderCompanyID {
				c.JSON(400, gin.H{"error": "Vehicle does not belong to the provider"})
				return
			}
			if !vehicle.IsBookable() {
				c.JSON(400, gin.H{"error": "Vehicle is not available"})
				return
			}
		} else {
			var shipment models.Shipment
			if err := db.First(&shipment, *input.ShipmentID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Shipment not found"})
				return
			}
			if shipment.CompanyID != input.ProviderCompanyID {
				c.JSON(400, gin.H{"error": "Shipment does not belong to the provider"})
				return
			}
			if !shipment.IsBookable() {
				c.JSON(400, gin.H{"error": "Shipment is not open for booking"})
				return
			}
		}

		// Charges are snapshotted from the config active at creation time
		quote := utils.CalculateBookingQuote(input.TotalAmount, cfg)

		booking := models.Booking{
			Reference:          fmt.Sprintf("BKG-%s", strings.ToUpper(uuid.NewString()[:8])),
			RequesterCompanyID: companyId,
			ProviderCompanyID:  input.ProviderCompanyID,
			VehicleID:          input.VehicleID,
			ShipmentID:         input.ShipmentID,
			StartDate:          input.StartDate,
			EndDate:            input.EndDate,
			TotalAmount:        quote.Amount,
			PlatformFee:        quote.PlatformFee,
			TaxAmount:          quote.TaxAmount,
			Currency:           quote.Currency,
			Status:             models.BookingStatusPending,
		}

		if err := db.Create(&booking).Error; err != nil {
			logrus.WithError(err).Error("failed to create booking")
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		c.JSON(201, booking)
	}
}

// GetMyBookings retrieves bookings where the company is requester or provider
func GetMyBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

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

		var bookings []models.Booking
		if err := db.Where("requester_company_id = ? OR provider_company_id = ?", companyId, companyId).
			Preload("RequesterCompany").
			Preload("ProviderCompany").
			Preload("Vehicle").
			Preload("Shipment").
			Order("created_at DESC").
			Offset(offset).
			Limit(limit).
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		var total int64
		db.Model(&models.Booking{}).
			Where("requester_company_id = ? OR provider_company_id = ?", companyId, companyId).
			Count(&total)

		c.JSON(200, gin.H{
			"bookings": bookings,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": (total + int64(limit) - 1) / int64(limit),
			},
		})
	}
}

// GetBooking retrieves detailed booking information for a party
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		companyId := c.GetUint("companyId")

		var booking models.Booking
		if err := db.Preload("RequesterCompany").
			Preload("ProviderCompany").
			Preload("Vehicle").
			Preload("Shipment").
			First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.IsParty(companyId) {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		c.JSON(200, booking)
	}
}

// UpdateBookingStatus transitions a booking and cascades the resource status.
// The booking update and the vehicle/shipment flip commit in one transaction.
func UpdateBookingStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		companyId := c.GetUint("companyId")

		var input struct {
			Status string `json:"status" binding:"required,oneof=accepted rejected cancelled completed"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !booking.IsParty(companyId) {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		newStatus := models.BookingStatus(input.Status)
		prevStatus := booking.Status

		if !models.CanTransition(prevStatus, newStatus) {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Cannot transition booking from %s to %s", prevStatus, newStatus)})
			return
		}

		// Accept, reject and complete are provider decisions; either party may cancel
		if newStatus != models.BookingStatusCancelled && booking.ProviderCompanyID != companyId {
			c.JSON(403, gin.H{"error": "Only the provider can perform this transition"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			booking.Status = newStatus
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}

			switch newStatus {
			case models.BookingStatusAccepted:
				return setResourceStatus(tx, &booking,
					models.VehicleStatusBooked, models.ShipmentStatusBooked)
			case models.BookingStatusCompleted:
				return setResourceStatus(tx, &booking,
					models.VehicleStatusAvailable, models.ShipmentStatusDelivered)
			case models.BookingStatusCancelled:
				if prevStatus == models.BookingStatusAccepted {
					return setResourceStatus(tx, &booking,
						models.VehicleStatusAvailable, models.ShipmentStatusOpen)
				}
			}
			return nil
		})
		if err != nil {
			logrus.WithError(err).WithField("bookingId", booking.ID).Error("failed to update booking status")
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		// Post-commit effects are best-effort
		if err := services.PublishBookingEvent(c.Request.Context(), booking.ID, booking.Reference,
			string(newStatus), companyId); err != nil {
			logrus.WithError(err).Warn("failed to publish booking event")
		}

		if hub != nil {
			hub.SendBookingStatusEvent(services.BookingStatusEvent{
				BookingID:       booking.ID,
				Reference:       booking.Reference,
				Status:          string(newStatus),
				ActingCompanyID: companyId,
			}, booking.RequesterCompanyID, booking.ProviderCompanyID)
		}

		c.JSON(200, booking)
	}
}

// setResourceStatus flips the booked vehicle or shipment inside the booking
// transaction
func setResourceStatus(tx *gorm.DB, booking *models.Booking, vehicleStatus models.VehicleStatus, shipmentStatus models.ShipmentStatus) error {
	if booking.VehicleID != nil {
		return tx.Model(&models.Vehicle{}).
			Where("id = ?", *booking.VehicleID).
			Update("status", vehicleStatus).Error
	}
	if booking.ShipmentID != nil {
		return tx.Model(&models.Shipment{}).
			Where("id = ?", *booking.ShipmentID).
			Update("status", shipmentStatus).Error
	}
	return nil
}
