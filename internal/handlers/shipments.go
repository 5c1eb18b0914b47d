package handlers

import (
	"fmt"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateShipment publishes cargo capacity to the marketplace
func CreateShipment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

		var input struct {
			Origin      string  `json:"origin" binding:"required"`
			Destination string  `json:"destination" binding:"required"`
			CargoDesc   string  `json:"cargoDescription"`
			WeightTons  float64 `json:"weightTons" binding:"required"`
			OfferPrice  float64 `json:"offerPrice" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.WeightTons <= 0 {
			c.JSON(400, gin.H{"error": "Weight must be positive"})
			return
		}
		if input.OfferPrice <= 0 {
			c.JSON(400, gin.H{"error": "Offer price must be positive"})
			return
		}

		shipment := models.Shipment{
			CompanyID:   companyId,
			Reference:   fmt.Sprintf("SHP-%s", uuid.NewString()[:8]),
			Origin:      input.Origin,
			Destination: input.Destination,
			CargoDesc:   input.CargoDesc,
			WeightTons:  input.WeightTons,
			OfferPrice:  input.OfferPrice,
			Status:      models.ShipmentStatusOpen,
		}

		if err := db.Create(&shipment).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create shipment"})
			return
		}

		c.JSON(201, shipment)
	}
}

// GetOpenShipments lists bookable shipments for the marketplace view
func GetOpenShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var shipments []models.Shipment
		if err := db.Where("status = ?", models.ShipmentStatusOpen).
			Preload("Company").
			Find(&shipments).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		c.JSON(200, shipments)
	}
}

// GetCompanyShipments lists the authenticated company's own shipments
func GetCompanyShipments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

		var shipments []models.Shipment
		if err := db.Where("company_id = ?", companyId).Find(&shipments).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shipments"})
			return
		}

		c.JSON(200, shipments)
	}
}

// UpdateShipmentStatus lets the owner move an unbooked shipment between
// open, in_transit, delivered and cancelled. Booked is set by the booking flow.
func UpdateShipmentStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentId := c.Param("id")
		companyId := c.GetUint("companyId")

		var input struct {
			Status string `json:"status" binding:"required,oneof=open in_transit delivered cancelled"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var shipment models.Shipment
		if err := db.First(&shipment, shipmentId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shipment not found"})
			return
		}

		if shipment.CompanyID != companyId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		if shipment.Status.IsTerminal() {
			c.JSON(400, gin.H{"error": "Shipment is in a terminal status"})
			return
		}

		if shipment.Status == models.ShipmentStatusBooked {
			c.JSON(400, gin.H{"error": "Shipment is currently booked"})
			return
		}

		shipment.Status = models.ShipmentStatus(input.Status)
		if err := db.Save(&shipment).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update shipment status"})
			return
		}

		c.JSON(200, shipment)
	}
}
