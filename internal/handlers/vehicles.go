package handlers

import (
	"strconv"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateVehicle adds a vehicle to the authenticated company's fleet
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

		var input struct {
			PlateNumber  string  `json:"plateNumber" binding:"required"`
			Make         string  `json:"make"`
			VehicleType  string  `json:"vehicleType" binding:"required,oneof=truck van trailer"`
			CapacityTons float64 `json:"capacityTons" binding:"required"`
			VolumeCBM    float64 `json:"volumeCbm"`
			Refrigerated bool    `json:"refrigerated"`
			PricePerDay  float64 `json:"pricePerDay" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.CapacityTons <= 0 {
			c.JSON(400, gin.H{"error": "Capacity must be positive"})
			return
		}
		if input.PricePerDay <= 0 {
			c.JSON(400, gin.H{"error": "Price per day must be positive"})
			return
		}

		vehicle := models.Vehicle{
			CompanyID:    companyId,
			PlateNumber:  input.PlateNumber,
			Make:         input.Make,
			VehicleType:  models.VehicleType(input.VehicleType),
			CapacityTons: input.CapacityTons,
			VolumeCBM:    input.VolumeCBM,
			Refrigerated: input.Refrigerated,
			PricePerDay:  input.PricePerDay,
			Status:       models.VehicleStatusAvailable,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, vehicle)
	}
}

// GetAvailableVehicles lists bookable vehicles for the marketplace view
func GetAvailableVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("status = ?", models.VehicleStatusAvailable).Preload("Company")

		if vehicleType := c.Query("type"); vehicleType != "" {
			query = query.Where("vehicle_type = ?", vehicleType)
		}
		if minCapacity := c.Query("minCapacity"); minCapacity != "" {
			capacity, err := strconv.ParseFloat(minCapacity, 64)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid minCapacity"})
				return
			}
			query = query.Where("capacity_tons >= ?", capacity)
		}

		var vehicles []models.Vehicle
		if err := query.Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

// GetCompanyVehicles lists the authenticated company's own fleet
func GetCompanyVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

		var vehicles []models.Vehicle
		if err := db.Where("company_id = ?", companyId).Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

// UpdateVehicleStatus lets the owner move a vehicle between available,
// maintenance and retired. The booked status is managed by the booking flow.
func UpdateVehicleStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleId := c.Param("id")
		companyId := c.GetUint("companyId")

		var input struct {
			Status string `json:"status" binding:"required,oneof=available maintenance retired"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if vehicle.CompanyID != companyId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		if vehicle.Status == models.VehicleStatusBooked {
			c.JSON(400, gin.H{"error": "Vehicle is currently booked"})
			return
		}

		vehicle.Status = models.VehicleStatus(input.Status)
		if err := db.Save(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update vehicle status"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// DeleteVehicle removes a vehicle from the fleet (soft delete)
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleId := c.Param("id")
		companyId := c.GetUint("companyId")

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if vehicle.CompanyID != companyId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		if vehicle.Status == models.VehicleStatusBooked {
			c.JSON(400, gin.H{"error": "Vehicle is currently booked"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted"})
	}
}
