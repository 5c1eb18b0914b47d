package handlers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/cargolink/cargolink-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// getActiveConfig loads the active platform configuration, preferring the
// Redis cache and falling back to built-in defaults when no row exists.
func getActiveConfig(ctx context.Context, db *gorm.DB) *models.PlatformConfig {
	if cached, err := services.GetCachedPlatformConfig(ctx); err == nil && cached != nil {
		return cached
	}

	var cfg models.PlatformConfig
	if err := db.Where("is_active = ?", true).First(&cfg).Error; err != nil {
		def := models.DefaultPlatformConfig()
		return &def
	}

	if err := services.CachePlatformConfig(ctx, &cfg); err != nil {
		logrus.WithError(err).Warn("failed to cache platform config")
	}
	return &cfg
}

func requirePlatformAdmin(c *gin.Context) bool {
	if c.GetString("role") != string(models.RolePlatformAdmin) {
		c.JSON(403, gin.H{"error": "Only platform administrators can manage configuration"})
		return false
	}
	return true
}

// GetPlatformConfig returns the active configuration with its child records
func GetPlatformConfig(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := getActiveConfig(c.Request.Context(), db)

		var restrictions []models.GeographicRestriction
		db.Where("config_version = ?", cfg.Version).Find(&restrictions)

		var paymentMethods []models.PaymentMethodConfig
		db.Where("config_version = ?", cfg.Version).Find(&paymentMethods)

		c.JSON(200, gin.H{
			"config":                 cfg,
			"geographicRestrictions": restrictions,
			"paymentMethods":         paymentMethods,
		})
	}
}

// UpdatePlatformConfig upserts the configuration singleton, bumps the version
// and appends a history entry classifying the change
func UpdatePlatformConfig(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requirePlatformAdmin(c) {
			return
		}
		userId := c.GetUint("userId")

		var input struct {
			CommissionRate         *float64 `json:"commissionRate"`
			TaxRate                *float64 `json:"taxRate"`
			Currency               *string  `json:"currency"`
			MinBookingAmount       *float64 `json:"minBookingAmount"`
			MaxBookingAmount       *float64 `json:"maxBookingAmount"`
			BookingsEnabled        *bool    `json:"bookingsEnabled"`
			ReviewsEnabled         *bool    `json:"reviewsEnabled"`
			GeoRestrictionsEnabled *bool    `json:"geoRestrictionsEnabled"`
			MaintenanceMode        *bool    `json:"maintenanceMode"`
			Note                   string   `json:"note"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.CommissionRate != nil && (*input.CommissionRate < 0 || *input.CommissionRate > 1) {
			c.JSON(400, gin.H{"error": "Commission rate must be between 0 and 1"})
			return
		}
		if input.TaxRate != nil && (*input.TaxRate < 0 || *input.TaxRate > 1) {
			c.JSON(400, gin.H{"error": "Tax rate must be between 0 and 1"})
			return
		}
		if input.MinBookingAmount != nil && input.MaxBookingAmount != nil &&
			*input.MinBookingAmount > *input.MaxBookingAmount {
			c.JSON(400, gin.H{"error": "Minimum booking amount cannot exceed maximum"})
			return
		}

		var cfg models.PlatformConfig
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("is_active = ?", true).First(&cfg).Error; err != nil {
				// First write creates the singleton from the defaults
				cfg = models.DefaultPlatformConfig()
			}
			prev := cfg.Snapshot()

			if input.CommissionRate != nil {
				cfg.CommissionRate = *input.CommissionRate
			}
			if input.TaxRate != nil {
				cfg.TaxRate = *input.TaxRate
			}
			if input.Currency != nil {
				cfg.Currency = *input.Currency
			}
			if input.MinBookingAmount != nil {
				cfg.MinBookingAmount = *input.MinBookingAmount
			}
			if input.MaxBookingAmount != nil {
				cfg.MaxBookingAmount = *input.MaxBookingAmount
			}
			if input.BookingsEnabled != nil {
				cfg.BookingsEnabled = *input.BookingsEnabled
			}
			if input.ReviewsEnabled != nil {
				cfg.ReviewsEnabled = *input.ReviewsEnabled
			}
			if input.GeoRestrictionsEnabled != nil {
				cfg.GeoRestrictionsEnabled = *input.GeoRestrictionsEnabled
			}
			if input.MaintenanceMode != nil {
				cfg.MaintenanceMode = *input.MaintenanceMode
			}

			var prevCfg models.PlatformConfig
			prevCfg.ApplySnapshot(prev)
			changeType := models.ClassifyChange(&prevCfg, &cfg)

			cfg.Version++
			cfg.IsActive = true
			cfg.UpdatedBy = userId
			if err := tx.Save(&cfg).Error; err != nil {
				return err
			}

			prevData, _ := json.Marshal(prev)
			history := models.ConfigurationHistory{
				ConfigID:       cfg.ID,
				Version:        cfg.Version,
				ChangeType:     changeType,
				PreviousValues: string(prevData),
				NewValues:      cfg.SnapshotJSON(),
				ChangedBy:      userId,
				Note:           input.Note,
			}
			return tx.Create(&history).Error
		})
		if err != nil {
			logrus.WithError(err).Error("failed to update platform config")
			c.JSON(500, gin.H{"error": "Failed to update configuration"})
			return
		}

		if err := services.InvalidatePlatformConfig(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("failed to invalidate config cache")
		}

		c.JSON(200, cfg)
	}
}

// GetConfigHistory lists the append-only configuration audit trail
func GetConfigHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requirePlatformAdmin(c) {
			return
		}

		var history []models.ConfigurationHistory
		if err := db.Order("version DESC").Find(&history).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch configuration history"})
			return
		}

		c.JSON(200, history)
	}
}

// RollbackPlatformConfig re-applies a prior version's field values as a new
// version. History is append-only; nothing is mutated in place.
func RollbackPlatformConfig(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requirePlatformAdmin(c) {
			return
		}
		userId := c.GetUint("userId")

		targetVersion, err := strconv.Atoi(c.Param("version"))
		if err != nil || targetVersion < 1 {
			c.JSON(400, gin.H{"error": "Invalid version"})
			return
		}

		var cfg models.PlatformConfig
		err = db.Transaction(func(tx *gorm.DB) error {
			var entry models.ConfigurationHistory
			if err := tx.Where("version = ?", targetVersion).
				Order("id DESC").First(&entry).Error; err != nil {
				return err
			}

			var target models.ConfigSnapshot
			if err := json.Unmarshal([]byte(entry.NewValues), &target); err != nil {
				return err
			}

			if err := tx.Where("is_active = ?", true).First(&cfg).Error; err != nil {
				return err
			}

			prevData, _ := json.Marshal(cfg.Snapshot())
			cfg.ApplySnapshot(target)
			cfg.Version++
			cfg.UpdatedBy = userId
			if err := tx.Save(&cfg).Error; err != nil {
				return err
			}

			history := models.ConfigurationHistory{
				ConfigID:       cfg.ID,
				Version:        cfg.Version,
				ChangeType:     models.ChangeTypeRollback,
				PreviousValues: string(prevData),
				NewValues:      cfg.SnapshotJSON(),
				ChangedBy:      userId,
				Note:           "Rollback to version " + strconv.Itoa(targetVersion),
			}
			return tx.Create(&history).Error
		})
		if err == gorm.ErrRecordNotFound {
			c.JSON(404, gin.H{"error": "Version not found"})
			return
		}
		if err != nil {
			logrus.WithError(err).Error("failed to roll back platform config")
			c.JSON(500, gin.H{"error": "Failed to roll back configuration"})
			return
		}

		if err := services.InvalidatePlatformConfig(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("failed to invalidate config cache")
		}

		c.JSON(200, cfg)
	}
}

// SetGeoRestrictions replaces the geographic restriction set as a new
// configuration version
func SetGeoRestrictions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requirePlatformAdmin(c) {
			return
		}
		userId := c.GetUint("userId")

		var input struct {
			Restrictions []struct {
				RegionCode string `json:"regionCode" binding:"required"`
				RegionName string `json:"regionName"`
				Restricted *bool  `json:"restricted"`
				Reason     string `json:"reason"`
			} `json:"restrictions" binding:"required,dive"`
			Note string `json:"note"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var cfg models.PlatformConfig
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("is_active = ?", true).First(&cfg).Error; err != nil {
				cfg = models.DefaultPlatformConfig()
			}
			prevData, _ := json.Marshal(cfg.Snapshot())

			cfg.Version++
			cfg.IsActive = true
			cfg.UpdatedBy = userId
			if err := tx.Save(&cfg).Error; err != nil {
				return err
			}

			for _, r := range input.Restrictions {
				restricted := true
				if r.Restricted != nil {
					restricted = *r.Restricted
				}
				restriction := models.GeographicRestriction{
					ConfigVersion: cfg.Version,
					RegionCode:    r.RegionCode,
					RegionName:    r.RegionName,
					Restricted:    restricted,
					Reason:        r.Reason,
				}
				if err := tx.Create(&restriction).Error; err != nil {
					return err
				}
			}

			history := models.ConfigurationHistory{
				ConfigID:       cfg.ID,
				Version:        cfg.Version,
				ChangeType:     models.ChangeTypeGeoRestriction,
				PreviousValues: string(prevData),
				NewValues:      cfg.SnapshotJSON(),
				ChangedBy:      userId,
				Note:           input.Note,
			}
			return tx.Create(&history).Error
		})
		if err != nil {
			logrus.WithError(err).Error("failed to set geographic restrictions")
			c.JSON(500, gin.H{"error": "Failed to update geographic restrictions"})
			return
		}

		if err := services.InvalidatePlatformConfig(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("failed to invalidate config cache")
		}

		c.JSON(200, cfg)
	}
}

// SetPaymentMethods replaces the payment method set as a new configuration version
func SetPaymentMethods(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requirePlatformAdmin(c) {
			return
		}
		userId := c.GetUint("userId")

		var input struct {
			Methods []struct {
				Method        string  `json:"method" binding:"required,oneof=card bank_transfer mobile_money"`
				Enabled       *bool   `json:"enabled"`
				SurchargeRate float64 `json:"surchargeRate"`
			} `json:"methods" binding:"required,dive"`
			Note string `json:"note"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var cfg models.PlatformConfig
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("is_active = ?", true).First(&cfg).Error; err != nil {
				cfg = models.DefaultPlatformConfig()
			}
			prevData, _ := json.Marshal(cfg.Snapshot())

			cfg.Version++
			cfg.IsActive = true
			cfg.UpdatedBy = userId
			if err := tx.Save(&cfg).Error; err != nil {
				return err
			}

			for _, m := range input.Methods {
				enabled := true
				if m.Enabled != nil {
					enabled = *m.Enabled
				}
				method := models.PaymentMethodConfig{
					ConfigVersion: cfg.Version,
					Method:        models.PaymentMethod(m.Method),
					Enabled:       enabled,
					SurchargeRate: m.SurchargeRate,
				}
				if err := tx.Create(&method).Error; err != nil {
					return err
				}
			}

			history := models.ConfigurationHistory{
				ConfigID:       cfg.ID,
				Version:        cfg.Version,
				ChangeType:     models.ChangeTypePaymentConfig,
				PreviousValues: string(prevData),
				NewValues:      cfg.SnapshotJSON(),
				ChangedBy:      userId,
				Note:           input.Note,
			}
			return tx.Create(&history).Error
		})
		if err != nil {
			logrus.WithError(err).Error("failed to set payment methods")
			c.JSON(500, gin.H{"error": "Failed to update payment methods"})
			return
		}

		if err := services.InvalidatePlatformConfig(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("failed to invalidate config cache")
		}

		c.JSON(200, cfg)
	}
}
