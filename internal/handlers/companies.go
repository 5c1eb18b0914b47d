package handlers

import (
	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetCompanyProfile returns a company's public marketplace profile
func GetCompanyProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.Param("id")

		var company models.Company
		if err := db.First(&company, companyId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Company not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":            company.ID,
			"name":          company.Name,
			"regionCode":    company.RegionCode,
			"averageRating": company.AverageRating,
			"reviewCount":   company.ReviewCount,
		})
	}
}

// GetOwnCompany returns the authenticated user's company
func GetOwnCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")

		var company models.Company
		if err := db.First(&company, companyId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Company not found"})
			return
		}

		c.JSON(200, company)
	}
}

// UpdateOwnCompany updates the authenticated user's company profile
func UpdateOwnCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId := c.GetUint("companyId")
		role := c.GetString("role")

		if role != string(models.RoleAdmin) && role != string(models.RolePlatformAdmin) {
			c.JSON(403, gin.H{"error": "Only company admins can update the profile"})
			return
		}

		var input struct {
			Email       string `json:"email"`
			PhoneNumber string `json:"phoneNumber"`
			Address     string `json:"address"`
			RegionCode  string `json:"regionCode"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var company models.Company
		if err := db.First(&company, companyId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Company not found"})
			return
		}

		if input.Email != "" {
			company.Email = input.Email
		}
		if input.PhoneNumber != "" {
			company.PhoneNumber = input.PhoneNumber
		}
		if input.Address != "" {
			company.Address = input.Address
		}
		if input.RegionCode != "" {
			company.RegionCode = input.RegionCode
		}

		if err := db.Save(&company).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update company"})
			return
		}

		c.JSON(200, company)
	}
}
