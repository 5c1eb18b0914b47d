package handlers

import (
	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/cargolink/cargolink-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RegisterInput struct {
	CompanyName  string `json:"companyName" binding:"required"`
	CompanyEmail string `json:"companyEmail" binding:"required,email"`
	RegionCode   string `json:"regionCode"`
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Phone        string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a company together with its first (admin) user
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existing models.Company
		if err := db.Where("name = ?", input.CompanyName).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "Company already registered"})
			return
		}

		region := input.RegionCode
		if region == "" {
			region = "KE"
		}

		company := models.Company{
			Name:        input.CompanyName,
			Email:       input.CompanyEmail,
			PhoneNumber: input.Phone,
			RegionCode:  region,
		}

		user := models.User{
			Username:    input.Username,
			Email:       input.Email,
			PhoneNumber: input.Phone,
			Role:        models.RoleAdmin,
		}
		if err := user.SetPassword(input.Password); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&company).Error; err != nil {
				return err
			}
			user.CompanyID = company.ID
			return tx.Create(&user).Error
		})
		if err != nil {
			logrus.WithError(err).Error("registration failed")
			c.JSON(500, gin.H{"error": "Failed to create account"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(201, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"username": user.Username,
				"role":     user.Role,
			},
			"company": gin.H{
				"id":         company.ID,
				"name":       company.Name,
				"regionCode": company.RegionCode,
			},
		})
	}
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"username":  user.Username,
				"companyId": user.CompanyID,
				"role":      user.Role,
			},
		})
	}
}
