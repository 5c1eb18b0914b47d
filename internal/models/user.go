package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember        UserRole = "member"
	RoleAdmin         UserRole = "admin"
	RolePlatformAdmin UserRole = "platform_admin"
)

type User struct {
	gorm.Model       // This embeds ID, CreatedAt, UpdatedAt, and DeletedAt
	Username     string   `json:"username" gorm:"column:username;unique;not null"`
	Email        string   `json:"email" gorm:"column:email;unique;not null"`
	PasswordHash string   `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string   `json:"phoneNumber" gorm:"column:phone_number"`
	CompanyID    uint     `json:"companyId" gorm:"column:company_id;not null;index"`
	Company      *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Role         UserRole `json:"role" gorm:"column:role;not null;default:'member'"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
