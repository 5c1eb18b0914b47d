package models

import (
	"gorm.io/gorm"
)

// Company is a tenant entity owning users, vehicles, shipments and bookings
type Company struct {
	gorm.Model
	Name          string  `json:"name" gorm:"column:name;unique;not null"`
	Email         string  `json:"email" gorm:"column:email;unique;not null"`
	PhoneNumber   string  `json:"phoneNumber" gorm:"column:phone_number"`
	Address       string  `json:"address" gorm:"column:address"`
	RegionCode    string  `json:"regionCode" gorm:"column:region_code;not null;default:'KE'"`
	AverageRating float64 `json:"averageRating" gorm:"column:average_rating;not null;default:0"`
	ReviewCount   int64   `json:"reviewCount" gorm:"column:review_count;not null;default:0"`
}

// TableName specifies the table name
func (Company) TableName() string {
	return "companies"
}
