package models

import (
	"gorm.io/gorm"
)

// Review is one company's rating of the other side of a finished booking.
// A company can review a given booking at most once.
type Review struct {
	gorm.Model
	BookingID         uint     `json:"bookingId" gorm:"column:booking_id;not null;uniqueIndex:idx_reviews_booking_reviewer"`
	Booking           *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	ReviewerCompanyID uint     `json:"reviewerCompanyId" gorm:"column:reviewer_company_id;not null;uniqueIndex:idx_reviews_booking_reviewer"`
	ReviewerCompany   *Company `json:"reviewerCompany,omitempty" gorm:"foreignKey:ReviewerCompanyID"`
	RevieweeCompanyID uint     `json:"revieweeCompanyId" gorm:"column:reviewee_company_id;not null;index"`
	RevieweeCompany   *Company `json:"revieweeCompany,omitempty" gorm:"foreignKey:RevieweeCompanyID"`
	Rating            int      `json:"rating" gorm:"column:rating;not null"`
	Comment           string   `json:"comment" gorm:"column:comment"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}
