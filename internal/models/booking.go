package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a request by one company to use another company's vehicle or
// shipment capacity over a time window. Exactly one of VehicleID/ShipmentID
// is set. Bookings are never physically deleted.
type Booking struct {
	gorm.Model
	Reference          string        `json:"reference" gorm:"column:reference;unique;not null"`
	RequesterCompanyID uint          `json:"requesterCompanyId" gorm:"column:requester_company_id;not null;index"`
	RequesterCompany   *Company      `json:"requesterCompany,omitempty" gorm:"foreignKey:RequesterCompanyID"`
	ProviderCompanyID  uint          `json:"providerCompanyId" gorm:"column:provider_company_id;not null;index"`
	ProviderCompany    *Company      `json:"providerCompany,omitempty" gorm:"foreignKey:ProviderCompanyID"`
	VehicleID          *uint         `json:"vehicleId,omitempty" gorm:"column:vehicle_id"`
	Vehicle            *Vehicle      `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	ShipmentID         *uint         `json:"shipmentId,omitempty" gorm:"column:shipment_id"`
	Shipment           *Shipment     `json:"shipment,omitempty" gorm:"foreignKey:ShipmentID"`
	StartDate          time.Time     `json:"startDate" gorm:"column:start_date;not null"`
	EndDate            time.Time     `json:"endDate" gorm:"column:end_date;not null"`
	TotalAmount        float64       `json:"totalAmount" gorm:"column:total_amount;not null"`
	PlatformFee        float64       `json:"platformFee" gorm:"column:platform_fee;not null;default:0"`
	TaxAmount          float64       `json:"taxAmount" gorm:"column:tax_amount;not null;default:0"`
	Currency           string        `json:"currency" gorm:"column:currency;not null;default:'KES'"`
	Status             BookingStatus `json:"status" gorm:"column:status;not null;default:'pending'"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// IsParty reports whether the company is requester or provider of the booking
func (b *Booking) IsParty(companyID uint) bool {
	return b.RequesterCompanyID == companyID || b.ProviderCompanyID == companyID
}

// Counterpart returns the other side of the booking for the given company.
// The caller must already have checked IsParty.
func (b *Booking) Counterpart(companyID uint) uint {
	if b.RequesterCompanyID == companyID {
		return b.ProviderCompanyID
	}
	return b.RequesterCompanyID
}

// IsTerminal reports whether the status allows no further transitions
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to another.
// A pending booking can be accepted, rejected or cancelled; an accepted one
// can be completed or cancelled. There is no pending -> completed shortcut.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case BookingStatusPending:
		return to == BookingStatusAccepted || to == BookingStatusRejected || to == BookingStatusCancelled
	case BookingStatusAccepted:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	}
	return false
}
