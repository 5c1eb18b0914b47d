package models

import (
	"gorm.io/gorm"
)

type ShipmentStatus string

const (
	ShipmentStatusOpen      ShipmentStatus = "open"
	ShipmentStatusBooked    ShipmentStatus = "booked"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// Shipment is cargo capacity a company offers to the marketplace
type Shipment struct {
	gorm.Model
	CompanyID   uint           `json:"companyId" gorm:"column:company_id;not null;index"`
	Company     *Company       `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Reference   string         `json:"reference" gorm:"column:reference;unique;not null"`
	Origin      string         `json:"origin" gorm:"column:origin;not null"`
	Destination string         `json:"destination" gorm:"column:destination;not null"`
	CargoDesc   string         `json:"cargoDescription" gorm:"column:cargo_description"`
	WeightTons  float64        `json:"weightTons" gorm:"column:weight_tons;not null"`
	OfferPrice  float64        `json:"offerPrice" gorm:"column:offer_price;not null"`
	Status      ShipmentStatus `json:"status" gorm:"column:status;not null;default:'open'"`
}

// TableName specifies the table name
func (Shipment) TableName() string {
	return "shipments"
}

// IsBookable reports whether the shipment can be attached to a new booking
func (s *Shipment) IsBookable() bool {
	return s.Status == ShipmentStatusOpen
}

// IsTerminal reports whether the shipment can no longer change status
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}
