package models

import (
	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusBooked      VehicleStatus = "booked"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

type VehicleType string

const (
	VehicleTypeTruck   VehicleType = "truck"
	VehicleTypeVan     VehicleType = "van"
	VehicleTypeTrailer VehicleType = "trailer"
)

// Vehicle is a bookable resource owned by a company
type Vehicle struct {
	gorm.Model
	CompanyID    uint          `json:"companyId" gorm:"column:company_id;not null;index"`
	Company      *Company      `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	PlateNumber  string        `json:"plateNumber" gorm:"column:plate_number;unique;not null"`
	Make         string        `json:"make" gorm:"column:make"`
	VehicleType  VehicleType   `json:"vehicleType" gorm:"column:vehicle_type;not null"`
	CapacityTons float64       `json:"capacityTons" gorm:"column:capacity_tons;not null"`
	VolumeCBM    float64       `json:"volumeCbm" gorm:"column:volume_cbm"`
	Refrigerated bool          `json:"refrigerated" gorm:"column:refrigerated;not null;default:false"`
	PricePerDay  float64       `json:"pricePerDay" gorm:"column:price_per_day;not null"`
	Status       VehicleStatus `json:"status" gorm:"column:status;not null;default:'available'"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}

// IsBookable reports whether the vehicle can be attached to a new booking
func (v *Vehicle) IsBookable() bool {
	return v.Status == VehicleStatusAvailable
}
