package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// ChangeType classifies a platform configuration mutation for the audit trail
type ChangeType string

const (
	ChangeTypeFeatureToggle  ChangeType = "feature_toggle"
	ChangeTypeFinancial      ChangeType = "financial_update"
	ChangeTypeGeoRestriction ChangeType = "geographic_restriction"
	ChangeTypePaymentConfig  ChangeType = "payment_config"
	ChangeTypeSystemSetting  ChangeType = "system_setting"
	ChangeTypeRollback       ChangeType = "rollback"
)

// PlatformConfig holds the global commission/tax/feature settings. At most one
// row is active at a time; every mutation bumps Version and appends a
// ConfigurationHistory entry.
type PlatformConfig struct {
	gorm.Model
	CommissionRate         float64 `json:"commissionRate" gorm:"column:commission_rate;not null"`
	TaxRate                float64 `json:"taxRate" gorm:"column:tax_rate;not null"`
	Currency               string  `json:"currency" gorm:"column:currency;not null"`
	MinBookingAmount       float64 `json:"minBookingAmount" gorm:"column:min_booking_amount;not null"`
	MaxBookingAmount       float64 `json:"maxBookingAmount" gorm:"column:max_booking_amount;not null"`
	// No default tags on booleans: GORM omits zero-value fields that carry
	// one on INSERT, so a stored false would come back as the column default
	BookingsEnabled        bool    `json:"bookingsEnabled" gorm:"column:bookings_enabled;not null"`
	ReviewsEnabled         bool    `json:"reviewsEnabled" gorm:"column:reviews_enabled;not null"`
	GeoRestrictionsEnabled bool    `json:"geoRestrictionsEnabled" gorm:"column:geo_restrictions_enabled;not null"`
	MaintenanceMode        bool    `json:"maintenanceMode" gorm:"column:maintenance_mode;not null"`
	Version                int     `json:"version" gorm:"column:version;not null"`
	IsActive               bool    `json:"isActive" gorm:"column:is_active;not null"`
	UpdatedBy              uint    `json:"updatedBy" gorm:"column:updated_by"`
}

// TableName specifies the table name
func (PlatformConfig) TableName() string {
	return "platform_configs"
}

// DefaultPlatformConfig returns the built-in settings used when no
// configuration row exists yet. Reads never persist it.
func DefaultPlatformConfig() PlatformConfig {
	return PlatformConfig{
		CommissionRate:   0.10,
		TaxRate:          0.16,
		Currency:         "KES",
		MinBookingAmount: 100,
		MaxBookingAmount: 1000000,
		BookingsEnabled:  true,
		ReviewsEnabled:   true,
		Version:          0,
		IsActive:         true,
	}
}

// ConfigSnapshot captures the configurable field values of one version. It is
// what gets serialized into the history diff and re-applied on rollback.
type ConfigSnapshot struct {
	CommissionRate         float64 `json:"commissionRate"`
	TaxRate                float64 `json:"taxRate"`
	Currency               string  `json:"currency"`
	MinBookingAmount       float64 `json:"minBookingAmount"`
	MaxBookingAmount       float64 `json:"maxBookingAmount"`
	BookingsEnabled        bool    `json:"bookingsEnabled"`
	ReviewsEnabled         bool    `json:"reviewsEnabled"`
	GeoRestrictionsEnabled bool    `json:"geoRestrictionsEnabled"`
	MaintenanceMode        bool    `json:"maintenanceMode"`
	Version                int     `json:"version"`
}

// Snapshot captures the current configurable field values
func (c *PlatformConfig) Snapshot() ConfigSnapshot {
	return ConfigSnapshot{
		CommissionRate:         c.CommissionRate,
		TaxRate:                c.TaxRate,
		Currency:               c.Currency,
		MinBookingAmount:       c.MinBookingAmount,
		MaxBookingAmount:       c.MaxBookingAmount,
		BookingsEnabled:        c.BookingsEnabled,
		ReviewsEnabled:         c.ReviewsEnabled,
		GeoRestrictionsEnabled: c.GeoRestrictionsEnabled,
		MaintenanceMode:        c.MaintenanceMode,
		Version:                c.Version,
	}
}

// SnapshotJSON serializes the snapshot for the history diff columns
func (c *PlatformConfig) SnapshotJSON() string {
	data, _ := json.Marshal(c.Snapshot())
	return string(data)
}

// ApplySnapshot re-applies a historical snapshot's field values. The caller is
// responsible for bumping Version; the snapshot's own version is not copied.
func (c *PlatformConfig) ApplySnapshot(s ConfigSnapshot) {
	c.CommissionRate = s.CommissionRate
	c.TaxRate = s.TaxRate
	c.Currency = s.Currency
	c.MinBookingAmount = s.MinBookingAmount
	c.MaxBookingAmount = s.MaxBookingAmount
	c.BookingsEnabled = s.BookingsEnabled
	c.ReviewsEnabled = s.ReviewsEnabled
	c.GeoRestrictionsEnabled = s.GeoRestrictionsEnabled
	c.MaintenanceMode = s.MaintenanceMode
}

// ClassifyChange determines the history change type from which fields moved
// between two config versions. Financial fields win over toggles when both
// changed in one update.
func ClassifyChange(prev, next *PlatformConfig) ChangeType {
	if prev.CommissionRate != next.CommissionRate ||
		prev.TaxRate != next.TaxRate ||
		prev.Currency != next.Currency ||
		prev.MinBookingAmount != next.MinBookingAmount ||
		prev.MaxBookingAmount != next.MaxBookingAmount {
		return ChangeTypeFinancial
	}
	if prev.BookingsEnabled != next.BookingsEnabled ||
		prev.ReviewsEnabled != next.ReviewsEnabled ||
		prev.GeoRestrictionsEnabled != next.GeoRestrictionsEnabled ||
		prev.MaintenanceMode != next.MaintenanceMode {
		return ChangeTypeFeatureToggle
	}
	return ChangeTypeSystemSetting
}

// ConfigurationHistory is the append-only audit trail of config versions.
// Rollbacks create new versions; history rows are never updated or deleted.
type ConfigurationHistory struct {
	gorm.Model
	ConfigID       uint       `json:"configId" gorm:"column:config_id;not null;index"`
	Version        int        `json:"version" gorm:"column:version;not null;index"`
	ChangeType     ChangeType `json:"changeType" gorm:"column:change_type;not null"`
	PreviousValues string     `json:"previousValues" gorm:"column:previous_values;type:text"`
	NewValues      string     `json:"newValues" gorm:"column:new_values;type:text"`
	ChangedBy      uint       `json:"changedBy" gorm:"column:changed_by;not null"`
	Note           string     `json:"note" gorm:"column:note"`
}

// TableName specifies the table name
func (ConfigurationHistory) TableName() string {
	return "configuration_history"
}

// GeographicRestriction scopes bookings by requester region for one config version
type GeographicRestriction struct {
	gorm.Model
	ConfigVersion int    `json:"configVersion" gorm:"column:config_version;not null;index"`
	RegionCode    string `json:"regionCode" gorm:"column:region_code;not null"`
	RegionName    string `json:"regionName" gorm:"column:region_name"`
	Restricted    bool   `json:"restricted" gorm:"column:restricted;not null"`
	Reason        string `json:"reason" gorm:"column:reason"`
}

// TableName specifies the table name
func (GeographicRestriction) TableName() string {
	return "geographic_restrictions"
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
)

// PaymentMethodConfig enables/disables payment methods for one config version
type PaymentMethodConfig struct {
	gorm.Model
	ConfigVersion int           `json:"configVersion" gorm:"column:config_version;not null;index"`
	Method        PaymentMethod `json:"method" gorm:"column:method;not null"`
	Enabled       bool          `json:"enabled" gorm:"column:enabled;not null"`
	SurchargeRate float64       `json:"surchargeRate" gorm:"column:surcharge_rate;not null;default:0"`
}

// TableName specifies the table name
func (PaymentMethodConfig) TableName() string {
	return "payment_method_configs"
}
