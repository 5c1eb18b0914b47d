package database

import (
	"github.com/cargolink/cargolink-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Vehicle{},
		&models.Shipment{},
		&models.Booking{},
		&models.Review{},
		&models.PlatformConfig{},
		&models.ConfigurationHistory{},
		&models.GeographicRestriction{},
		&models.PaymentMethodConfig{},
	)
	if err != nil {
		return err
	}

	// Enum-style check constraints; AutoMigrate does not manage these
	if db.Dialector.Name() == "postgres" {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('member', 'admin', 'platform_admin'))`)

		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'accepted', 'rejected', 'cancelled', 'completed'))`)

		// Exactly one of vehicle_id/shipment_id per booking
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_resource_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_resource_check CHECK ((vehicle_id IS NULL) != (shipment_id IS NULL))`)

		db.Exec(`ALTER TABLE reviews DROP CONSTRAINT IF EXISTS reviews_rating_check`)
		db.Exec(`ALTER TABLE reviews ADD CONSTRAINT reviews_rating_check CHECK (rating BETWEEN 1 AND 5)`)
	}

	return nil
}
