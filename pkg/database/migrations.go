package database

import (
	"gorm.io/gorm"

	"huntguard/internal/activity"
	"huntguard/internal/ammunition"
	"huntguard/internal/auth"
	"huntguard/internal/compliance"
	"huntguard/internal/hunter"
	"huntguard/internal/sensors"
)

func AutoMigrate(db *gorm.DB) error {
	// Schemas must exist before the schema-qualified tables
	for _, schema := range []string{"auth", "hunters", "compliance", "ammunition", "sensors", "activity"} {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + schema).Error; err != nil {
			return err
		}
	}

	// Auto-migrate all models
	err := db.AutoMigrate(
		&auth.User{},
		// Hunter registry
		&hunter.Hunter{},
		&hunter.Gun{},
		&hunter.Shot{},
		// Compliance models
		&compliance.HuntingZone{},
		&compliance.AmmunitionPurchase{},
		&compliance.HunterLicense{},
		&compliance.Violation{},
		// Warehouse models
		&ammunition.Ammunition{},
		&ammunition.AmmunitionTransaction{},
		// Sensor models
		&sensors.SensorReading{},
		&sensors.SensorDevice{},
		// Activity feed
		&activity.Activity{},
	)
	if err != nil {
		return err
	}

	if err := createShotIndexes(db); err != nil {
		return err
	}

	if err := createComplianceIndexes(db); err != nil {
		return err
	}

	return nil
}

func createShotIndexes(db *gorm.DB) error {
	// Shots by gun and time, the hot path for compliance counting
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_shots_gun_timestamp
		ON hunters.shots (gun_id, timestamp DESC)
	`).Error; err != nil {
		return err
	}

	// Guns by owner, joined on every per-hunter shot count
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_guns_owner
		ON hunters.guns (owner_id)
	`).Error; err != nil {
		return err
	}

	return nil
}

func createComplianceIndexes(db *gorm.DB) error {
	// Violations by hunter and detection time
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_violations_hunter_detected
		ON compliance.violations (hunter_id, detected_at DESC)
	`).Error; err != nil {
		return err
	}

	// Unresolved violation dashboard queries
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_violations_unresolved
		ON compliance.violations (resolved, detected_at DESC)
	`).Error; err != nil {
		return err
	}

	// Purchases summed per hunter on every shot
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_purchases_hunter
		ON compliance.ammunition_purchases (hunter_id)
	`).Error; err != nil {
		return err
	}

	// License lookup is one row per hunter
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_licenses_expiry
		ON compliance.hunter_licenses (expiry_date)
	`).Error; err != nil {
		return err
	}

	return nil
}
