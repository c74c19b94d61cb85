package controllers

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// MigrateModels runs the database migrations
func MigrateModels(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SensorReading{}); err != nil {
		return errors.Wrap(err, "migrate sensor_readings")
	}
	return nil
}
