package config

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

const insertHookName = "bhooyam:notify_insert"

// OpenDatabase connects to the configured driver.
func OpenDatabase(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.DBDriver)
	}
	return db, nil
}

// WatchInserts calls notify with every sensor reading that has been committed
// through db. Failed or rolled back inserts are never reported.
func WatchInserts(db *gorm.DB, notify func(models.SensorReading)) error {
	return db.Callback().Create().
		After("gorm:commit_or_rollback_transaction").
		Register(insertHookName, func(tx *gorm.DB) {
			if tx.Error != nil || tx.Statement.Schema == nil {
				return
			}
			if tx.Statement.Schema.Table != (models.SensorReading{}).TableName() {
				return
			}

			switch dest := tx.Statement.Dest.(type) {
			case *models.SensorReading:
				notify(*dest)
			case []models.SensorReading:
				for _, r := range dest {
					notify(r)
				}
			case *[]models.SensorReading:
				for _, r := range *dest {
					notify(r)
				}
			}
		})
}
