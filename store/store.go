package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// ReadingStore persists sensor readings and answers window queries over them.
type ReadingStore interface {
	Insert(ctx context.Context, r *models.SensorReading) error
	Count(ctx context.Context, rng models.DateRange) (int64, error)
	FindWindow(ctx context.Context, q models.WindowQuery) ([]models.SensorReading, error)
	FindAll(ctx context.Context, rng models.DateRange) ([]models.SensorReading, error)
}

// GormStore is the ReadingStore backed by a GORM connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, r *models.SensorReading) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return errors.Wrap(err, "insert sensor reading")
	}
	return nil
}

func (s *GormStore) Count(ctx context.Context, rng models.DateRange) (int64, error) {
	var total int64
	if err := s.filtered(ctx, rng).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count sensor readings")
	}
	return total, nil
}

// FindWindow returns one page of readings, newest first.
func (s *GormStore) FindWindow(ctx context.Context, q models.WindowQuery) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	err := s.filtered(ctx, q.DateRange).
		Order("timestamp desc").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&readings).Error
	if err != nil {
		return nil, errors.Wrap(err, "query sensor readings page")
	}
	return readings, nil
}

// FindAll returns every reading in rng, newest first.
func (s *GormStore) FindAll(ctx context.Context, rng models.DateRange) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	if err := s.filtered(ctx, rng).Order("timestamp desc").Find(&readings).Error; err != nil {
		return nil, errors.Wrap(err, "query sensor readings")
	}
	return readings, nil
}

func (s *GormStore) filtered(ctx context.Context, rng models.DateRange) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.SensorReading{})
	if rng.Start != nil {
		query = query.Where("timestamp >= ?", rng.Start.UTC())
	}
	if rng.End != nil {
		query = query.Where("timestamp <= ?", rng.End.UTC())
	}
	return query
}
