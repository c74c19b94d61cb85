package store

import (
	"context"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// LoadPage runs the count and page queries for q. A page past the end comes
// back with no items and the real page count.
func LoadPage(ctx context.Context, s ReadingStore, q models.WindowQuery) (*models.Page, error) {
	total, err := s.Count(ctx, q.DateRange)
	if err != nil {
		return nil, err
	}

	items := []models.SensorReading{}
	if q.Page <= models.TotalPages(total, q.Limit) {
		items, err = s.FindWindow(ctx, q)
		if err != nil {
			return nil, err
		}
	}

	return &models.Page{
		Items:       items,
		TotalPages:  models.TotalPages(total, q.Limit),
		CurrentPage: q.Page,
		TotalItems:  total,
	}, nil
}
