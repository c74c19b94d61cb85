package models

import (
	"math"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// DateRange bounds readings by timestamp. Both ends are inclusive and a nil
// end leaves that side open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// WindowQuery selects one page of readings, newest first.
type WindowQuery struct {
	DateRange
	Page  int
	Limit int
}

// Offset is the number of matching readings skipped before the page starts.
// It saturates at math.MaxInt instead of wrapping.
func (q WindowQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// MaxPage is the largest page whose offset still fits in an int.
func MaxPage(limit int) int {
	if limit <= 0 {
		return math.MaxInt
	}
	return math.MaxInt/limit + 1
}

// TotalPages is ceil(count/limit). limit must be positive.
func TotalPages(count int64, limit int) int {
	if count <= 0 {
		return 0
	}
	l := int64(limit)
	return int((count + l - 1) / l)
}

// Page is the response body of GET /data.
type Page struct {
	Items       []SensorReading `json:"items"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	TotalItems  int64           `json:"totalItems"`
}
