package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/relvacode/iso8601"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// parseWindowQuery reads page, limit, startDate and endDate. page and limit
// are clamped to at least 1, limit to maxPageSize and page so its offset
// cannot overflow.
func parseWindowQuery(c *gin.Context, maxPageSize int) (models.WindowQuery, error) {
	q := models.WindowQuery{Page: models.DefaultPage, Limit: models.DefaultLimit}

	var err error
	if q.Page, err = intParam(c, "page", models.DefaultPage); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(c, "limit", models.DefaultLimit); err != nil {
		return q, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if maxPageSize > 0 && q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if maxPage := models.MaxPage(q.Limit); q.Page > maxPage {
		q.Page = maxPage
	}

	q.DateRange, err = parseDateRange(c)
	return q, err
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, models.ValidationError(name + " must be an integer.")
	}
	return n, nil
}

func parseDateRange(c *gin.Context) (models.DateRange, error) {
	var rng models.DateRange
	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v, false)
		if err != nil {
			return rng, models.ValidationError("startDate must be an ISO 8601 date.")
		}
		rng.Start = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseDate(v, true)
		if err != nil {
			return rng, models.ValidationError("endDate must be an ISO 8601 date.")
		}
		rng.End = &t
	}
	return rng, nil
}

// parseDate accepts an ISO 8601 date-time, the same with a space instead of
// the "T", or a bare date. Values without an offset are UTC. A bare end date
// covers the whole day.
func parseDate(v string, endOfDay bool) (time.Time, error) {
	v = strings.TrimSpace(v)
	if !strings.ContainsAny(v, "tT") {
		v = strings.Replace(v, " ", "T", 1)
	}
	// An unescaped "+" in a query string arrives as a space.
	v = strings.Replace(v, " ", "+", 1)

	dateOnly := !strings.ContainsAny(v, "tT")
	if dateOnly {
		v += "T00:00:00"
	}
	t, err := iso8601.ParseString(v)
	if err != nil {
		return time.Time{}, err
	}
	if dateOnly && endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), nil
}
