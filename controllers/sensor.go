package controllers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
	"github.com/aayushprsingh/Bhooyam-Dashboard/services"
	"github.com/aayushprsingh/Bhooyam-Dashboard/store"
	"github.com/aayushprsingh/Bhooyam-Dashboard/utils"
)

// SensorController serves the sensor reading endpoints.
type SensorController struct {
	Store       store.ReadingStore
	Hub         *services.Hub
	Log         *slog.Logger
	MaxPageSize int
	// Now is overridden in tests.
	Now func() time.Time
}

func NewSensorController(s store.ReadingStore, hub *services.Hub, log *slog.Logger, maxPageSize int) *SensorController {
	return &SensorController{
		Store:       s,
		Hub:         hub,
		Log:         log,
		MaxPageSize: maxPageSize,
		Now:         time.Now,
	}
}

// ReceiveData validates and stores one reading. Live viewers are notified by
// the insert hook once the row is committed.
func (h *SensorController) ReceiveData(c *gin.Context) {
	var payload models.SensorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.respondError(c, models.ValidationError("Invalid sensor data."))
		return
	}
	if err := payload.Validate(); err != nil {
		h.respondError(c, err)
		return
	}

	reading := payload.Reading(h.Now())
	if err := h.Store.Insert(c.Request.Context(), &reading); err != nil {
		h.respondError(c, models.PersistenceError("Failed to save sensor data.", err))
		return
	}

	h.Log.Debug("sensor reading stored", "id", reading.ID, "soil", len(reading.SoilSensors), "dht", len(reading.DHTSensors))
	c.JSON(http.StatusCreated, gin.H{"message": "Sensor data received and saved successfully."})
}

// GetData returns one page of readings, newest first.
func (h *SensorController) GetData(c *gin.Context) {
	q, err := parseWindowQuery(c, h.MaxPageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	page, err := store.LoadPage(c.Request.Context(), h.Store, q)
	if err != nil {
		h.respondError(c, models.PersistenceError("Failed to fetch sensor data.", err))
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAverages summarises the same page GetData would return.
func (h *SensorController) GetAverages(c *gin.Context) {
	window, ok := h.loadWindow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.ComputeAverages(window))
}

// GetChart returns the same page GetData would return as chart series.
func (h *SensorController) GetChart(c *gin.Context) {
	window, ok := h.loadWindow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.BuildChart(window))
}

// ExportData sends every reading in the date range as a CSV attachment.
func (h *SensorController) ExportData(c *gin.Context) {
	rng, err := parseDateRange(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	window, err := h.Store.FindAll(c.Request.Context(), rng)
	if err != nil {
		h.respondError(c, models.PersistenceError("Failed to export sensor data.", err))
		return
	}

	// Rendered up front so a failure can still become a JSON error response.
	var buf bytes.Buffer
	if err := utils.WriteCSV(&buf, window); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", utils.ExportFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Health reports liveness and the number of live subscribers.
func (h *SensorController) Health(c *gin.Context) {
	subscribers := 0
	if h.Hub != nil {
		subscribers = h.Hub.Count()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "subscribers": subscribers})
}

func (h *SensorController) loadWindow(c *gin.Context) ([]models.SensorReading, bool) {
	q, err := parseWindowQuery(c, h.MaxPageSize)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	window, err := h.Store.FindWindow(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, models.PersistenceError("Failed to fetch sensor data.", err))
		return nil, false
	}
	return window, true
}

func (h *SensorController) respondError(c *gin.Context, err error) {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		apiErr = models.PersistenceError("Internal server error.", err)
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	} else {
		h.Log.Debug("request rejected", "method", c.Request.Method, "path", c.FullPath(), "code", apiErr.Code)
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
}
