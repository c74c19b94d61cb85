package utils

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

func exportRecords(t *testing.T, window []models.SensorReading) [][]string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, window))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	window := []models.SensorReading{
		{
			SoilSensors: []string{"512", models.NotWorking},
			DHTSensors:  []models.DHTReading{okDHT(25.5, 60), {Status: "Error"}},
			LightSensor: "3000",
			Timestamp:   time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
		},
		{
			SoilSensors: []string{"600", "700"},
			DHTSensors:  []models.DHTReading{{Temp: null.FloatFrom(24), Status: models.StatusOK}, okDHT(22.25, 55)},
			LightSensor: models.NotWorking,
			Timestamp:   time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		},
	}

	records := exportRecords(t, window)

	require.Len(t, records, 3, "header plus one row per reading")
	assert.Equal(t, []string{
		"timestamp", "soilSensor1", "soilSensor2",
		"dhtSensor1_temp", "dhtSensor2_temp",
		"dhtSensor1_hum", "dhtSensor2_hum",
		"lightSensor",
	}, records[0])
	assert.Len(t, records[0], 1+2+2*2+1)

	assert.Equal(t, []string{
		"2024-03-02 00:00:00", "512", "Not working",
		"25.5", "Not working",
		"60", "Not working",
		"3000",
	}, records[1])
	assert.Equal(t, []string{
		"2024-03-01 23:30:00", "600", "700",
		"24", "22.25",
		"Not working", "55",
		"Not working",
	}, records[2])
}

func TestWriteCSVPadsShortRecords(t *testing.T) {
	window := []models.SensorReading{
		{SoilSensors: []string{"1"}, LightSensor: "5", Timestamp: time.Unix(0, 0)},
		{SoilSensors: []string{"1", "2"}, DHTSensors: []models.DHTReading{okDHT(1, 2)}, LightSensor: "5", Timestamp: time.Unix(0, 0)},
	}

	records := exportRecords(t, window)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"timestamp", "soilSensor1", "soilSensor2", "dhtSensor1_temp", "dhtSensor1_hum", "lightSensor"}, records[0])
	assert.Equal(t, []string{"1970-01-01 05:30:00", "1", "", "", "", "5"}, records[1])
}

func TestWriteCSVEmptyWindow(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoData))
	assert.Zero(t, buf.Len(), "no partial file on an empty window")
}
