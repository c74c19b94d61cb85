package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensorPayloadValidate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"complete", `{"soilSensors":["1"],"dhtSensors":[],"lightSensor":"2"}`, true},
		{"empty arrays", `{"soilSensors":[],"dhtSensors":[],"lightSensor":"2"}`, true},
		{"missing light", `{"soilSensors":["1"],"dhtSensors":[]}`, false},
		{"empty light", `{"soilSensors":["1"],"dhtSensors":[],"lightSensor":""}`, false},
		{"null soil", `{"soilSensors":null,"dhtSensors":[],"lightSensor":"2"}`, false},
		{"missing dht", `{"soilSensors":["1"],"lightSensor":"2"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p SensorPayload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			err := p.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, 400, apiErr.StatusCode)
			assert.Equal(t, "Incomplete sensor data.", apiErr.Message)
		})
	}
}

func TestDHTReadingDefaultsStatus(t *testing.T) {
	var p SensorPayload
	body := `{"soilSensors":[],"dhtSensors":[{"temp":21.5,"hum":40},{"status":"Error"},{"temp":null,"status":"OK"}],"lightSensor":"1"}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	require.Len(t, p.DHTSensors, 3)
	assert.True(t, p.DHTSensors[0].OK())
	assert.Equal(t, 21.5, p.DHTSensors[0].Temp.Float64)
	assert.False(t, p.DHTSensors[1].OK())
	assert.True(t, p.DHTSensors[2].OK())
	assert.False(t, p.DHTSensors[2].Temp.Valid)
	assert.False(t, p.DHTSensors[2].Hum.Valid)
}

func TestTextValueAcceptsNumbers(t *testing.T) {
	var p SensorPayload
	require.NoError(t, json.Unmarshal([]byte(`{"soilSensors":[512,"Not working"],"dhtSensors":[],"lightSensor":3001}`), &p))

	r := p.Reading(time.Now())
	assert.Equal(t, []string{"512", NotWorking}, r.SoilSensors)
	assert.Equal(t, "3001", r.LightSensor)

	assert.Error(t, json.Unmarshal([]byte(`{"lightSensor":true}`), &p))
}

func TestSensorPayloadReadingTimestamp(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))

	var p SensorPayload
	require.NoError(t, json.Unmarshal([]byte(`{"soilSensors":[],"dhtSensors":[],"lightSensor":"1"}`), &p))
	r := p.Reading(now)
	assert.True(t, r.Timestamp.Equal(now))
	assert.Equal(t, time.UTC, r.Timestamp.Location())

	require.NoError(t, json.Unmarshal([]byte(`{"soilSensors":[],"dhtSensors":[],"lightSensor":"1","timestamp":"2024-01-02T03:04:05+05:30"}`), &p))
	r = p.Reading(now)
	assert.Equal(t, time.Date(2024, 1, 1, 21, 34, 5, 0, time.UTC), r.Timestamp)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 25, TotalPages(25, 1))
}

func TestWindowQueryOffset(t *testing.T) {
	tests := []struct {
		name string
		q    WindowQuery
		want int
	}{
		{"first page", WindowQuery{Page: 1, Limit: 10}, 0},
		{"third page", WindowQuery{Page: 3, Limit: 10}, 20},
		{"non-positive page", WindowQuery{Page: 0, Limit: 10}, 0},
		{"saturates", WindowQuery{Page: 1<<62 + 1, Limit: 4}, math.MaxInt},
		{"max page fits", WindowQuery{Page: MaxPage(4), Limit: 4}, math.MaxInt / 4 * 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Offset())
		})
	}
}
