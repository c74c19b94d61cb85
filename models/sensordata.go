package models

import (
	"encoding/json"
	"time"

	"github.com/guregu/null"
	"github.com/pkg/errors"
)

const (
	// NotWorking is what the board reports for a soil or light probe that failed to read.
	NotWorking = "Not working"
	// StatusOK marks a DHT probe that produced a reading.
	StatusOK = "OK"
)

// SensorReading is one timestamped snapshot of every probe on the board.
// Probe identity is the position inside SoilSensors and DHTSensors.
type SensorReading struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	SoilSensors []string     `json:"soilSensors" gorm:"serializer:json;type:text"`
	DHTSensors  []DHTReading `json:"dhtSensors" gorm:"serializer:json;type:text"`
	LightSensor string       `json:"lightSensor"`
	Timestamp   time.Time    `json:"timestamp" gorm:"index;not null"`
}

// TableName keeps the table name stable regardless of the struct name.
func (SensorReading) TableName() string {
	return "sensor_readings"
}

// DHTReading is a single temperature/humidity probe entry.
type DHTReading struct {
	Temp   null.Float `json:"temp"`
	Hum    null.Float `json:"hum"`
	Status string     `json:"status"`
}

// UnmarshalJSON defaults Status to "OK" when the device leaves it out.
func (d *DHTReading) UnmarshalJSON(b []byte) error {
	type plain DHTReading
	v := plain{Status: StatusOK}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = DHTReading(v)
	return nil
}

// OK reports whether the probe status marks the entry as usable.
func (d DHTReading) OK() bool {
	return d.Status == StatusOK
}

// TextValue accepts either a JSON string or a JSON number and keeps its text.
// Devices are inconsistent about quoting ADC values.
type TextValue string

func (v *TextValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Errorf("expected string or number, got %s", b)
	}
	*v = TextValue(n.String())
	return nil
}

// SensorPayload is the body accepted by POST /data.
type SensorPayload struct {
	SoilSensors []TextValue  `json:"soilSensors"`
	DHTSensors  []DHTReading `json:"dhtSensors"`
	LightSensor *TextValue   `json:"lightSensor"`
	Timestamp   *time.Time   `json:"timestamp"`
}

// Validate only checks that the three top-level sensor groups are present.
// Probe entries themselves are accepted as sent.
func (p SensorPayload) Validate() error {
	if p.SoilSensors == nil || p.DHTSensors == nil || p.LightSensor == nil || *p.LightSensor == "" {
		return ValidationError("Incomplete sensor data.")
	}
	return nil
}

// Reading builds the record to persist. now is used when the payload has no timestamp.
func (p SensorPayload) Reading(now time.Time) SensorReading {
	soil := make([]string, len(p.SoilSensors))
	for i, v := range p.SoilSensors {
		soil[i] = string(v)
	}

	ts := now
	if p.Timestamp != nil && !p.Timestamp.IsZero() {
		ts = *p.Timestamp
	}

	var light string
	if p.LightSensor != nil {
		light = string(*p.LightSensor)
	}

	return SensorReading{
		SoilSensors: soil,
		DHTSensors:  append([]DHTReading{}, p.DHTSensors...),
		LightSensor: light,
		Timestamp:   ts.UTC(),
	}
}
