package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
	"github.com/aayushprsingh/Bhooyam-Dashboard/utils"
)

const (
	influxMeasurement  = "sensor_readings"
	influxWriteTimeout = 5 * time.Second
)

// PointWriter is the part of the InfluxDB write API the mirror needs.
// api.WriteAPIBlocking satisfies it.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// InfluxMirror copies every reading published on a Hub into InfluxDB.
// Write failures are logged and the reading is not retried.
type InfluxMirror struct {
	hub    *Hub
	writer PointWriter
	log    *slog.Logger
}

func NewInfluxMirror(hub *Hub, writer PointWriter, log *slog.Logger) *InfluxMirror {
	return &InfluxMirror{hub: hub, writer: writer, log: log}
}

// Run consumes the hub until ctx is done or the hub is closed.
func (m *InfluxMirror) Run(ctx context.Context) {
	id, events := m.hub.Subscribe()
	defer m.hub.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.write(ctx, ev.Data)
		}
	}
}

func (m *InfluxMirror) write(ctx context.Context, r models.SensorReading) {
	ctx, cancel := context.WithTimeout(ctx, influxWriteTimeout)
	defer cancel()

	if err := m.writer.WritePoint(ctx, ReadingPoint(r)); err != nil {
		m.log.Warn("influx mirror write failed", "id", r.ID, "error", err)
		return
	}
	m.log.Debug("influx mirror wrote reading", "id", r.ID)
}

// ReadingPoint converts r into a single point. Sentinel and unparseable probe
// values and DHT entries that are not OK are left out.
func ReadingPoint(r models.SensorReading) *write.Point {
	p := influxdb2.NewPointWithMeasurement(influxMeasurement).SetTime(r.Timestamp)

	for i, v := range r.SoilSensors {
		if n, ok := adcField(v); ok {
			p.AddField(fmt.Sprintf("soil%d", i+1), n)
		}
	}
	for i, d := range r.DHTSensors {
		if !d.OK() {
			continue
		}
		if d.Temp.Valid {
			p.AddField(fmt.Sprintf("dht%d_temp", i+1), d.Temp.Float64)
		}
		if d.Hum.Valid {
			p.AddField(fmt.Sprintf("dht%d_hum", i+1), d.Hum.Float64)
		}
	}
	if n, ok := adcField(r.LightSensor); ok {
		p.AddField("light", n)
	}
	return p
}

// adcField keeps integer fields integer typed. Values outside int64 are dropped.
func adcField(v string) (int64, bool) {
	n, ok := utils.ParseADC(v)
	if !ok {
		return 0, false
	}
	b := n.BigInt()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}
