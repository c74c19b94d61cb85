package utils

import (
	"encoding/json"
	"fmt"

	"github.com/guregu/null"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

const (
	LightSeries = "Light"
	timeKey     = "time"
)

// Chart is a line-chart ready view of a window. Keys lists the series in
// display order; Empty tells the client to show a "no data" state.
type Chart struct {
	Keys  []string   `json:"keys"`
	Rows  []ChartRow `json:"rows"`
	Empty bool       `json:"empty"`
}

// ChartRow is one point in time. A null value is a gap in that series.
type ChartRow struct {
	Time   string
	Values map[string]null.Float
}

// MarshalJSON flattens the row into {"time": ..., "<series>": value, ...}.
func (r ChartRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Values)+1)
	for k, v := range r.Values {
		flat[k] = v
	}
	flat[timeKey] = r.Time
	return json.Marshal(flat)
}

func SoilSeries(probe int) string    { return fmt.Sprintf("Soil%d", probe) }
func DHTTempSeries(probe int) string { return fmt.Sprintf("DHT%d Temp", probe) }
func DHTHumSeries(probe int) string  { return fmt.Sprintf("DHT%d Hum", probe) }

// ChartKeys lists the series for soilCount soil and dhtCount DHT probes.
func ChartKeys(soilCount, dhtCount int) []string {
	keys := make([]string, 0, soilCount+2*dhtCount+1)
	for i := 1; i <= soilCount; i++ {
		keys = append(keys, SoilSeries(i))
	}
	for i := 1; i <= dhtCount; i++ {
		keys = append(keys, DHTTempSeries(i), DHTHumSeries(i))
	}
	return append(keys, LightSeries)
}

// BuildChart turns window into one row per reading, in window order.
func BuildChart(window []models.SensorReading) Chart {
	if len(window) == 0 {
		return Chart{Keys: []string{}, Rows: []ChartRow{}, Empty: true}
	}

	soilCount, dhtCount := ProbeCounts(window)
	chart := Chart{
		Keys: ChartKeys(soilCount, dhtCount),
		Rows: make([]ChartRow, 0, len(window)),
	}

	for _, r := range window {
		values := make(map[string]null.Float, len(chart.Keys))
		for i := 0; i < soilCount; i++ {
			var v null.Float
			if i < len(r.SoilSensors) {
				v = adcPoint(r.SoilSensors[i])
			}
			values[SoilSeries(i+1)] = v
		}
		for i := 0; i < dhtCount; i++ {
			var temp, hum null.Float
			if i < len(r.DHTSensors) && r.DHTSensors[i].OK() {
				temp, hum = r.DHTSensors[i].Temp, r.DHTSensors[i].Hum
			}
			values[DHTTempSeries(i+1)] = temp
			values[DHTHumSeries(i+1)] = hum
		}
		values[LightSeries] = adcPoint(r.LightSensor)

		chart.Rows = append(chart.Rows, ChartRow{Time: FormatLocal(r.Timestamp), Values: values})
	}
	return chart
}

func adcPoint(v string) null.Float {
	n, ok := ParseADC(v)
	if !ok {
		return null.Float{}
	}
	return null.FloatFrom(n.InexactFloat64())
}
