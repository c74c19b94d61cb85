package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/guregu/null"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// ExportFilename is the attachment name used for CSV downloads.
const ExportFilename = "sensor_data.csv"

// CSVHeader returns the export columns for soilCount soil probes and
// dhtCount DHT probes.
func CSVHeader(soilCount, dhtCount int) []string {
	header := make([]string, 0, 2+soilCount+2*dhtCount)
	header = append(header, "timestamp")
	for i := 1; i <= soilCount; i++ {
		header = append(header, fmt.Sprintf("soilSensor%d", i))
	}
	for i := 1; i <= dhtCount; i++ {
		header = append(header, fmt.Sprintf("dhtSensor%d_temp", i))
	}
	for i := 1; i <= dhtCount; i++ {
		header = append(header, fmt.Sprintf("dhtSensor%d_hum", i))
	}
	return append(header, "lightSensor")
}

// CSVRow flattens one reading into the column layout of CSVHeader.
// Probe positions the reading does not have are left empty.
func CSVRow(r models.SensorReading, soilCount, dhtCount int) []string {
	row := make([]string, 0, 2+soilCount+2*dhtCount)
	row = append(row, FormatLocal(r.Timestamp))

	for i := 0; i < soilCount; i++ {
		if i < len(r.SoilSensors) {
			row = append(row, r.SoilSensors[i])
		} else {
			row = append(row, "")
		}
	}
	for i := 0; i < dhtCount; i++ {
		row = append(row, dhtField(r.DHTSensors, i, func(d models.DHTReading) null.Float { return d.Temp }))
	}
	for i := 0; i < dhtCount; i++ {
		row = append(row, dhtField(r.DHTSensors, i, func(d models.DHTReading) null.Float { return d.Hum }))
	}

	return append(row, r.LightSensor)
}

func dhtField(entries []models.DHTReading, i int, pick func(models.DHTReading) null.Float) string {
	if i >= len(entries) {
		return ""
	}
	d := entries[i]
	v := pick(d)
	if !d.OK() || !v.Valid {
		return models.NotWorking
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// WriteCSV writes window as a CSV table with a header row. An empty window
// is a NoDataError and nothing is written.
func WriteCSV(w io.Writer, window []models.SensorReading) error {
	if len(window) == 0 {
		return models.NoDataError("No data available for the specified filters.")
	}

	soilCount, dhtCount := ProbeCounts(window)
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader(soilCount, dhtCount)); err != nil {
		return err
	}
	for _, r := range window {
		if err := cw.Write(CSVRow(r, soilCount, dhtCount)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
