package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// FullScale is the top of the ESP32 12-bit ADC range. Soil and light readings
// are reported as raw ADC counts and normalized against it.
const FullScale = 4095

// TimeLayout is used for every human-facing timestamp (CSV and charts).
const TimeLayout = "2006-01-02 15:04:05"

// IST is the fixed UTC+05:30 zone the farm dashboards are read in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// FormatLocal renders t in IST using TimeLayout.
func FormatLocal(t time.Time) string {
	return t.In(IST).Format(TimeLayout)
}

// IsNotWorking reports whether a soil or light value is the failure sentinel.
func IsNotWorking(v string) bool {
	return v == models.NotWorking
}

// ParseADC reads the leading integer of a soil or light value, the way the
// firmware dashboards always have: "512" and "512.7" are both 512.
// There is no upper bound on the number of digits.
// ok is false for the sentinel and for text with no leading digits.
func ParseADC(v string) (n decimal.Decimal, ok bool) {
	if IsNotWorking(v) {
		return decimal.Zero, false
	}
	s := strings.TrimSpace(v)
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return decimal.Zero, false
	}
	n, err := decimal.NewFromString(s[start:i])
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		n = n.Neg()
	}
	return n, true
}

// ProbeCounts returns the largest soil and DHT probe counts seen in window.
// Columns and chart series are sized from these so a record with more probes
// than the first one is never truncated.
func ProbeCounts(window []models.SensorReading) (soil, dht int) {
	for _, r := range window {
		if len(r.SoilSensors) > soil {
			soil = len(r.SoilSensors)
		}
		if len(r.DHTSensors) > dht {
			dht = len(r.DHTSensors)
		}
	}
	return soil, dht
}
