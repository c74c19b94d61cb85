package utils

import (
	"github.com/guregu/null"
	"github.com/shopspring/decimal"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// Averages is the dashboard summary of a window of readings.
type Averages struct {
	SoilSensors []SoilAverage `json:"soilSensors"`
	DHTSensors  []DHTAverage  `json:"dhtSensors"`
	// LightSensor is 0 rather than absent when no light sample qualified.
	LightSensor float64 `json:"lightSensor"`
	Readings    int     `json:"readings"`
	// Skipped counts soil/light values that were neither numeric nor the sentinel.
	Skipped int `json:"skipped"`
}

// SoilAverage is a soil probe's mean moisture as a percentage of FullScale.
type SoilAverage struct {
	Probe   int     `json:"probe"`
	Percent float64 `json:"percent"`
	Samples int     `json:"samples"`
}

// DHTAverage holds a DHT probe's mean temperature and humidity in native units.
type DHTAverage struct {
	Probe   int        `json:"probe"`
	Temp    null.Float `json:"temp"`
	Hum     null.Float `json:"hum"`
	Samples int        `json:"samples"`
}

type adcSum struct {
	sum   decimal.Decimal
	count int64
}

func (a *adcSum) add(v decimal.Decimal) {
	a.sum = a.sum.Add(v)
	a.count++
}

// percent is sum/count/FullScale*100 rounded to two places.
func (a adcSum) percent() float64 {
	if a.count == 0 {
		return 0
	}
	num := a.sum.Mul(decimal.NewFromInt(100))
	den := decimal.NewFromInt(a.count * FullScale)
	return num.Div(den).Round(2).InexactFloat64()
}

type floatSum struct {
	sum   decimal.Decimal
	count int64
}

func (f *floatSum) add(v float64) {
	f.sum = f.sum.Add(decimal.NewFromFloat(v))
	f.count++
}

func (f floatSum) mean() null.Float {
	if f.count == 0 {
		return null.Float{}
	}
	return null.FloatFrom(f.sum.Div(decimal.NewFromInt(f.count)).Round(2).InexactFloat64())
}

type dhtSum struct {
	ok   int
	temp floatSum
	hum  floatSum
}

// ComputeAverages summarises window for the dashboard gauges.
//
// Soil probes and the light sensor skip the sentinel and are normalized to a
// percentage of FullScale. DHT probes only count entries whose status is OK
// and are left in native units. A probe with no qualifying sample is left
// out of the result; the light sensor is reported as 0 instead.
func ComputeAverages(window []models.SensorReading) Averages {
	soilCount, dhtCount := ProbeCounts(window)
	soil := make([]adcSum, soilCount)
	dht := make([]dhtSum, dhtCount)
	var light adcSum

	out := Averages{Readings: len(window)}

	for _, r := range window {
		for i, v := range r.SoilSensors {
			if IsNotWorking(v) {
				continue
			}
			n, ok := ParseADC(v)
			if !ok {
				out.Skipped++
				continue
			}
			soil[i].add(n)
		}

		for i, d := range r.DHTSensors {
			if !d.OK() {
				continue
			}
			dht[i].ok++
			if d.Temp.Valid {
				dht[i].temp.add(d.Temp.Float64)
			}
			if d.Hum.Valid {
				dht[i].hum.add(d.Hum.Float64)
			}
		}

		if !IsNotWorking(r.LightSensor) {
			if n, ok := ParseADC(r.LightSensor); ok {
				light.add(n)
			} else {
				out.Skipped++
			}
		}
	}

	out.SoilSensors = make([]SoilAverage, 0, soilCount)
	for i, s := range soil {
		if s.count == 0 {
			continue
		}
		out.SoilSensors = append(out.SoilSensors, SoilAverage{
			Probe:   i + 1,
			Percent: s.percent(),
			Samples: int(s.count),
		})
	}

	out.DHTSensors = make([]DHTAverage, 0, dhtCount)
	for i, d := range dht {
		if d.ok == 0 {
			continue
		}
		out.DHTSensors = append(out.DHTSensors, DHTAverage{
			Probe:   i + 1,
			Temp:    d.temp.mean(),
			Hum:     d.hum.mean(),
			Samples: d.ok,
		})
	}

	out.LightSensor = light.percent()
	return out
}
