// Command simulator posts synthetic board readings to a running server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/sosodev/duration"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

func main() {
	url := flag.String("url", "http://localhost:8080/data", "ingestion endpoint")
	every := flag.String("interval", "PT5S", "ISO 8601 duration between readings")
	count := flag.Int("count", 0, "readings to send, 0 for no limit")
	soil := flag.Int("soil", 4, "soil probes per reading")
	dht := flag.Int("dht", 2, "DHT probes per reading")
	failRate := flag.Float64("fail-rate", 0.05, "chance a probe reports a failure")
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stdout, nil))

	interval, err := parseInterval(*every)
	if err != nil {
		log.Error("bad interval", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := &Simulator{
		Client:   resty.New().SetTimeout(10 * time.Second),
		URL:      *url,
		Gen:      NewGenerator(*soil, *dht, *failRate, rand.New(rand.NewSource(time.Now().UnixNano()))),
		Interval: interval,
		Log:      log,
	}
	sent := sim.Run(ctx, *count)
	log.Info("simulator stopped", "sent", sent)
}

// parseInterval accepts an ISO 8601 duration or a Go duration. The result
// must be positive.
func parseInterval(v string) (time.Duration, error) {
	var d time.Duration
	if strings.HasPrefix(strings.ToUpper(v), "P") {
		iso, err := duration.Parse(v)
		if err != nil {
			return 0, errors.Wrapf(err, "parse %q", v)
		}
		d = iso.ToTimeDuration()
	} else {
		var err error
		if d, err = time.ParseDuration(v); err != nil {
			return 0, errors.Wrapf(err, "parse %q", v)
		}
	}
	if d <= 0 {
		return 0, errors.Errorf("interval %q must be positive", v)
	}
	return d, nil
}

// Generator makes plausible board payloads.
type Generator struct {
	Soil     int
	DHT      int
	FailRate float64
	rnd      *rand.Rand
}

func NewGenerator(soil, dht int, failRate float64, rnd *rand.Rand) *Generator {
	return &Generator{Soil: soil, DHT: dht, FailRate: failRate, rnd: rnd}
}

// Payload builds one reading stamped with at.
func (g *Generator) Payload(at time.Time) map[string]any {
	soil := make([]string, g.Soil)
	for i := range soil {
		soil[i] = g.adc(1200, 3800)
	}

	dht := make([]map[string]any, g.DHT)
	for i := range dht {
		if g.failed() {
			dht[i] = map[string]any{"status": "Error"}
			continue
		}
		dht[i] = map[string]any{
			"temp":   round1(22 + g.rnd.Float64()*12),
			"hum":    round1(35 + g.rnd.Float64()*50),
			"status": models.StatusOK,
		}
	}

	return map[string]any{
		"soilSensors": soil,
		"dhtSensors":  dht,
		"lightSensor": g.adc(200, 4000),
		"timestamp":   at.UTC().Format(time.RFC3339),
	}
}

func (g *Generator) adc(lo, hi int) string {
	if g.failed() {
		return models.NotWorking
	}
	return strconv.Itoa(lo + g.rnd.Intn(hi-lo))
}

func (g *Generator) failed() bool {
	return g.rnd.Float64() < g.FailRate
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Simulator sends generated payloads on a fixed interval.
type Simulator struct {
	Client   *resty.Client
	URL      string
	Gen      *Generator
	Interval time.Duration
	Log      *slog.Logger
}

// Send posts one payload and reports a non-2xx answer as an error.
func (s *Simulator) Send(ctx context.Context, at time.Time) error {
	resp, err := s.Client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(s.Gen.Payload(at)).
		Post(s.URL)
	if err != nil {
		return errors.Wrap(err, "post reading")
	}
	if resp.IsError() {
		return errors.Errorf("server answered %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// Run sends until ctx is done or limit attempts were made (limit 0 means no
// limit) and returns how many readings were accepted.
func (s *Simulator) Run(ctx context.Context, limit int) int {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	sent := 0
	for attempt := 1; ; attempt++ {
		if err := s.Send(ctx, time.Now()); err != nil {
			s.Log.Warn("send failed", "error", err)
		} else {
			sent++
			s.Log.Info("reading sent", "n", sent)
		}
		if limit > 0 && attempt >= limit {
			return sent
		}

		select {
		case <-ctx.Done():
			return sent
		case <-ticker.C:
		}
	}
}
