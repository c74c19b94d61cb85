package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultPort        = "8080"
	defaultSQLitePath  = "file:bhooyam.db"
	defaultCORSOrigin  = "http://localhost:5173"
	defaultMaxPageSize = 1000
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	DBDriver    string
	DatabaseURL string
	CORSOrigins []string
	MaxPageSize int
	GinMode     string
	LogLevel    slog.Level
	Influx      InfluxConfig
}

// InfluxConfig points at the optional InfluxDB mirror.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Enabled reports whether enough is set to open a client.
func (c InfluxConfig) Enabled() bool {
	return c.URL != "" && c.Token != ""
}

// Load reads .env if present and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", defaultPort),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", defaultCORSOrigin)),
		MaxPageSize: defaultMaxPageSize,
		GinMode:     os.Getenv("GIN_MODE"),
		Influx: InfluxConfig{
			URL:    os.Getenv("INFLUXDB_URL"),
			Token:  os.Getenv("INFLUXDB_TOKEN"),
			Org:    os.Getenv("INFLUXDB_ORG"),
			Bucket: getEnv("INFLUXDB_BUCKET", "sensor_readings"),
		},
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultSQLitePath
		}
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if v := os.Getenv("MAX_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, errors.Errorf("MAX_PAGE_SIZE must be a positive integer, got %q", v)
		}
		cfg.MaxPageSize = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, errors.Wrapf(err, "invalid LOG_LEVEL %q", v)
		}
	}

	if cfg.Influx.Enabled() && cfg.Influx.Org == "" {
		return nil, errors.New("INFLUXDB_ORG is required when INFLUXDB_URL is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
