package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/lmittmann/tint"

	"github.com/aayushprsingh/Bhooyam-Dashboard/config"
	"github.com/aayushprsingh/Bhooyam-Dashboard/controllers"
	"github.com/aayushprsingh/Bhooyam-Dashboard/middlewares"
	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
	"github.com/aayushprsingh/Bhooyam-Dashboard/services"
	"github.com/aayushprsingh/Bhooyam-Dashboard/store"
)

const subscriberBuffer = 32

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := controllers.MigrateModels(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	hub := services.NewHub(subscriberBuffer)
	if err := config.WatchInserts(db, func(r models.SensorReading) { hub.Publish(r) }); err != nil {
		log.Error("failed to register insert hook", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Influx.Enabled() {
		client := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
		defer client.Close()
		mirror := services.NewInfluxMirror(hub, client.WriteAPIBlocking(cfg.Influx.Org, cfg.Influx.Bucket), log.With("component", "influx"))
		go mirror.Run(ctx)
		log.Info("influx mirror enabled", "url", cfg.Influx.URL, "bucket", cfg.Influx.Bucket)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	handler := controllers.NewSensorController(store.NewGormStore(db), hub, log, cfg.MaxPageSize)
	controllers.RegisterRoutes(r, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	// Close the hub first so websocket handlers return and Shutdown can finish.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.GinMode == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
}
