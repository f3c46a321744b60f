package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"harvestwise/advisory-backend/internal/config"
	"harvestwise/advisory-backend/internal/weather"
)

// ForecastWorker periodically refreshes the forecast observation cache for
// every known field location so the offline fallback stays warm.
type ForecastWorker struct {
	db      *sqlx.DB
	service *weather.Service
	logger  *zap.Logger
	config  ForecastWorkerConfig
}

// ForecastWorkerConfig configuration for the forecast worker
type ForecastWorkerConfig struct {
	CronSpec     string
	ForecastDays int
	FetchTimeout time.Duration
}

// DefaultForecastWorkerConfig returns default configuration
func DefaultForecastWorkerConfig() ForecastWorkerConfig {
	return ForecastWorkerConfig{
		CronSpec:     "0 0 */6 * * *", // every six hours
		ForecastDays: 7,
		FetchTimeout: 30 * time.Second,
	}
}

// NewForecastWorker creates a new forecast worker
func NewForecastWorker(db *sqlx.DB, service *weather.Service, logger *zap.Logger, cfg ForecastWorkerConfig) *ForecastWorker {
	return &ForecastWorker{
		db:      db,
		service: service,
		logger:  logger,
		config:  cfg,
	}
}

// fieldLocation is a distinct forecast location pulled from the fields table
type fieldLocation struct {
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

// RefreshAll fetches a fresh forecast for every distinct field location.
// Fetch failures only log: the cache keeps whatever it already holds.
func (w *ForecastWorker) RefreshAll(ctx context.Context) {
	var locations []fieldLocation
	query := `SELECT DISTINCT latitude, longitude FROM fields WHERE latitude <> 0 OR longitude <> 0`
	if err := w.db.SelectContext(ctx, &locations, query); err != nil {
		w.logger.Error("failed to list field locations", zap.Error(err))
		return
	}

	w.logger.Info("refreshing forecast cache", zap.Int("locations", len(locations)))

	for _, loc := range locations {
		fetchCtx, cancel := context.WithTimeout(ctx, w.config.FetchTimeout)
		_, err := w.service.GetForecast(fetchCtx, loc.Latitude, loc.Longitude, w.config.ForecastDays)
		cancel()
		if err != nil {
			w.logger.Warn("forecast refresh failed",
				zap.Float64("latitude", loc.Latitude),
				zap.Float64("longitude", loc.Longitude),
				zap.Error(err))
		}
	}
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	provider := weather.NewOpenMeteoProvider(weather.OpenMeteoConfig{
		BaseURL: cfg.Weather.BaseURL,
		Timeout: cfg.Weather.FetchTimeout,
	})
	store := weather.NewPostgresObservationStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("Failed to migrate observation schema", zap.Error(err))
	}
	service := weather.NewService(provider, store, weather.ServiceConfig{
		CacheReadLimit: cfg.Weather.CacheReadLimit,
	}, logger)

	worker := NewForecastWorker(db, service, logger, DefaultForecastWorkerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(worker.config.CronSpec, func() { worker.RefreshAll(ctx) }); err != nil {
		logger.Fatal("Failed to schedule forecast refresh", zap.Error(err))
	}

	// Warm the cache on startup, then hand over to cron
	worker.RefreshAll(ctx)
	scheduler.Start()
	logger.Info("Forecast worker started", zap.String("cron", worker.config.CronSpec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Forecast worker shutting down")
	cancel()
	<-scheduler.Stop().Done()
}
