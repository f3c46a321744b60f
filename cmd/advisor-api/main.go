package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"harvestwise/advisory-backend/internal/advisor"
	"harvestwise/advisory-backend/internal/config"
	"harvestwise/advisory-backend/internal/crops"
	"harvestwise/advisory-backend/internal/estimator"
	"harvestwise/advisory-backend/internal/fields"
	"harvestwise/advisory-backend/internal/financial"
	"harvestwise/advisory-backend/internal/scheduling"
	"harvestwise/advisory-backend/internal/scheduling/export"
	"harvestwise/advisory-backend/internal/weather"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	dbURL := cfg.Database.GetDatabaseURL()
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// Reference data goes through gorm on the same connection pool
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to initialize ORM", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(&fields.Field{}); err != nil {
		logger.Fatal("Failed to migrate field schema", zap.Error(err))
	}

	catalog, err := crops.LoadCatalog(cfg.Advisory.CropProfilePath)
	if err != nil {
		logger.Fatal("Failed to load crop profiles", zap.Error(err))
	}

	est := estimator.NewDefault()

	// Weather module
	provider := weather.NewOpenMeteoProvider(weather.OpenMeteoConfig{
		BaseURL: cfg.Weather.BaseURL,
		Timeout: cfg.Weather.FetchTimeout,
	})
	observationStore := weather.NewPostgresObservationStore(db)
	if err := observationStore.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("Failed to migrate observation schema", zap.Error(err))
	}
	weatherService := weather.NewService(provider, observationStore, weather.ServiceConfig{
		CacheReadLimit: cfg.Weather.CacheReadLimit,
	}, logger)
	weatherHandler := weather.NewHandler(weatherService, logger)

	// Field reference data
	fieldRepo := fields.NewGormRepository(gormDB)
	fieldsHandler := fields.NewHandler(fieldRepo, logger)

	// Recommendation engine
	engine := advisor.NewEngine(weatherService, est, advisor.Config{
		HorizonDays: cfg.Advisory.HorizonDays,
		Currency:    cfg.Advisory.Currency,
	}, logger)
	advisorHandler := advisor.NewHandler(engine, fieldRepo, weatherService, logger)

	// Schedule generator
	generator := scheduling.NewGenerator(weatherService, est, catalog, scheduling.Config{
		ForecastDays:     cfg.Advisory.ForecastDays,
		SearchRadiusDays: cfg.Advisory.SearchRadiusDays,
	}, logger)
	schedulingHandler := scheduling.NewHandler(generator, fieldRepo, logger)
	schedulingHandler.RegisterExporter("csv", func(c *gin.Context, schedule []scheduling.ScheduledOperation) error {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="schedule.csv"`)
		return export.WriteScheduleCSV(c.Writer, schedule, export.DefaultCSVOptions())
	})
	schedulingHandler.RegisterExporter("xlsx", func(c *gin.Context, schedule []scheduling.ScheduledOperation) error {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="schedule.xlsx"`)
		return export.WriteScheduleExcel(c.Writer, schedule, export.DefaultExcelOptions())
	})

	// Partial budgeting
	analyzer := financial.NewAnalyzer(cfg.Advisory.Currency)
	financialHandler := financial.NewHandler(analyzer, logger)

	// Router
	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API alive!"})
	})

	api := router.Group("/api/v1")
	{
		weatherHandler.RegisterRoutes(api)
		fieldsHandler.RegisterRoutes(api)
		advisorHandler.RegisterRoutes(api)
		schedulingHandler.RegisterRoutes(api)
		financialHandler.RegisterRoutes(api)
	}

	server := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
