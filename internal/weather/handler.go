package weather

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"harvestwise/advisory-backend/pkg/geo"
)

// Handler handles HTTP requests for forecast and suitability operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new weather handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers weather routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	weather := router.Group("/weather")
	{
		weather.GET("/forecast", h.getForecast)
		weather.POST("/windows", h.rankWindows)
		weather.POST("/suitability", h.checkSuitability)
	}
}

func (h *Handler) getForecast(c *gin.Context) {
	latitude, longitude, ok := h.parseCoordinates(c)
	if !ok {
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	forecast, err := h.service.GetForecast(c.Request.Context(), latitude, longitude, days)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// windowsRequest asks for scored suitability windows over a date range.
// Coordinates are pointers so a legitimate zero value still binds.
type windowsRequest struct {
	Latitude           *float64 `json:"latitude" binding:"required"`
	Longitude          *float64 `json:"longitude" binding:"required"`
	Days               int      `json:"days"`
	StartDate          string   `json:"start_date" binding:"required"`
	EndDate            string   `json:"end_date" binding:"required"`
	RequiresDryWeather bool     `json:"requires_dry_weather"`
}

func (h *Handler) rankWindows(c *gin.Context) {
	var req windowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := geo.ValidateCoordinates(*req.Latitude, *req.Longitude); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	days := req.Days
	if days <= 0 {
		days = 7
	}

	forecast, err := h.service.GetForecast(c.Request.Context(), *req.Latitude, *req.Longitude, days)
	if err != nil {
		h.respondError(c, err)
		return
	}

	windows := h.service.RankWindows(forecast, start, end, req.RequiresDryWeather)
	c.JSON(http.StatusOK, gin.H{
		"windows":         windows,
		"is_offline_data": forecast.Offline,
	})
}

// suitabilityRequest asks for a single-day suitability check
type suitabilityRequest struct {
	Latitude           *float64 `json:"latitude" binding:"required"`
	Longitude          *float64 `json:"longitude" binding:"required"`
	Date               string   `json:"date" binding:"required"`
	RequiresDryWeather bool     `json:"requires_dry_weather"`
}

func (h *Handler) checkSuitability(c *gin.Context) {
	var req suitabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := geo.ValidateCoordinates(*req.Latitude, *req.Longitude); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	forecast, err := h.service.GetForecast(c.Request.Context(), *req.Latitude, *req.Longitude, 7)
	if err != nil {
		h.respondError(c, err)
		return
	}

	report := h.service.CheckSuitability(forecast, date, req.RequiresDryWeather)
	c.JSON(http.StatusOK, report)
}

func (h *Handler) parseCoordinates(c *gin.Context) (float64, float64, bool) {
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude is required"})
		return 0, 0, false
	}
	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "longitude is required"})
		return 0, 0, false
	}
	if err := geo.ValidateCoordinates(latitude, longitude); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, false
	}
	return latitude, longitude, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var unavailable *DataUnavailableError
	if errors.As(err, &unavailable) {
		h.logger.Error("forecast sources exhausted", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": unavailable.Error()})
		return
	}

	h.logger.Error("weather request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
