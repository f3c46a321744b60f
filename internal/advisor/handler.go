package advisor

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"harvestwise/advisory-backend/internal/crops"
	"harvestwise/advisory-backend/internal/estimator"
	"harvestwise/advisory-backend/internal/fields"
	"harvestwise/advisory-backend/internal/weather"
)

// ForecastSource is the slice of the weather service the handler needs
type ForecastSource interface {
	GetForecast(ctx context.Context, latitude, longitude float64, days int) (*weather.Forecast, error)
}

// Handler handles HTTP requests for operation recommendations
type Handler struct {
	engine    *Engine
	fieldRepo fields.Repository
	forecasts ForecastSource
	logger    *zap.Logger
}

// NewHandler creates a new advisor handler
func NewHandler(engine *Engine, fieldRepo fields.Repository, forecasts ForecastSource, logger *zap.Logger) *Handler {
	return &Handler{
		engine:    engine,
		fieldRepo: fieldRepo,
		forecasts: forecasts,
		logger:    logger,
	}
}

// RegisterRoutes registers advisor routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recommendations", h.recommend)
}

// recommendRequest asks for the best date for one operation on one field
type recommendRequest struct {
	FieldID          uuid.UUID `json:"field_id" binding:"required"`
	OperationType    string    `json:"operation_type" binding:"required"`
	BudgetConstraint *float64  `json:"budget_constraint,omitempty"`
	HorizonDays      int       `json:"horizon_days,omitempty"`
}

func (h *Handler) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	field, err := h.fieldRepo.GetField(c.Request.Context(), req.FieldID)
	if err != nil {
		if errors.Is(err, fields.ErrFieldNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return
		}
		h.logger.Error("failed to load field", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if req.HorizonDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "horizon_days must not be negative"})
		return
	}
	horizon := h.engine.HorizonOrDefault(req.HorizonDays)

	forecast, err := h.forecasts.GetForecast(c.Request.Context(), field.Latitude, field.Longitude, horizon)
	if err != nil {
		var unavailable *weather.DataUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": unavailable.Error()})
			return
		}
		h.logger.Error("failed to load forecast", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	recommendation, err := h.engine.Recommend(c.Request.Context(), field, crops.OperationType(req.OperationType), req.BudgetConstraint, forecast, req.HorizonDays)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recommendation)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoSuitableWindow):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		var invalid *estimator.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		h.logger.Error("recommendation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
