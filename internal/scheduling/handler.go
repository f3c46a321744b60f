package scheduling

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"harvestwise/advisory-backend/internal/advisor"
	"harvestwise/advisory-backend/internal/crops"
	"harvestwise/advisory-backend/internal/fields"
	"harvestwise/advisory-backend/internal/weather"
)

// Exporter writes a generated schedule in one export format
type Exporter func(c *gin.Context, schedule []ScheduledOperation) error

// Handler handles HTTP requests for schedule generation
type Handler struct {
	generator *Generator
	fieldRepo fields.Repository
	exporters map[string]Exporter
	logger    *zap.Logger
}

// NewHandler creates a new scheduling handler
func NewHandler(generator *Generator, fieldRepo fields.Repository, logger *zap.Logger) *Handler {
	h := &Handler{
		generator: generator,
		fieldRepo: fieldRepo,
		logger:    logger,
	}
	h.exporters = map[string]Exporter{}
	return h
}

// RegisterExporter wires an export format into the export endpoint
func (h *Handler) RegisterExporter(format string, exporter Exporter) {
	h.exporters[format] = exporter
}

// RegisterRoutes registers scheduling routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	schedule := router.Group("/schedule")
	{
		schedule.POST("/fields/:id/generate", h.generate)
		schedule.GET("/fields/:id/export", h.export)
	}
}

// generateRequest optionally restricts which operations get scheduled
type generateRequest struct {
	Operations []string `json:"operations,omitempty"`
}

func (h *Handler) generate(c *gin.Context) {
	schedule, ok := h.generateForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func (h *Handler) export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	exporter, ok := h.exporters[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported export format %q", format)})
		return
	}

	schedule, ok := h.generateForField(c)
	if !ok {
		return
	}

	if err := exporter(c, schedule); err != nil {
		h.logger.Error("schedule export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}

// generateForField loads the field from the path parameter and runs the
// generator, writing the error response itself when something fails.
func (h *Handler) generateForField(c *gin.Context) ([]ScheduledOperation, bool) {
	fieldID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field id"})
		return nil, false
	}

	var req generateRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
	}

	field, err := h.fieldRepo.GetField(c.Request.Context(), fieldID)
	if err != nil {
		if errors.Is(err, fields.ErrFieldNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return nil, false
		}
		h.logger.Error("failed to load field", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	operations := make([]crops.OperationType, 0, len(req.Operations))
	for _, op := range req.Operations {
		operations = append(operations, crops.OperationType(op))
	}

	schedule, err := h.generator.GenerateSchedule(c.Request.Context(), field, operations)
	if err != nil {
		h.respondGenerateError(c, err)
		return nil, false
	}
	return schedule, true
}

func (h *Handler) respondGenerateError(c *gin.Context, err error) {
	var unavailable *weather.DataUnavailableError
	switch {
	case errors.Is(err, advisor.ErrNoSuitableWindow):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": unavailable.Error()})
	default:
		h.logger.Error("schedule generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
