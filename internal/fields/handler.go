package fields

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for field reference data
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

// NewHandler creates a new fields handler
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// RegisterRoutes registers field routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/fields")
	{
		group.POST("", h.createField)
		group.GET("", h.listFields)
		group.GET("/:id", h.getField)
	}
}

func (h *Handler) createField(c *gin.Context) {
	var field Field
	if err := c.ShouldBindJSON(&field); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if field.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if field.AreaHectares < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area_hectares must not be negative"})
		return
	}

	if err := h.repo.CreateField(c.Request.Context(), &field); err != nil {
		h.logger.Error("failed to create field", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, field)
}

func (h *Handler) getField(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field id"})
		return
	}

	field, err := h.repo.GetField(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrFieldNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return
		}
		h.logger.Error("failed to get field", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, field)
}

func (h *Handler) listFields(c *gin.Context) {
	var farmID *uuid.UUID
	if raw := c.Query("farm_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid farm id"})
			return
		}
		farmID = &parsed
	}

	result, err := h.repo.ListFields(c.Request.Context(), farmID)
	if err != nil {
		h.logger.Error("failed to list fields", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": result})
}
