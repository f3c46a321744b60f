package financial

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for financial analysis
type Handler struct {
	analyzer *Analyzer
	logger   *zap.Logger
}

// NewHandler creates a new financial handler
func NewHandler(analyzer *Analyzer, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// RegisterRoutes registers financial analysis routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	financial := router.Group("/financial")
	{
		financial.POST("/partial-budget", h.partialBudget)
		financial.POST("/compare", h.compareScenarios)
		financial.POST("/allocate", h.allocateBudget)
	}
}

func (h *Handler) partialBudget(c *gin.Context) {
	var input Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.analyzer.NetBenefit(input))
}

// compareRequest carries a current and a proposed monetized scenario
type compareRequest struct {
	Current  Scenario `json:"current" binding:"required"`
	Proposed Scenario `json:"proposed" binding:"required"`
}

func (h *Handler) compareScenarios(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.analyzer.CompareScenarios(req.Current, req.Proposed))
}

// allocateRequest asks for a greedy budget split across resources
type allocateRequest struct {
	ResourceCosts map[string]float64 `json:"resource_costs" binding:"required"`
	TotalBudget   float64            `json:"total_budget"`
	BenefitHints  map[string]float64 `json:"benefit_hints,omitempty"`
}

func (h *Handler) allocateBudget(c *gin.Context) {
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalBudget < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_budget must not be negative"})
		return
	}

	allocation := h.analyzer.AllocateBudget(req.ResourceCosts, req.TotalBudget, req.BenefitHints)
	c.JSON(http.StatusOK, gin.H{"allocation": allocation})
}
