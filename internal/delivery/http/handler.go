package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

const maxImageBytes = 10 << 20

// PlanGenerator builds weekly meal plans
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, request *domain.PlanRequest) (*domain.WeeklyPlan, error)
}

// FoodLookup answers catalog queries
type FoodLookup interface {
	ListFoodNames(ctx context.Context) ([]string, error)
	FindFood(ctx context.Context, name string) (*domain.FoodRecord, error)
}

// FoodDetector resolves the foods visible in an image
type FoodDetector interface {
	DetectFoods(ctx context.Context, image []byte, filename string) (*domain.DetectionResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	plans     PlanGenerator
	foods     FoodLookup
	detection FoodDetector
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. detection may be nil, in which case
// the detect endpoint answers 501.
func NewHandler(plans PlanGenerator, foods FoodLookup, detection FoodDetector, logger *zap.Logger) *Handler {
	return &Handler{
		plans:     plans,
		foods:     foods,
		detection: detection,
		logger:    logging.OrNop(logger),
	}
}

// apiError aborts the request with a JSON error body
func apiError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mealplanner-backend",
		"version": "1.0.0",
	})
}

// GenerateMealPlan handles POST /api/v1/meal-plans
func (h *Handler) GenerateMealPlan(c *gin.Context) {
	var req domain.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body: weight, height and age are required")
		return
	}

	plan, err := h.plans.GeneratePlan(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRequest):
			apiError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrCatalogUnavailable):
			apiError(c, http.StatusServiceUnavailable, err.Error())
		default:
			h.internalError(c, "meal plan generation failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListFoods handles GET /api/v1/foods
func (h *Handler) ListFoods(c *gin.Context) {
	names, err := h.foods.ListFoodNames(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			apiError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.internalError(c, "listing foods failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"food_names": names})
}

// GetFoodDetails handles GET /api/v1/foods/details?name=
func (h *Handler) GetFoodDetails(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		apiError(c, http.StatusBadRequest, "Food name is required")
		return
	}

	food, err := h.foods.FindFood(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFoodNotFound):
			apiError(c, http.StatusNotFound, "Food not found")
		case errors.Is(err, domain.ErrInvalidRequest):
			apiError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrCatalogUnavailable):
			apiError(c, http.StatusServiceUnavailable, err.Error())
		default:
			h.internalError(c, "food lookup failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, food)
}

// DetectFoods handles POST /api/v1/foods/detect with a multipart "image" field
func (h *Handler) DetectFoods(c *gin.Context) {
	if h.detection == nil {
		apiError(c, http.StatusNotImplemented, domain.ErrDetectorDisabled.Error())
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		apiError(c, http.StatusBadRequest, "No image uploaded")
		return
	}
	if header.Size > maxImageBytes {
		apiError(c, http.StatusRequestEntityTooLarge, "image exceeds 10 MB")
		return
	}

	file, err := header.Open()
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable image")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable image")
		return
	}

	result, err := h.detection.DetectFoods(c.Request.Context(), image, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidImage):
			apiError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDetectorDisabled):
			apiError(c, http.StatusNotImplemented, err.Error())
		case errors.Is(err, domain.ErrDetectorFailure):
			h.logger.Warn("detector failed", zap.Error(err))
			apiError(c, http.StatusBadGateway, domain.ErrDetectorFailure.Error())
		case errors.Is(err, domain.ErrCatalogUnavailable):
			apiError(c, http.StatusServiceUnavailable, err.Error())
		default:
			h.internalError(c, "food detection failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	apiError(c, http.StatusInternalServerError, "Internal server error")
}
