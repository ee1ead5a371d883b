package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutripoints/backend/internal/domain"
)

// PointsUsecase is the slice of the points service the HTTP layer depends on.
type PointsUsecase interface {
	SearchFoods(ctx context.Context, prefix string) ([]string, error)
	ComputePoints(ctx context.Context, foodName, rawQuantity string) (*domain.PointsResult, error)
	Formula() string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	points PointsUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(points PointsUsecase) *Handler {
	return &Handler{points: points}
}

// calculateResponse keeps the wire field names of the original front-end.
// The quantity is truncated to an integer for display only.
type calculateResponse struct {
	Food     string `json:"alimento"`
	Quantity int    `json:"quantidade"`
	Points   int    `json:"pontos"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutripoints-backend",
		"formula": h.points.Formula(),
	})
}

// SearchFoods handles autocomplete requests. It always answers 200 with a
// JSON array; short or missing queries yield an empty one.
func (h *Handler) SearchFoods(c *gin.Context) {
	names, err := h.points.SearchFoods(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Printf("search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "food search is temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, names)
}

// CalculatePoints handles points calculation requests. The body may be JSON
// or form-encoded; the food goes under "alimento" or "food" and the quantity
// under "quantidade" or "quantity", as a string or a number.
func (h *Handler) CalculatePoints(c *gin.Context) {
	food, quantity, ok := readCalculateRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food name and quantity are required"})
		return
	}

	result, err := h.points.ComputePoints(c.Request.Context(), food, quantity)
	if err != nil {
		h.writeCalculateError(c, err)
		return
	}

	c.JSON(http.StatusOK, calculateResponse{
		Food:     result.FoodName,
		Quantity: int(result.QuantityGrams),
		Points:   result.Points,
	})
}

// writeCalculateError translates domain errors to HTTP statuses. Internal
// details are logged, never sent to the client.
func (h *Handler) writeCalculateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a number greater than zero"})
	case errors.Is(err, domain.ErrFoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found in the nutrition table"})
	default:
		log.Printf("calculate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "points calculation is temporarily unavailable"})
	}
}
