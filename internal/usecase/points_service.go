package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nutripoints/backend/internal/domain"
)

const (
	// defaultSearchLimit bounds autocomplete result size
	defaultSearchLimit = 10

	// minPrefixRunes guards the store against overly broad prefix scans
	minPrefixRunes = 2
)

// PointsServiceConfig holds configuration for the points service
type PointsServiceConfig struct {
	SearchLimit int
}

// PointsService answers autocomplete searches and points calculations against
// the nutrition table. It holds no mutable state; every call is a single
// request/response round trip.
type PointsService struct {
	repo        domain.FoodRepository
	formula     ScoringFormula
	searchLimit int
}

// NewPointsService creates a points service with its dependencies.
func NewPointsService(repo domain.FoodRepository, formula ScoringFormula, config PointsServiceConfig) *PointsService {
	searchLimit := config.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}

	return &PointsService{
		repo:        repo,
		formula:     formula,
		searchLimit: searchLimit,
	}
}

// SearchFoods returns food names starting with prefix, case-insensitively.
// Prefixes shorter than two runes return an empty list without touching the
// store.
func (s *PointsService) SearchFoods(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minPrefixRunes {
		return []string{}, nil
	}

	names, err := s.repo.SearchByPrefix(ctx, prefix, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ComputePoints looks up a food by exact name, scales its per-100g nutrients
// to rawQuantity grams and scores them with the configured formula.
// rawQuantity must parse to a finite number greater than zero.
func (s *PointsService) ComputePoints(ctx context.Context, foodName, rawQuantity string) (*domain.PointsResult, error) {
	foodName = strings.TrimSpace(foodName)
	if foodName == "" {
		return nil, fmt.Errorf("%w: food name is required", domain.ErrInvalidRequest)
	}

	quantity, err := parseQuantity(rawQuantity)
	if err != nil {
		return nil, err
	}

	food, err := s.repo.GetByName(ctx, foodName)
	if err != nil {
		if errors.Is(err, domain.ErrFoodNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	scaled := ScaleFood(food, quantity)

	return &domain.PointsResult{
		FoodName:      food.Name,
		QuantityGrams: quantity,
		Points:        s.formula.Score(scaled),
	}, nil
}

// Formula reports the name of the configured scoring formula.
func (s *PointsService) Formula() string {
	return s.formula.Name()
}

// parseQuantity parses a quantity in grams, rejecting anything that is not a
// finite number greater than zero.
func parseQuantity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: quantity is required", domain.ErrInvalidRequest)
	}

	quantity, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0, fmt.Errorf("%w: quantity must be a valid number", domain.ErrInvalidRequest)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidRequest)
	}

	return quantity, nil
}
