package domain

// FoodRecord represents one row of the nutrition table. Nutrient fields are
// per 100 grams and may be absent in the source data, hence the pointers.
type FoodRecord struct {
	Name            string   `json:"name"`
	CaloriesPer100g *float64 `json:"caloriesPer100g,omitempty"`
	FatPer100g      *float64 `json:"fatPer100g,omitempty"`
	FiberPer100g    *float64 `json:"fiberPer100g,omitempty"`
	ProteinPer100g  *float64 `json:"proteinPer100g,omitempty"`
}

// PointsResult is the outcome of a points calculation for one food and
// quantity. QuantityGrams is echoed as the caller supplied it; the HTTP layer
// truncates it for display.
type PointsResult struct {
	FoodName      string  `json:"foodName"`
	QuantityGrams float64 `json:"quantityGrams"`
	Points        int     `json:"points"`
}
