package usecase

import (
	"fmt"
	"math"

	"github.com/nutripoints/backend/internal/domain"
)

// Formula names accepted by NewScoringFormula and the scoring.formula config key.
const (
	FormulaFourNutrient = "four_nutrient"
	FormulaTwoNutrient  = "two_nutrient"
)

// fiber contribution is capped at 4 g in the four-nutrient formula
const maxFiberGrams = 4.0

// ScaledNutrients holds nutrient amounts already scaled to the requested
// quantity. Absent nutrients are zero.
type ScaledNutrients struct {
	Calories float64
	Fat      float64
	Fiber    float64
	Protein  float64
}

// ScoringFormula converts scaled nutrient amounts into a non-negative integer
// points score. Implementations must be pure and safe for concurrent use.
type ScoringFormula interface {
	Score(n ScaledNutrients) int
	Name() string
}

// NewScoringFormula returns the formula registered under name, or an error for
// an unknown name.
func NewScoringFormula(name string) (ScoringFormula, error) {
	switch name {
	case FormulaFourNutrient:
		return fourNutrientFormula{}, nil
	case FormulaTwoNutrient:
		return twoNutrientFormula{}, nil
	default:
		return nil, fmt.Errorf("unknown scoring formula: %q", name)
	}
}

// ScalePer100g scales a per-100g nutrient value to a quantity in grams.
// An absent value counts as zero.
func ScalePer100g(per100g *float64, quantityGrams float64) float64 {
	if per100g == nil {
		return 0
	}
	return *per100g / 100 * quantityGrams
}

// ScaleFood scales all nutrient fields of a food to the given quantity.
func ScaleFood(food *domain.FoodRecord, quantityGrams float64) ScaledNutrients {
	return ScaledNutrients{
		Calories: ScalePer100g(food.CaloriesPer100g, quantityGrams),
		Fat:      ScalePer100g(food.FatPer100g, quantityGrams),
		Fiber:    ScalePer100g(food.FiberPer100g, quantityGrams),
		Protein:  ScalePer100g(food.ProteinPer100g, quantityGrams),
	}
}

// fourNutrientFormula is the classic points formula: calories and fat add
// points, fiber (capped at 4 g) and protein subtract them.
type fourNutrientFormula struct{}

func (fourNutrientFormula) Name() string { return FormulaFourNutrient }

func (fourNutrientFormula) Score(n ScaledNutrients) int {
	fiber := math.Min(n.Fiber, maxFiberGrams)
	raw := n.Calories/50 + n.Fat/12 - fiber/5 - n.Protein/10
	return clampScore(raw)
}

// twoNutrientFormula scores from calories and fat only.
type twoNutrientFormula struct{}

func (twoNutrientFormula) Name() string { return FormulaTwoNutrient }

func (twoNutrientFormula) Score(n ScaledNutrients) int {
	raw := n.Calories/60 + n.Fat/9
	return clampScore(raw)
}

// clampScore rounds half-to-even and floors the result at zero.
func clampScore(raw float64) int {
	score := int(math.RoundToEven(raw))
	if score < 0 {
		return 0
	}
	return score
}
