package domain

import "context"

// FoodRepository defines read access to the nutrition table plus the upsert
// used by the bulk-import job. The serving path only ever reads.
type FoodRepository interface {
	// SearchByPrefix returns up to limit food names whose name starts with
	// prefix, matched case-insensitively, ordered lexicographically.
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]string, error)

	// GetByName returns the food with exactly the given name, or
	// ErrFoodNotFound if no row matches.
	GetByName(ctx context.Context, name string) (*FoodRecord, error)

	// Upsert inserts the food or, when a row with the same name exists,
	// overwrites its nutrient values.
	Upsert(ctx context.Context, food *FoodRecord) error
}
