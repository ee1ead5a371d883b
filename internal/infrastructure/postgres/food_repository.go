package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nutripoints/backend/internal/domain"
)

// defaultQueryTimeout bounds individual queries so slow store responses do not
// pile up requests.
const defaultQueryTimeout = 5 * time.Second

// FoodRepository is the pgx-backed implementation of domain.FoodRepository.
// Queries borrow a connection from the pool for their duration only, so every
// exit path releases it.
type FoodRepository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewFoodRepository creates a repository on top of an existing pool.
// queryTimeout bounds each query; zero selects the default.
func NewFoodRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *FoodRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &FoodRepository{
		pool:         pool,
		queryTimeout: queryTimeout,
	}
}

// SearchByPrefix returns up to limit food names starting with prefix,
// case-insensitively, in lexicographic order.
func (r *FoodRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	pattern := escapeLikePattern(prefix) + "%"

	rows, err := r.pool.Query(ctx,
		`SELECT name FROM foods WHERE name ILIKE $1 ORDER BY name LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan food name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return names, nil
}

// GetByName returns the food with exactly the given name.
func (r *FoodRepository) GetByName(ctx context.Context, name string) (*domain.FoodRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	food := domain.FoodRecord{Name: name}
	err := r.pool.QueryRow(ctx,
		`SELECT calories_per_100g, fat_per_100g, fiber_per_100g, protein_per_100g
		 FROM foods WHERE name = $1`,
		name,
	).Scan(&food.CaloriesPer100g, &food.FatPer100g, &food.FiberPer100g, &food.ProteinPer100g)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to get food %q: %w", name, err)
	}

	return &food, nil
}

// Upsert inserts the food or overwrites the nutrient values of an existing
// row with the same name. Used by the bulk-import job.
func (r *FoodRepository) Upsert(ctx context.Context, food *domain.FoodRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO foods (name, calories_per_100g, fat_per_100g, fiber_per_100g, protein_per_100g)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO UPDATE SET
		   calories_per_100g = EXCLUDED.calories_per_100g,
		   fat_per_100g = EXCLUDED.fat_per_100g,
		   fiber_per_100g = EXCLUDED.fiber_per_100g,
		   protein_per_100g = EXCLUDED.protein_per_100g`,
		food.Name, food.CaloriesPer100g, food.FatPer100g, food.FiberPer100g, food.ProteinPer100g,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert food %q: %w", food.Name, err)
	}

	return nil
}

// InitSchema creates the foods table if it does not exist. Safe to run
// repeatedly; invoked by the import job, never by the serving path.
func (r *FoodRepository) InitSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS foods (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			calories_per_100g NUMERIC(10, 2),
			fat_per_100g NUMERIC(10, 2),
			fiber_per_100g NUMERIC(10, 2),
			protein_per_100g NUMERIC(10, 2)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create foods table: %w", err)
	}

	return nil
}

// escapeLikePattern escapes LIKE metacharacters in user input so a prefix
// search cannot be turned into an arbitrary pattern match.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
