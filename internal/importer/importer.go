// Package importer loads the nutrition table from a CSV export. It is a batch
// collaborator of the serving path: the server itself never writes.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/nutripoints/backend/internal/domain"
)

// expected CSV header, in order
var expectedHeader = []string{
	"name",
	"calories_per_100g",
	"fat_per_100g",
	"fiber_per_100g",
	"protein_per_100g",
}

// Summary reports the outcome of one import run
type Summary struct {
	Imported int // rows upserted
	Skipped  int // rows rejected by validation
}

// Importer reads food rows from CSV and upserts them by name. Re-running the
// same file converges to the same table state.
type Importer struct {
	repo domain.FoodRepository
}

// New creates an importer writing through the given repository.
func New(repo domain.FoodRepository) *Importer {
	return &Importer{repo: repo}
}

// ImportCSV reads the CSV from r and upserts every valid row. Invalid rows
// (empty name, negative or non-numeric nutrient) are logged and skipped; a
// malformed file or a store failure aborts the run.
func (imp *Importer) ImportCSV(ctx context.Context, r io.Reader) (*Summary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	summary := &Summary{}
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		food, err := parseRow(record)
		if err != nil {
			log.Printf("skipping line %d: %v", line, err)
			summary.Skipped++
			continue
		}

		if err := imp.repo.Upsert(ctx, food); err != nil {
			return nil, fmt.Errorf("failed to import %q (line %d): %w", food.Name, line, err)
		}
		summary.Imported++
	}

	return summary, nil
}

// validateHeader checks the column layout so a wrong file fails fast instead
// of importing garbage.
func validateHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("expected %d CSV columns, got %d", len(expectedHeader), len(header))
	}
	for i, want := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("expected CSV column %d to be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

// parseRow converts one CSV record into a food. Empty nutrient cells become
// nil (absent), matching how the table stores unknown values.
func parseRow(record []string) (*domain.FoodRecord, error) {
	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, fmt.Errorf("food name is empty")
	}

	food := &domain.FoodRecord{Name: name}
	targets := []struct {
		column string
		field  **float64
	}{
		{"calories_per_100g", &food.CaloriesPer100g},
		{"fat_per_100g", &food.FatPer100g},
		{"fiber_per_100g", &food.FiberPer100g},
		{"protein_per_100g", &food.ProteinPer100g},
	}

	for i, target := range targets {
		cell := strings.TrimSpace(record[i+1])
		if cell == "" {
			continue
		}

		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("%s is not a number: %q", target.column, cell)
		}
		if value < 0 {
			return nil, fmt.Errorf("%s is negative: %v", target.column, value)
		}
		*target.field = &value
	}

	return food, nil
}
