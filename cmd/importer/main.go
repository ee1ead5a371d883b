// Command importer bulk-loads the foods table from a CSV export.
//
// Usage:
//
//	importer --file foods.csv [--init-schema] [--database-url <url>]
//
// The database URL may also come from the DATABASE_URL environment variable
// or a local .env file. Rows are upserted by food name, so re-running the
// same file is safe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nutripoints/backend/internal/importer"
	"github.com/nutripoints/backend/internal/infrastructure/postgres"
)

var (
	csvFile     string
	databaseURL string
	initSchema  bool
)

var rootCmd = &cobra.Command{
	Use:          "importer",
	Short:        "Import foods from a CSV file into the nutrition table",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&csvFile, "file", "foods.csv", "path to the CSV file to import")
	rootCmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection URL (defaults to DATABASE_URL)")
	rootCmd.Flags().BoolVar(&initSchema, "init-schema", false, "create the foods table if it does not exist")
}

func run(cmd *cobra.Command, args []string) error {
	// Batch job ergonomics: pick up a local .env when present.
	_ = godotenv.Load()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (--database-url or DATABASE_URL)")
	}

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, postgres.PoolConfig{URL: databaseURL})
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewFoodRepository(pool, 0)

	if initSchema {
		if err := repo.InitSchema(ctx); err != nil {
			return err
		}
		fmt.Println("Schema ready.")
	}

	file, err := os.Open(csvFile)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	summary, err := importer.New(repo).ImportCSV(ctx, file)
	if err != nil {
		return err
	}

	fmt.Printf("Import finished: %d foods imported, %d rows skipped.\n", summary.Imported, summary.Skipped)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
