// Command loadingredients bulk-loads the ingredient catalog from a CSV or
// JSON file. Names already present are skipped, so it is safe to rerun.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"foodgram/backend/internal/config"
	"foodgram/backend/internal/database"
	"foodgram/backend/internal/logger"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/store"

	"go.uber.org/zap"
)

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func main() {
	file := flag.String("file", "data/ingredients.csv", "CSV (name,measurement_unit) or JSON file to load")
	flag.Parse()

	config.LoadConfig()
	cfg := config.AppConfig
	if err := logger.InitializeLogger(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("Unable to initialize logger, %v", err)
	}
	defer logger.Close()

	ingredients, err := readIngredients(*file)
	if err != nil {
		logger.Logger.Fatal("Failed to read ingredients", zap.String("file", *file), zap.Error(err))
	}

	database.Connect(cfg)
	inserted, err := store.BulkCreateIngredients(context.Background(), database.DB, ingredients)
	if err != nil {
		logger.Logger.Fatal("Failed to load ingredients", zap.Error(err))
	}
	logger.Info("Ingredients loaded",
		zap.String("file", *file),
		zap.Int("read", len(ingredients)),
		zap.Int64("inserted", inserted),
	)
}

func readIngredients(path string) ([]models.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(f)
	case ".json":
		return parseJSON(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// parseCSV reads name,measurement_unit rows. A leading header row is skipped.
func parseCSV(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var ingredients []models.Ingredient
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if line == 1 && strings.EqualFold(record[0], "name") && strings.EqualFold(record[1], "measurement_unit") {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{Name: record[0], MeasurementUnit: record[1]})
	}
	return ingredients, nil
}

func parseJSON(r io.Reader) ([]models.Ingredient, error) {
	var records []ingredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	ingredients := make([]models.Ingredient, len(records))
	for i, rec := range records {
		ingredients[i] = models.Ingredient{Name: rec.Name, MeasurementUnit: rec.MeasurementUnit}
	}
	return ingredients, nil
}
