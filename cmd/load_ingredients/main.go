package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	file := flag.String("file", "data/ingredients.csv", "CSV of name,measurement_unit rows")
	tagsFile := flag.String("tags", "", "Optional JSON array of {name, color, slug} tags")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	sugar, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	db, err := database.New(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	if cfg.AutoMigrate {
		if err := database.RunMigrations(db, cfg.MigrationsDir, sugar); err != nil {
			sugar.Fatalw("failed to migrate", "error", err)
		}
	}

	ctx := context.Background()
	reference := service.NewReferenceService(db, sugar)

	ingredients, err := readIngredientsFile(*file)
	if err != nil {
		sugar.Fatalw("failed to read ingredients", "file", *file, "error", err)
	}
	added, err := reference.LoadIngredients(ctx, ingredients)
	if err != nil {
		sugar.Fatalw("failed to load ingredients", "error", err)
	}
	sugar.Infow("ingredients done", "read", len(ingredients), "added", added)

	if *tagsFile == "" {
		return
	}
	tags, err := readTagsFile(*tagsFile)
	if err != nil {
		sugar.Fatalw("failed to read tags", "file", *tagsFile, "error", err)
	}
	added, err = reference.LoadTags(ctx, tags)
	if err != nil {
		sugar.Fatalw("failed to load tags", "error", err)
	}
	sugar.Infow("tags done", "read", len(tags), "added", added)
}

func readIngredientsFile(path string) ([]models.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseIngredients(f)
}

// parseIngredients reads headerless name,measurement_unit rows. Blank
// names are skipped and repeated pairs are collapsed.
func parseIngredients(r io.Reader) ([]models.Ingredient, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	seen := make(map[models.Ingredient]bool)
	var out []models.Ingredient
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		ing := models.Ingredient{
			Name:            strings.TrimSpace(record[0]),
			MeasurementUnit: strings.TrimSpace(record[1]),
		}
		if ing.Name == "" || ing.MeasurementUnit == "" || seen[ing] {
			continue
		}
		seen[ing] = true
		out = append(out, ing)
	}
}

func readTagsFile(path string) ([]models.Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tags []models.Tag
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, errors.Wrap(err, "decode tags")
	}
	return tags, nil
}
