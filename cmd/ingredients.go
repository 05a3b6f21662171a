package cmd

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/foodgram-api/config"
	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var ingredientsFormat string

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients <file.json|file.csv>",
	Short: "Import the ingredient catalog, skipping existing (name, unit) pairs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := ingredientsFormat
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(args[0])), ".")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open ingredients file: %w", err)
		}
		defer f.Close()

		items, err := parseIngredients(f, format)
		if err != nil {
			return err
		}

		return withDB(cmd.Context(), func(cfg config.Config, db *gorm.DB) error {
			svc := services.New(db, services.Options{JWTSecret: cfg.JWTSecret, JWTTTL: cfg.JWTTTL}, nil)
			res, err := svc.Ingredients.Import(cmd.Context(), items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d ingredients (%d created, %d already present)\n",
				len(items), res.Created, res.Skipped)
			return nil
		})
	},
}

func init() {
	loadIngredientsCmd.Flags().StringVar(&ingredientsFormat, "format", "", "Input format: json or csv (default from file extension)")
	rootCmd.AddCommand(loadIngredientsCmd)
}

// parseIngredients reads a JSON array of {name, measurement_unit} objects or
// CSV rows of name,measurement_unit. A CSV header row is skipped.
func parseIngredients(r io.Reader, format string) ([]dto.IngredientRequest, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		var items []dto.IngredientRequest
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, fmt.Errorf("parse ingredients json: %w", err)
		}
		return items, nil
	case "csv":
		return parseIngredientsCSV(r)
	default:
		return nil, fmt.Errorf("unsupported format %q (use json or csv)", format)
	}
}

func parseIngredientsCSV(r io.Reader) ([]dto.IngredientRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var items []dto.IngredientRequest
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse ingredients csv: %w", err)
		}
		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(name, "name") && strings.EqualFold(unit, "measurement_unit") {
			continue
		}
		items = append(items, dto.IngredientRequest{Name: name, MeasurementUnit: unit})
	}
}
