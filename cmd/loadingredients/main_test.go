package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram/backend/internal/models"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []models.Ingredient
	}{
		{
			name:  "with header",
			input: "name,measurement_unit\nFlour,g\n\"Milk, whole\", ml\n",
			want:  []models.Ingredient{{Name: "Flour", MeasurementUnit: "g"}, {Name: "Milk, whole", MeasurementUnit: "ml"}},
		},
		{
			name:  "without header",
			input: "Egg,pcs\n",
			want:  []models.Ingredient{{Name: "Egg", MeasurementUnit: "pcs"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("parseCSV() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseCSV() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("row %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseCSVRejectsWrongFieldCount(t *testing.T) {
	if _, err := parseCSV(strings.NewReader("Flour,g,extra\n")); err == nil {
		t.Fatal("expected an error for a three-field row")
	}
}

func TestParseJSON(t *testing.T) {
	got, err := parseJSON(strings.NewReader(`[{"name":"Salt","measurement_unit":"g"},{"name":"Oil","measurement_unit":"ml"}]`))
	if err != nil {
		t.Fatalf("parseJSON() error = %v", err)
	}
	want := []models.Ingredient{{Name: "Salt", MeasurementUnit: "g"}, {Name: "Oil", MeasurementUnit: "ml"}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("parseJSON() = %+v, want %+v", got, want)
	}

	if _, err := parseJSON(strings.NewReader(`{"name":"Salt"}`)); err == nil {
		t.Error("expected an error for a non-array document")
	}
}

func TestReadIngredientsByExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "ingredients.CSV")
	if err := os.WriteFile(csvPath, []byte("Sugar,g\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := readIngredients(csvPath)
	if err != nil || len(got) != 1 || got[0].Name != "Sugar" {
		t.Fatalf("readIngredients(csv) = %+v, %v", got, err)
	}

	txtPath := filepath.Join(dir, "ingredients.txt")
	if err := os.WriteFile(txtPath, []byte("Sugar,g\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readIngredients(txtPath); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}
