package store

import (
	"context"
	"testing"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/models"
)

func TestCreateTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := CreateTag(ctx, f.db, "Quick Dinner", "")
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.Slug != "quick-dinner" {
		t.Errorf("slug = %q, want quick-dinner", tag.Slug)
	}

	tests := []struct {
		name, tagName, slug, field string
	}{
		{"blank name", " ", "", "name"},
		{"name taken", "Lunch", "midday", "name"},
		{"slug taken", "Midday", "lunch", "slug"},
		{"bad slug", "Brunch", "Not A Slug", "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateTag(ctx, f.db, tt.tagName, tt.slug)
			wantKind(t, err, apperr.KindValidation)
			if appErr, _ := apperr.As(err); appErr.Field != tt.field {
				t.Errorf("field = %q, want %q", appErr.Field, tt.field)
			}
		})
	}
	if n := count(t, f.db, &models.Tag{}); n != 3 {
		t.Errorf("tags = %d, want 3", n)
	}
}

func TestUpdateAndDeleteTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipe := f.createRecipe(t, f.author.ID, f.draft("Stew", []uint{f.lunch.ID, f.vegan.ID}, line(f.egg.ID, 1)))

	name := "Supper"
	tag, err := UpdateTag(ctx, f.db, f.lunch.ID, &name, nil)
	if err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	if tag.Name != "Supper" || tag.Slug != "lunch" {
		t.Errorf("tag = %+v", tag)
	}

	taken := "vegan"
	_, err = UpdateTag(ctx, f.db, f.lunch.ID, nil, &taken)
	wantKind(t, err, apperr.KindValidation)

	if err := DeleteTag(ctx, f.db, f.lunch.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	wantKind(t, DeleteTag(ctx, f.db, f.lunch.ID), apperr.KindNotFound)

	got, err := GetRecipe(ctx, f.db, recipe.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != f.vegan.ID {
		t.Errorf("tags after delete = %+v, want [vegan]", got.Tags)
	}
}

func TestListIngredientsPrefix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := CreateIngredient(ctx, f.db, "flaxseed", "g"); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if _, err := CreateIngredient(ctx, f.db, "50%_cream", "ml"); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"50%_cream", "Egg", "Flour", "flaxseed"}},
		{"FL", []string{"Flour", "flaxseed"}},
		{"flo", []string{"Flour"}},
		{"50%", []string{"50%_cream"}},
		{"%", nil},
		{"x", nil},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			got, err := ListIngredients(ctx, f.db, tt.prefix)
			if err != nil {
				t.Fatalf("ListIngredients: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %v", got, tt.want)
			}
			for i, ingredient := range got {
				if ingredient.Name != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, ingredient.Name, tt.want[i])
				}
			}
		})
	}
}

func TestCreateIngredientDuplicate(t *testing.T) {
	f := newFixture(t)
	_, err := CreateIngredient(context.Background(), f.db, "Flour", "kg")
	wantKind(t, err, apperr.KindValidation)
}

func TestBulkCreateIngredientsSkipsExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inserted, err := BulkCreateIngredients(ctx, f.db, []models.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Salt", MeasurementUnit: "g"},
		{Name: "Salt", MeasurementUnit: "g"},
		{Name: " Sugar ", MeasurementUnit: "g"},
	})
	if err != nil {
		t.Fatalf("BulkCreateIngredients: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}
	if n := count(t, f.db, &models.Ingredient{}); n != 4 {
		t.Errorf("ingredients = %d, want 4", n)
	}

	_, err = BulkCreateIngredients(ctx, f.db, []models.Ingredient{{Name: "Pepper"}})
	wantKind(t, err, apperr.KindValidation)
}
