package store

import (
	"context"
	"testing"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/database/dbtest"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/shortlink"
	"foodgram/backend/internal/validation"

	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	links  *shortlink.Codec
	author models.User
	other  models.User
	lunch  models.Tag
	vegan  models.Tag
	flour  models.Ingredient
	egg    models.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	links, err := shortlink.New("", 6)
	if err != nil {
		t.Fatalf("shortlink.New: %v", err)
	}
	return &fixture{
		db:     db,
		links:  links,
		author: dbtest.CreateUser(t, db, "author"),
		other:  dbtest.CreateUser(t, db, "other"),
		lunch:  dbtest.CreateTag(t, db, "Lunch", "lunch"),
		vegan:  dbtest.CreateTag(t, db, "Vegan", "vegan"),
		flour:  dbtest.CreateIngredient(t, db, "Flour", "g"),
		egg:    dbtest.CreateIngredient(t, db, "Egg", "pcs"),
	}
}

func (f *fixture) draft(name string, tagIDs []uint, lines ...validation.IngredientLine) validation.RecipeDraft {
	return validation.RecipeDraft{
		Name:        name,
		Text:        "Mix and bake.",
		CookingTime: 30,
		TagIDs:      tagIDs,
		Ingredients: lines,
		Image:       []byte("png"),
	}
}

func (f *fixture) createRecipe(t *testing.T, authorID uint, d validation.RecipeDraft) *models.Recipe {
	t.Helper()
	recipe, err := CreateRecipe(context.Background(), f.db, f.links, authorID, d, "/media/recipes/"+d.Name+".png")
	if err != nil {
		t.Fatalf("CreateRecipe(%q): %v", d.Name, err)
	}
	return recipe
}

func line(id uint, amount int) validation.IngredientLine {
	return validation.IngredientLine{IngredientID: id, Amount: amount}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kind)
	}
	if !apperr.IsKind(err, kind) {
		t.Fatalf("expected error of kind %v, got %v", kind, err)
	}
}
