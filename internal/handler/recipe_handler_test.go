package handler

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"foodgram/backend/internal/database/dbtest"
	"foodgram/backend/internal/models"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type recipeFixture struct {
	*server
	author      models.User
	authorToken string
	other       models.User
	otherToken  string
	tag         models.Tag
	flour       models.Ingredient
	egg         models.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	s := newServer(t)
	f := &recipeFixture{
		server: s,
		author: dbtest.CreateUser(t, s.db, "author"),
		other:  dbtest.CreateUser(t, s.db, "other"),
		tag:    dbtest.CreateTag(t, s.db, "Breakfast", "breakfast"),
		flour:  dbtest.CreateIngredient(t, s.db, "Flour", "g"),
		egg:    dbtest.CreateIngredient(t, s.db, "Egg", "pcs"),
	}
	f.authorToken = s.token(f.author)
	f.otherToken = s.token(f.other)
	return f
}

func (f *recipeFixture) input(name string, lines ...RecipeIngredientInput) RecipeInput {
	return RecipeInput{
		Ingredients: lines,
		Tags:        []uint{f.tag.ID},
		Image:       pixelPNG,
		Name:        name,
		Text:        "Whisk and fry.",
		CookingTime: 15,
	}
}

func (f *recipeFixture) create(t *testing.T, input RecipeInput) RecipeResponse {
	t.Helper()
	w := f.do(http.MethodPost, "/api/recipes", f.authorToken, input)
	expectStatus(t, w, http.StatusCreated)
	return decode[RecipeResponse](t, w)
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture(t)

	recipe := f.create(t, f.input("Pancakes", RecipeIngredientInput{ID: f.flour.ID, Amount: 200}))

	if recipe.Author.ID != f.author.ID || recipe.Author.Username != "author" {
		t.Errorf("author = %+v", recipe.Author)
	}
	if len(recipe.Tags) != 1 || recipe.Tags[0] != (TagResponse{ID: f.tag.ID, Name: "Breakfast", Slug: "breakfast"}) {
		t.Errorf("tags = %+v", recipe.Tags)
	}
	want := RecipeIngredientResponse{ID: f.flour.ID, Name: "Flour", MeasurementUnit: "g", Amount: 200}
	if len(recipe.Ingredients) != 1 || recipe.Ingredients[0] != want {
		t.Errorf("ingredients = %+v, want [%+v]", recipe.Ingredients, want)
	}
	if !strings.HasPrefix(recipe.Image, "/media/recipes/") || !strings.HasSuffix(recipe.Image, ".png") {
		t.Errorf("image = %q", recipe.Image)
	}
	if recipe.IsFavorited || recipe.IsInShoppingCart {
		t.Errorf("fresh recipe flags = %v, %v", recipe.IsFavorited, recipe.IsInShoppingCart)
	}

	w := f.do(http.MethodGet, "/api/recipes/"+itoa(recipe.ID)+"/get-link", "", nil)
	expectStatus(t, w, http.StatusOK)
	link := decode[ShortLinkResponse](t, w).ShortLink
	token, ok := strings.CutPrefix(link, testPublic+"/s/")
	if !ok || token == "" {
		t.Fatalf("short-link = %q", link)
	}

	w = f.do(http.MethodGet, "/s/"+token, "", nil)
	expectStatus(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != testPublic+"/recipes/"+itoa(recipe.ID) {
		t.Errorf("Location = %q", loc)
	}

	w = f.do(http.MethodGet, "/s/unknown", "", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestCreateRecipeRejections(t *testing.T) {
	f := newRecipeFixture(t)

	noImage := f.input("NoImage", RecipeIngredientInput{ID: f.flour.ID, Amount: 1})
	noImage.Image = ""
	dupTags := f.input("DupTags", RecipeIngredientInput{ID: f.flour.ID, Amount: 1})
	dupTags.Tags = []uint{f.tag.ID, f.tag.ID}
	badTime := f.input("Slow", RecipeIngredientInput{ID: f.flour.ID, Amount: 1})
	badTime.CookingTime = 0

	tests := []struct {
		name  string
		input RecipeInput
		field string
	}{
		{"no ingredients", f.input("Empty"), "ingredients"},
		{"duplicate ingredient", f.input("Dup", RecipeIngredientInput{ID: f.flour.ID, Amount: 1}, RecipeIngredientInput{ID: f.flour.ID, Amount: 2}), "ingredients"},
		{"unknown ingredient", f.input("Ghost", RecipeIngredientInput{ID: 999, Amount: 1}), "ingredients"},
		{"duplicate tags", dupTags, "tags"},
		{"no image", noImage, "image"},
		{"cooking time", badTime, "cooking_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/recipes", f.authorToken, tt.input)
			expectStatus(t, w, http.StatusBadRequest)
			if got := decode[ErrorResponse](t, w); got.Field != tt.field {
				t.Errorf("field = %q, want %q (%s)", got.Field, tt.field, got.Error)
			}
		})
	}

	w := f.do(http.MethodPost, "/api/recipes", "", f.input("Anon", RecipeIngredientInput{ID: f.flour.ID, Amount: 1}))
	expectStatus(t, w, http.StatusUnauthorized)

	var n int64
	f.db.Model(&models.Recipe{}).Count(&n)
	if n != 0 {
		t.Errorf("recipes = %d, want 0", n)
	}
}

func TestUpdateAndDeleteRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	recipe := f.create(t, f.input("Omelette",
		RecipeIngredientInput{ID: f.flour.ID, Amount: 1},
		RecipeIngredientInput{ID: f.egg.ID, Amount: 2},
	))
	path := "/api/recipes/" + itoa(recipe.ID)

	update := f.input("Better omelette", RecipeIngredientInput{ID: f.flour.ID, Amount: 5})
	update.Image = ""

	w := f.do(http.MethodPatch, path, f.otherToken, update)
	expectStatus(t, w, http.StatusForbidden)

	w = f.do(http.MethodPatch, path, f.authorToken, update)
	expectStatus(t, w, http.StatusOK)
	updated := decode[RecipeResponse](t, w)
	if updated.Name != "Better omelette" || updated.Image != recipe.Image {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].ID != f.flour.ID || updated.Ingredients[0].Amount != 5 {
		t.Errorf("ingredients = %+v, want only flour x5", updated.Ingredients)
	}

	w = f.do(http.MethodDelete, path, f.otherToken, nil)
	expectStatus(t, w, http.StatusForbidden)

	w = f.do(http.MethodDelete, path, f.authorToken, nil)
	expectStatus(t, w, http.StatusNoContent)

	w = f.do(http.MethodGet, path, "", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestAdminMayEditAnyRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	recipe := f.create(t, f.input("Porridge", RecipeIngredientInput{ID: f.flour.ID, Amount: 1}))
	adminToken := f.token(f.admin("boss"))

	update := f.input("Porridge", RecipeIngredientInput{ID: f.egg.ID, Amount: 1})
	w := f.do(http.MethodPatch, "/api/recipes/"+itoa(recipe.ID), adminToken, update)
	expectStatus(t, w, http.StatusOK)

	w = f.do(http.MethodDelete, "/api/recipes/"+itoa(recipe.ID), adminToken, nil)
	expectStatus(t, w, http.StatusNoContent)
}

func TestListRecipesViewerFlags(t *testing.T) {
	f := newRecipeFixture(t)
	first := f.create(t, f.input("First", RecipeIngredientInput{ID: f.flour.ID, Amount: 1}))
	second := f.create(t, f.input("Second", RecipeIngredientInput{ID: f.egg.ID, Amount: 1}))

	w := f.do(http.MethodPost, "/api/recipes/"+itoa(first.ID)+"/favorite", f.otherToken, nil)
	expectStatus(t, w, http.StatusCreated)

	w = f.do(http.MethodGet, "/api/recipes", f.otherToken, nil)
	expectStatus(t, w, http.StatusOK)
	page := decode[PaginatedRecipeResponse](t, w)
	if page.Meta.TotalItems != 2 || len(page.Data) != 2 || page.Data[0].ID != second.ID {
		t.Fatalf("page = %+v", page.Meta)
	}
	if page.Data[0].IsFavorited || !page.Data[1].IsFavorited {
		t.Errorf("is_favorited = %v, %v; want false, true", page.Data[0].IsFavorited, page.Data[1].IsFavorited)
	}

	w = f.do(http.MethodGet, "/api/recipes?is_favorited=1", f.otherToken, nil)
	page = decode[PaginatedRecipeResponse](t, w)
	if len(page.Data) != 1 || page.Data[0].ID != first.ID {
		t.Errorf("favorites page = %+v", page.Data)
	}

	w = f.do(http.MethodGet, "/api/recipes?is_favorited=1", "", nil)
	page = decode[PaginatedRecipeResponse](t, w)
	if len(page.Data) != 2 {
		t.Errorf("anonymous is_favorited filter should be ignored, got %d recipes", len(page.Data))
	}

	w = f.do(http.MethodGet, "/api/recipes?tags=breakfast&author="+itoa(f.author.ID)+"&limit=1&page=2", "", nil)
	page = decode[PaginatedRecipeResponse](t, w)
	if page.Meta.TotalPages != 2 || page.Meta.CurrentPage != 2 || len(page.Data) != 1 || page.Data[0].ID != first.ID {
		t.Errorf("filtered page = %+v", page)
	}
}
