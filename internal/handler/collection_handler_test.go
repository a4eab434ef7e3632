package handler

import (
	"net/http"
	"strings"
	"testing"
)

func TestFavoritesConflicts(t *testing.T) {
	f := newRecipeFixture(t)
	recipe := f.create(t, f.input("Waffles", RecipeIngredientInput{ID: f.flour.ID, Amount: 100}))
	path := "/api/recipes/" + itoa(recipe.ID) + "/favorite"

	w := f.do(http.MethodPost, path, f.otherToken, nil)
	expectStatus(t, w, http.StatusCreated)
	if short := decode[ShortRecipeResponse](t, w); short.ID != recipe.ID || short.Name != "Waffles" {
		t.Errorf("short recipe = %+v", short)
	}

	w = f.do(http.MethodPost, path, f.otherToken, nil)
	expectStatus(t, w, http.StatusBadRequest)

	w = f.do(http.MethodDelete, path, f.otherToken, nil)
	expectStatus(t, w, http.StatusNoContent)
	w = f.do(http.MethodDelete, path, f.otherToken, nil)
	expectStatus(t, w, http.StatusBadRequest)

	w = f.do(http.MethodPost, "/api/recipes/9999/favorite", f.otherToken, nil)
	expectStatus(t, w, http.StatusNotFound)

	w = f.do(http.MethodPost, path, "", nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestDownloadShoppingCart(t *testing.T) {
	f := newRecipeFixture(t)
	bread := f.create(t, f.input("Bread", RecipeIngredientInput{ID: f.flour.ID, Amount: 200}))
	cake := f.create(t, f.input("Cake",
		RecipeIngredientInput{ID: f.flour.ID, Amount: 150},
		RecipeIngredientInput{ID: f.egg.ID, Amount: 3},
	))

	for _, id := range []uint{bread.ID, cake.ID} {
		w := f.do(http.MethodPost, "/api/recipes/"+itoa(id)+"/shopping_cart", f.otherToken, nil)
		expectStatus(t, w, http.StatusCreated)
	}
	w := f.do(http.MethodPost, "/api/recipes/"+itoa(cake.ID)+"/shopping_cart", f.otherToken, nil)
	expectStatus(t, w, http.StatusBadRequest)

	w = f.do(http.MethodGet, "/api/recipes/download_shopping_cart", f.otherToken, nil)
	expectStatus(t, w, http.StatusOK)
	if got, want := w.Body.String(), "Egg, pcs - 3\nFlour, g - 350\n"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "shopping_cart.txt") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	w = f.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=xlsx", f.otherToken, nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "PK") {
		t.Error("xlsx body is not a zip archive")
	}

	w = f.do(http.MethodGet, "/api/recipes/download_shopping_cart", f.authorToken, nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.Len() != 0 {
		t.Errorf("empty cart body = %q", w.Body.String())
	}

	w = f.do(http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)
}
