package handler

import (
	"net/http"
	"testing"

	"foodgram/backend/internal/database/dbtest"
)

func TestTagRoutes(t *testing.T) {
	s := newServer(t)
	userToken := s.token(dbtest.CreateUser(t, s.db, "cook"))
	adminToken := s.token(s.admin("boss"))

	w := s.do(http.MethodPost, "/api/admin/tags", userToken, TagInput{Name: "Dinner"})
	expectStatus(t, w, http.StatusForbidden)

	w = s.do(http.MethodPost, "/api/admin/tags", "", TagInput{Name: "Dinner"})
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/api/admin/tags", adminToken, TagInput{Name: "Late Dinner"})
	expectStatus(t, w, http.StatusCreated)
	tag := decode[TagResponse](t, w)
	if tag.Slug != "late-dinner" {
		t.Errorf("slug = %q", tag.Slug)
	}

	w = s.do(http.MethodPost, "/api/admin/tags", adminToken, TagInput{Name: "Late Dinner"})
	expectStatus(t, w, http.StatusBadRequest)

	name := "Supper"
	w = s.do(http.MethodPatch, "/api/admin/tags/"+itoa(tag.ID), adminToken, TagPatchInput{Name: &name})
	expectStatus(t, w, http.StatusOK)
	if got := decode[TagResponse](t, w); got.Name != "Supper" || got.Slug != "late-dinner" {
		t.Errorf("patched = %+v", got)
	}

	w = s.do(http.MethodGet, "/api/tags", "", nil)
	expectStatus(t, w, http.StatusOK)
	if tags := decode[[]TagResponse](t, w); len(tags) != 1 {
		t.Errorf("tags = %+v", tags)
	}

	w = s.do(http.MethodDelete, "/api/admin/tags/"+itoa(tag.ID), adminToken, nil)
	expectStatus(t, w, http.StatusNoContent)

	w = s.do(http.MethodGet, "/api/tags/"+itoa(tag.ID), "", nil)
	expectStatus(t, w, http.StatusNotFound)

	w = s.do(http.MethodGet, "/api/tags/abc", "", nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestIngredientRoutes(t *testing.T) {
	f := newRecipeFixture(t)
	adminToken := f.token(f.admin("boss"))
	f.create(t, f.input("Bread", RecipeIngredientInput{ID: f.flour.ID, Amount: 500}))

	w := f.do(http.MethodGet, "/api/ingredients?name=fl", "", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[[]IngredientResponse](t, w); len(got) != 1 || got[0].Name != "Flour" {
		t.Errorf("ingredients = %+v", got)
	}

	w = f.do(http.MethodPost, "/api/admin/ingredients", adminToken, IngredientInput{Name: "Salt", MeasurementUnit: "g"})
	expectStatus(t, w, http.StatusCreated)
	salt := decode[IngredientResponse](t, w)

	w = f.do(http.MethodGet, "/api/ingredients/"+itoa(salt.ID), "", nil)
	expectStatus(t, w, http.StatusOK)

	w = f.do(http.MethodDelete, "/api/admin/ingredients/"+itoa(f.flour.ID), adminToken, nil)
	expectStatus(t, w, http.StatusBadRequest)

	w = f.do(http.MethodDelete, "/api/admin/ingredients/"+itoa(salt.ID), adminToken, nil)
	expectStatus(t, w, http.StatusNoContent)

	w = f.do(http.MethodDelete, "/api/admin/ingredients/"+itoa(salt.ID), f.otherToken, nil)
	expectStatus(t, w, http.StatusForbidden)
}
