package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, defaultPageSize, 0},
		{"explicit", "?page=3&limit=10", 3, 10, 20},
		{"garbage falls back", "?page=abc&limit=xyz", 1, defaultPageSize, 0},
		{"zero and negative", "?page=0&limit=-4", 1, defaultPageSize, 0},
		{"limit capped", "?limit=5000", 1, maxPageSize, 0},
		{"huge page clamped", "?page=9223372036854775807&limit=100", maxPage, maxPageSize, (maxPage - 1) * maxPageSize},
		{"huge page small limit", "?page=9223372036854775807&limit=7", maxPage, 7, (maxPage - 1) * 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)

			page, limit, window := pageParams(c)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("page, limit = %d, %d, want %d, %d", page, limit, tt.wantPage, tt.wantLimit)
			}
			if window.Offset != tt.wantOffset || window.Limit != tt.wantLimit {
				t.Errorf("window = %+v, want offset %d limit %d", window, tt.wantOffset, tt.wantLimit)
			}
			if window.Offset < 0 {
				t.Errorf("offset %d is negative", window.Offset)
			}
		})
	}
}

func TestListRecipesPastLastPageIsEmpty(t *testing.T) {
	f := newRecipeFixture(t)
	f.create(t, f.input("Pancakes", RecipeIngredientInput{ID: f.flour.ID, Amount: 200}))

	w := f.do(http.MethodGet, "/api/recipes?page=9223372036854775807", "", nil)
	expectStatus(t, w, http.StatusOK)
	page := decode[PaginatedRecipeResponse](t, w)
	if len(page.Data) != 0 {
		t.Errorf("data = %d recipes, want none past the last page", len(page.Data))
	}
	if page.Meta.TotalItems != 1 || page.Meta.CurrentPage != maxPage {
		t.Errorf("meta = %+v, want total 1 on page %d", page.Meta, maxPage)
	}
}
