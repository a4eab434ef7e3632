package validation

import (
	"testing"

	"foodgram/backend/internal/apperr"
)

func validDraft() RecipeDraft {
	return RecipeDraft{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 10,
		TagIDs:      []uint{1, 2},
		Ingredients: []IngredientLine{{IngredientID: 1, Amount: 200}, {IngredientID: 2, Amount: 1}},
		Image:       []byte{0x89, 'P', 'N', 'G'},
	}
}

func assertRejected(t *testing.T, err error, field, message string) {
	t.Helper()
	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected apperr.Error, got %v", err)
	}
	if appErr.Kind != apperr.KindValidation {
		t.Fatalf("kind = %d, want validation", appErr.Kind)
	}
	if appErr.Field != field || appErr.Message != message {
		t.Fatalf("got %s/%q, want %s/%q", appErr.Field, appErr.Message, field, message)
	}
}

func TestRecipeAcceptsValidDraft(t *testing.T) {
	t.Parallel()

	if err := Recipe(validDraft(), true); err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
}

func TestRecipeRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*RecipeDraft)
		field   string
		message string
	}{
		{"no tags", func(d *RecipeDraft) { d.TagIDs = nil }, "tags", "tags required"},
		{"duplicate tags", func(d *RecipeDraft) { d.TagIDs = []uint{3, 4, 3} }, "tags", "duplicate tags"},
		{"no ingredients", func(d *RecipeDraft) { d.Ingredients = nil }, "ingredients", "ingredients required"},
		{"duplicate ingredient", func(d *RecipeDraft) {
			d.Ingredients = []IngredientLine{{IngredientID: 7, Amount: 1}, {IngredientID: 7, Amount: 2}}
		}, "ingredients", "duplicate ingredient"},
		{"zero amount", func(d *RecipeDraft) {
			d.Ingredients = []IngredientLine{{IngredientID: 7, Amount: 0}}
		}, "ingredients", "amount must be ≥ 1"},
		{"missing image", func(d *RecipeDraft) { d.Image = nil }, "image", "image required"},
		{"empty image", func(d *RecipeDraft) { d.Image = []byte{} }, "image", "image required"},
		{"zero cooking time", func(d *RecipeDraft) { d.CookingTime = 0 }, "cooking_time", "cooking time must be ≥ 1"},
		{"blank name", func(d *RecipeDraft) { d.Name = "  " }, "name", "name required"},
		{"blank text", func(d *RecipeDraft) { d.Text = "" }, "text", "text required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			draft := validDraft()
			tt.mutate(&draft)
			assertRejected(t, Recipe(draft, true), tt.field, tt.message)
		})
	}
}

func TestRecipeUpdateWithoutImage(t *testing.T) {
	t.Parallel()

	draft := validDraft()
	draft.Image = nil
	if err := Recipe(draft, false); err != nil {
		t.Fatalf("Recipe() update without image error = %v", err)
	}

	draft.Image = []byte{}
	assertRejected(t, Recipe(draft, false), "image", "image required")
}

func TestSubscriptionForbidsSelf(t *testing.T) {
	t.Parallel()

	for _, id := range []uint{0, 1, 42} {
		assertRejected(t, Subscription(id, id), "author", "cannot subscribe to self")
	}
	if err := Subscription(1, 2); err != nil {
		t.Fatalf("Subscription(1, 2) error = %v", err)
	}
}
