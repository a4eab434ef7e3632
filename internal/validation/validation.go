// Package validation holds the per-entity rules checked before any write.
// Every rejection is an apperr validation error naming the offending field.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"foodgram/backend/internal/apperr"
)

const (
	MaxRecipeNameLength = 256
	MinCookingTime      = 1
	MinAmount           = 1
)

// IngredientLine is one requested (ingredient, amount) pair of a recipe.
type IngredientLine struct {
	IngredientID uint
	Amount       int
}

// RecipeDraft is a recipe mutation before it reaches storage. Image holds the
// decoded payload, nil when the client did not send one.
type RecipeDraft struct {
	Name        string
	Text        string
	CookingTime int
	TagIDs      []uint
	Ingredients []IngredientLine
	Image       []byte
}

// Tags rejects an empty tag set or one that repeats an id.
func Tags(ids []uint) error {
	if len(ids) == 0 {
		return apperr.Validation("tags", "tags required")
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return apperr.Validation("tags", "duplicate tags")
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Ingredients rejects an empty set, repeated ingredients and amounts below one.
func Ingredients(lines []IngredientLine) error {
	if len(lines) == 0 {
		return apperr.Validation("ingredients", "ingredients required")
	}
	seen := make(map[uint]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.IngredientID]; dup {
			return apperr.Validation("ingredients", "duplicate ingredient")
		}
		seen[line.IngredientID] = struct{}{}
		if line.Amount < MinAmount {
			return apperr.Validation("ingredients", "amount must be ≥ 1")
		}
	}
	return nil
}

// Image rejects a missing or empty decoded payload.
func Image(data []byte) error {
	if len(data) == 0 {
		return apperr.Validation("image", "image required")
	}
	return nil
}

func CookingTime(minutes int) error {
	if minutes < MinCookingTime {
		return apperr.Validation("cooking_time", "cooking time must be ≥ 1")
	}
	return nil
}

// Recipe checks a full draft. requireImage is true on create; on update an
// absent image keeps the stored one.
func Recipe(d RecipeDraft, requireImage bool) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return apperr.Validation("name", "name required")
	}
	if utf8.RuneCountInString(name) > MaxRecipeNameLength {
		return apperr.Validation("name", fmt.Sprintf("name must be at most %d characters", MaxRecipeNameLength))
	}
	if strings.TrimSpace(d.Text) == "" {
		return apperr.Validation("text", "text required")
	}
	if err := CookingTime(d.CookingTime); err != nil {
		return err
	}
	if err := Tags(d.TagIDs); err != nil {
		return err
	}
	if err := Ingredients(d.Ingredients); err != nil {
		return err
	}
	if requireImage || d.Image != nil {
		if err := Image(d.Image); err != nil {
			return err
		}
	}
	return nil
}

// Subscription forbids following oneself.
func Subscription(followerID, authorID uint) error {
	if followerID == authorID {
		return apperr.Validation("author", "cannot subscribe to self")
	}
	return nil
}
