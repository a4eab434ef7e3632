package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxTagLength        = 32
	maxIngredientLength = 128
	maxUnitLength       = 64
	ingredientBatchSize = 500
)

func ListTags(ctx context.Context, db *gorm.DB) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func GetTag(ctx context.Context, db *gorm.DB, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err, "Tag not found")
	}
	return &tag, nil
}

func normalizeTag(tag *models.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	tag.Slug = strings.TrimSpace(tag.Slug)
	if tag.Name == "" {
		return apperr.Validation("name", "name required")
	}
	if utf8.RuneCountInString(tag.Name) > maxTagLength {
		return apperr.Validation("name", fmt.Sprintf("name must be at most %d characters", maxTagLength))
	}
	if tag.Slug == "" {
		tag.Slug = slug.Make(tag.Name)
	}
	if !slug.IsSlug(tag.Slug) {
		return apperr.Validation("slug", "slug is not valid")
	}
	if utf8.RuneCountInString(tag.Slug) > maxTagLength {
		return apperr.Validation("slug", fmt.Sprintf("slug must be at most %d characters", maxTagLength))
	}
	return nil
}

// saveTag inserts or updates tag, rejecting a name or slug another tag uses.
func saveTag(tx *gorm.DB, tag *models.Tag) error {
	var clashes []models.Tag
	err := tx.Where("(name = ? OR slug = ?) AND id <> ?", tag.Name, tag.Slug, tag.ID).Find(&clashes).Error
	if err != nil {
		return fmt.Errorf("check tag uniqueness: %w", err)
	}
	for _, other := range clashes {
		if other.Name == tag.Name {
			return apperr.Validation("name", "tag with this name already exists")
		}
		return apperr.Validation("slug", "tag with this slug already exists")
	}
	if err := tx.Save(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("name", "tag with this name already exists")
		}
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}

// CreateTag adds a tag. A blank slug is derived from the name.
func CreateTag(ctx context.Context, db *gorm.DB, name, tagSlug string) (*models.Tag, error) {
	tag := models.Tag{Name: name, Slug: tagSlug}
	if err := normalizeTag(&tag); err != nil {
		return nil, err
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveTag(tx, &tag)
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag renames a tag. Nil arguments keep the current value.
func UpdateTag(ctx context.Context, db *gorm.DB, id uint, name, tagSlug *string) (*models.Tag, error) {
	var tag models.Tag
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return notFound(err, "Tag not found")
		}
		if name != nil {
			tag.Name = *name
		}
		if tagSlug != nil {
			tag.Slug = *tagSlug
		}
		if err := normalizeTag(&tag); err != nil {
			return err
		}
		return saveTag(tx, &tag)
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag and detaches it from every recipe.
func DeleteTag(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("detach tag: %w", err)
		}
		result := tx.Delete(&models.Tag{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete tag: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("Tag not found")
		}
		return nil
	})
}

// ListIngredients returns ingredients ordered by name, optionally those whose
// name starts with prefix (case-insensitive).
func ListIngredients(ctx context.Context, db *gorm.DB, prefix string) ([]models.Ingredient, error) {
	q := db.WithContext(ctx).Order("name").Order("id")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}
	ingredients := []models.Ingredient{}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func GetIngredient(ctx context.Context, db *gorm.DB, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, notFound(err, "Ingredient not found")
	}
	return &ingredient, nil
}

func normalizeIngredient(ingredient *models.Ingredient) error {
	ingredient.Name = strings.TrimSpace(ingredient.Name)
	ingredient.MeasurementUnit = strings.TrimSpace(ingredient.MeasurementUnit)
	switch {
	case ingredient.Name == "":
		return apperr.Validation("name", "name required")
	case utf8.RuneCountInString(ingredient.Name) > maxIngredientLength:
		return apperr.Validation("name", fmt.Sprintf("name must be at most %d characters", maxIngredientLength))
	case ingredient.MeasurementUnit == "":
		return apperr.Validation("measurement_unit", "measurement unit required")
	case utf8.RuneCountInString(ingredient.MeasurementUnit) > maxUnitLength:
		return apperr.Validation("measurement_unit", fmt.Sprintf("measurement unit must be at most %d characters", maxUnitLength))
	}
	return nil
}

func CreateIngredient(ctx context.Context, db *gorm.DB, name, unit string) (*models.Ingredient, error) {
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := normalizeIngredient(&ingredient); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("name", "ingredient with this name already exists")
		}
		return nil, fmt.Errorf("insert ingredient: %w", err)
	}
	return &ingredient, nil
}

// DeleteIngredient removes an ingredient no recipe uses.
func DeleteIngredient(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var uses int64
		if err := tx.Model(&models.RecipeComposition{}).Where("ingredient_id = ?", id).Count(&uses).Error; err != nil {
			return fmt.Errorf("count ingredient uses: %w", err)
		}
		if uses > 0 {
			return apperr.Validation("ingredient", "ingredient is used by recipes")
		}
		result := tx.Delete(&models.Ingredient{}, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
				return apperr.Validation("ingredient", "ingredient is used by recipes")
			}
			return fmt.Errorf("delete ingredient: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("Ingredient not found")
		}
		return nil
	})
}

// BulkCreateIngredients inserts ingredients in batches within one
// transaction, skipping names that already exist. It returns how many rows
// were inserted.
func BulkCreateIngredients(ctx context.Context, db *gorm.DB, ingredients []models.Ingredient) (int64, error) {
	rows := make([]models.Ingredient, 0, len(ingredients))
	seen := make(map[string]struct{}, len(ingredients))
	for i, ingredient := range ingredients {
		if err := normalizeIngredient(&ingredient); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if _, dup := seen[ingredient.Name]; dup {
			continue
		}
		seen[ingredient.Name] = struct{}{}
		rows = append(rows, models.Ingredient{Name: ingredient.Name, MeasurementUnit: ingredient.MeasurementUnit})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var inserted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			CreateInBatches(rows, ingredientBatchSize)
		if result.Error != nil {
			return fmt.Errorf("insert ingredients: %w", result.Error)
		}
		inserted = result.RowsAffected
		return nil
	})
	return inserted, err
}
