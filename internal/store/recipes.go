package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/shortlink"
	"foodgram/backend/internal/shoppinglist"
	"foodgram/backend/internal/validation"

	"gorm.io/gorm"
)

// RecipeFilter narrows ListRecipes. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Compositions", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_compositions.id") }).
		Preload("Compositions.Ingredient")
}

// GetRecipe loads a recipe with its author, tags and ingredient lines.
func GetRecipe(ctx context.Context, db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadRecipe(db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, notFound(err, "Recipe not found")
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first, and the total count.
func ListRecipes(ctx context.Context, db *gorm.DB, f RecipeFilter, page Page) ([]models.Recipe, int64, error) {
	base := db.WithContext(ctx)
	filtered := func() *gorm.DB {
		q := base.Model(&models.Recipe{})
		if f.AuthorID != 0 {
			q = q.Where("recipes.author_id = ?", f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			tagged := base.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
			q = q.Where("recipes.id IN (?)", tagged)
		}
		if f.FavoritedBy != 0 {
			q = q.Where("recipes.id IN (?)", Favorites.subquery(base, f.FavoritedBy))
		}
		if f.InCartOf != 0 {
			q = q.Where("recipes.id IN (?)", ShoppingCart.subquery(base, f.InCartOf))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := preloadRecipe(page.apply(filtered())).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

// RecentRecipes returns an author's newest recipes. limit <= 0 returns all.
func RecentRecipes(ctx context.Context, db *gorm.DB, authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list author recipes: %w", err)
	}
	return recipes, nil
}

// RecipeCounts returns the number of recipes per author.
func RecipeCounts(ctx context.Context, db *gorm.DB, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// CheckReferences loads the tags and verifies the ingredients a draft names.
func CheckReferences(ctx context.Context, db *gorm.DB, tagIDs []uint, lines []validation.IngredientLine) ([]models.Tag, error) {
	var tags []models.Tag
	if err := db.WithContext(ctx).Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		found := make(map[uint]bool, len(tags))
		for _, tag := range tags {
			found[tag.ID] = true
		}
		for _, id := range tagIDs {
			if !found[id] {
				return nil, apperr.Validation("tags", fmt.Sprintf("tag %d does not exist", id))
			}
		}
	}

	ingredientIDs := make([]uint, len(lines))
	for i, line := range lines {
		ingredientIDs[i] = line.IngredientID
	}
	var found []uint
	err := db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Pluck("id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	if len(found) != len(ingredientIDs) {
		present := make(map[uint]bool, len(found))
		for _, id := range found {
			present[id] = true
		}
		for _, id := range ingredientIDs {
			if !present[id] {
				return nil, apperr.Validation("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
			}
		}
	}
	return tags, nil
}

func compositions(recipeID uint, lines []validation.IngredientLine) []models.RecipeComposition {
	rows := make([]models.RecipeComposition, len(lines))
	for i, line := range lines {
		rows[i] = models.RecipeComposition{RecipeID: recipeID, IngredientID: line.IngredientID, Amount: line.Amount}
	}
	return rows
}

// CreateRecipe validates draft and persists it atomically: the recipe row,
// its short link, its tag edges and its ingredient lines. imageRef is the
// stored location of draft.Image.
func CreateRecipe(ctx context.Context, db *gorm.DB, links *shortlink.Codec, authorID uint, draft validation.RecipeDraft, imageRef string) (*models.Recipe, error) {
	if err := validation.Recipe(draft, true); err != nil {
		return nil, err
	}
	if imageRef == "" {
		return nil, apperr.Validation("image", "image required")
	}

	var recipeID uint
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := CheckReferences(ctx, tx, draft.TagIDs, draft.Ingredients)
		if err != nil {
			return err
		}

		recipe := models.Recipe{
			AuthorID:    authorID,
			Name:        strings.TrimSpace(draft.Name),
			Text:        draft.Text,
			Image:       imageRef,
			CookingTime: draft.CookingTime,
			Tags:        tags,
		}
		if err := tx.Omit("Author", "Tags.*", "Compositions").Create(&recipe).Error; err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}

		token, err := links.Encode(recipe.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&recipe).Update("short_link", token).Error; err != nil {
			return fmt.Errorf("assign short link: %w", err)
		}

		if err := tx.Create(compositions(recipe.ID, draft.Ingredients)).Error; err != nil {
			return fmt.Errorf("insert compositions: %w", err)
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, translateWriteError(err)
	}
	return GetRecipe(ctx, db, recipeID)
}

// UpdateRecipe replaces a recipe's fields, tag set and ingredient list in one
// transaction. An empty imageRef keeps the current image. The previous image
// reference is returned when it was replaced.
func UpdateRecipe(ctx context.Context, db *gorm.DB, actor Actor, id uint, draft validation.RecipeDraft, imageRef string) (*models.Recipe, string, error) {
	if err := validation.Recipe(draft, false); err != nil {
		return nil, "", err
	}

	var replacedImage string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return notFound(err, "Recipe not found")
		}
		if !actor.CanMutate(recipe) {
			return apperr.Forbidden("You do not have permission to modify this recipe")
		}

		tags, err := CheckReferences(ctx, tx, draft.TagIDs, draft.Ingredients)
		if err != nil {
			return err
		}

		fields := map[string]any{
			"name":         strings.TrimSpace(draft.Name),
			"text":         draft.Text,
			"cooking_time": draft.CookingTime,
		}
		if imageRef != "" {
			fields["image"] = imageRef
			replacedImage = recipe.Image
		}
		if err := tx.Model(&recipe).Updates(fields).Error; err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}

		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("replace tags: %w", err)
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeComposition{}).Error; err != nil {
			return fmt.Errorf("delete compositions: %w", err)
		}
		if err := tx.Create(compositions(recipe.ID, draft.Ingredients)).Error; err != nil {
			return fmt.Errorf("insert compositions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", translateWriteError(err)
	}

	recipe, err := GetRecipe(ctx, db, id)
	if err != nil {
		return nil, "", err
	}
	return recipe, replacedImage, nil
}

// DeleteRecipe removes a recipe; compositions, tag edges, favorites and cart
// entries go with it. The image reference is returned for cleanup.
func DeleteRecipe(ctx context.Context, db *gorm.DB, actor Actor, id uint) (string, error) {
	var image string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return notFound(err, "Recipe not found")
		}
		if !actor.CanMutate(recipe) {
			return apperr.Forbidden("You do not have permission to delete this recipe")
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("detach tags: %w", err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		image = recipe.Image
		return nil
	})
	return image, err
}

// ResolveShortLink maps a token back to its recipe.
func ResolveShortLink(ctx context.Context, db *gorm.DB, links *shortlink.Codec, token string) (*models.Recipe, error) {
	id, err := links.Decode(token)
	if err != nil {
		return nil, apperr.NotFound("Short link not found")
	}
	var recipe models.Recipe
	if err := db.WithContext(ctx).Where("id = ? AND short_link = ?", id, token).First(&recipe).Error; err != nil {
		return nil, notFound(err, "Short link not found")
	}
	return &recipe, nil
}

// CompositionLines fetches the ingredient lines of the given recipes.
func CompositionLines(ctx context.Context, db *gorm.DB, recipeIDs []uint) ([]shoppinglist.Line, error) {
	lines := []shoppinglist.Line{}
	if len(recipeIDs) == 0 {
		return lines, nil
	}
	err := db.WithContext(ctx).Table("recipe_compositions").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_compositions.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_compositions.ingredient_id").
		Where("recipe_compositions.recipe_id IN ?", recipeIDs).
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("load composition lines: %w", err)
	}
	return lines, nil
}

// ShoppingList aggregates the ingredients of every recipe in a user's cart.
func ShoppingList(ctx context.Context, db *gorm.DB, userID uint) ([]shoppinglist.Item, error) {
	recipeIDs, err := ShoppingCart.Targets(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	lines, err := CompositionLines(ctx, db, recipeIDs)
	if err != nil {
		return nil, err
	}
	return shoppinglist.Aggregate(lines), nil
}

// translateWriteError maps a reference that vanished between the pre-check
// and the insert to a validation error. Any other constraint violation is a
// storage fault and passes through unchanged.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.Validation("ingredients", "referenced tag or ingredient does not exist")
	}
	return err
}
