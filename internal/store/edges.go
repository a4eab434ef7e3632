package store

import (
	"context"
	"errors"
	"fmt"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/models"

	"gorm.io/gorm"
)

// EdgeSet is a many-to-many relation (a, b) backed by a table whose composite
// primary key guarantees uniqueness. Add and Remove report conflicts as
// validation errors instead of succeeding silently.
type EdgeSet[T any] struct {
	Name       string
	Field      string
	ColumnA    string
	ColumnB    string
	New        func(a, b uint) *T
	ExistsMsg  string
	AbsentMsg  string
	MissingMsg string
}

var Favorites = EdgeSet[models.Favorite]{
	Name:    "favorites",
	Field:   "recipe",
	ColumnA: "user_id",
	ColumnB: "recipe_id",
	New: func(userID, recipeID uint) *models.Favorite {
		return &models.Favorite{UserID: userID, RecipeID: recipeID}
	},
	ExistsMsg:  "already in favorites",
	AbsentMsg:  "not in favorites",
	MissingMsg: "Recipe not found",
}

var ShoppingCart = EdgeSet[models.ShoppingCartItem]{
	Name:    "shopping cart",
	Field:   "recipe",
	ColumnA: "user_id",
	ColumnB: "recipe_id",
	New: func(userID, recipeID uint) *models.ShoppingCartItem {
		return &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	},
	ExistsMsg:  "already in cart",
	AbsentMsg:  "not in cart",
	MissingMsg: "Recipe not found",
}

var Subscriptions = EdgeSet[models.Subscription]{
	Name:    "subscriptions",
	Field:   "author",
	ColumnA: "user_id",
	ColumnB: "author_id",
	New: func(userID, authorID uint) *models.Subscription {
		return &models.Subscription{UserID: userID, AuthorID: authorID}
	},
	ExistsMsg:  "already subscribed",
	AbsentMsg:  "not subscribed",
	MissingMsg: "User not found",
}

func (s EdgeSet[T]) where(db *gorm.DB, a, b uint) *gorm.DB {
	return db.Where(s.ColumnA+" = ? AND "+s.ColumnB+" = ?", a, b)
}

// Exists reports whether the edge (a, b) is present.
func (s EdgeSet[T]) Exists(ctx context.Context, db *gorm.DB, a, b uint) (bool, error) {
	var count int64
	if err := s.where(db.WithContext(ctx).Model(new(T)), a, b).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s edge: %w", s.Name, err)
	}
	return count > 0, nil
}

// Add inserts the edge (a, b). The existence check is a fast path for a
// friendlier error; the primary key decides under concurrent inserts.
func (s EdgeSet[T]) Add(ctx context.Context, db *gorm.DB, a, b uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.Exists(ctx, tx, a, b)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Validation(s.Field, s.ExistsMsg)
		}
		if err := tx.Create(s.New(a, b)).Error; err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				return apperr.Validation(s.Field, s.ExistsMsg)
			case errors.Is(err, gorm.ErrForeignKeyViolated):
				return apperr.NotFound(s.MissingMsg)
			}
			return fmt.Errorf("add %s edge: %w", s.Name, err)
		}
		return nil
	})
}

// Remove deletes the edge (a, b), failing when it is absent.
func (s EdgeSet[T]) Remove(ctx context.Context, db *gorm.DB, a, b uint) error {
	result := s.where(db.WithContext(ctx), a, b).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("remove %s edge: %w", s.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Validation(s.Field, s.AbsentMsg)
	}
	return nil
}

// Linked returns which of bs are connected to a.
func (s EdgeSet[T]) Linked(ctx context.Context, db *gorm.DB, a uint, bs []uint) (map[uint]bool, error) {
	linked := make(map[uint]bool, len(bs))
	if a == 0 || len(bs) == 0 {
		return linked, nil
	}
	var ids []uint
	err := db.WithContext(ctx).Model(new(T)).
		Where(s.ColumnA+" = ? AND "+s.ColumnB+" IN ?", a, bs).
		Pluck(s.ColumnB, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load %s edges: %w", s.Name, err)
	}
	for _, id := range ids {
		linked[id] = true
	}
	return linked, nil
}

// Targets returns every b connected to a.
func (s EdgeSet[T]) Targets(ctx context.Context, db *gorm.DB, a uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).Model(new(T)).Where(s.ColumnA+" = ?", a).Pluck(s.ColumnB, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load %s targets: %w", s.Name, err)
	}
	return ids, nil
}

// subquery selects ColumnB for a, for use in "id IN (?)" filters.
func (s EdgeSet[T]) subquery(db *gorm.DB, a uint) *gorm.DB {
	return db.Model(new(T)).Select(s.ColumnB).Where(s.ColumnA+" = ?", a)
}
