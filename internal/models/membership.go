package models

import "time"

// Favorite is a user's bookmark on a recipe.
// The primary key is a composite of (UserID, RecipeID) to ensure uniqueness.
type Favorite struct {
	UserID    uint `gorm:"primaryKey"`
	RecipeID  uint `gorm:"primaryKey"`
	CreatedAt time.Time

	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ShoppingCartItem places a recipe in a user's shopping cart.
type ShoppingCartItem struct {
	UserID    uint `gorm:"primaryKey"`
	RecipeID  uint `gorm:"primaryKey"`
	CreatedAt time.Time

	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Subscription is a directed edge: UserID follows AuthorID.
type Subscription struct {
	UserID    uint `gorm:"primaryKey"`
	AuthorID  uint `gorm:"primaryKey"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Author User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&RevokedToken{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeComposition{},
		&Favorite{},
		&ShoppingCartItem{},
		&Subscription{},
	}
}
