package models

import "time"

// Recipe is authored by a user and composed of tagged ingredients.
type Recipe struct {
	ID          uint      `gorm:"primaryKey"`
	AuthorID    uint      `gorm:"not null;index"`
	Name        string    `gorm:"size:256;not null"`
	Text        string    `gorm:"type:text;not null"`
	Image       string    `gorm:"size:512;not null"`
	CookingTime int       `gorm:"not null"`
	ShortLink   *string   `gorm:"size:32;uniqueIndex"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	Author       User                `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tags         []Tag               `gorm:"many2many:recipe_tags;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Compositions []RecipeComposition `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// RecipeComposition is the quantity of one ingredient within one recipe.
type RecipeComposition struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_composition_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_composition_recipe_ingredient;index"`
	Amount       int  `gorm:"not null"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}
