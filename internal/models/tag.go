package models

// Tag represents a recipe tag (e.g., "Breakfast", "Vegan"). Managed by admins.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:32;uniqueIndex;not null"`
	Slug string `gorm:"size:32;uniqueIndex;not null"`
}

// Ingredient is reference data bulk-loaded at setup time.
type Ingredient struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:128;uniqueIndex;not null"`
	MeasurementUnit string `gorm:"size:64;not null"`
}
