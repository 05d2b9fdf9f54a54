package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 10000
	MinAmount      = 1
	MaxAmount      = 50000

	MaxNameLength  = 200
	MaxColorLength = 7
)

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null;uniqueIndex" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

// BeforeSave rejects tags whose slug or color would break the URL filters
// and the frontend palette.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	return ValidateTag(t)
}

// Ingredient is reference data. The name alone is not unique; the unit
// disambiguates ("salt"/"g" and "salt"/"pinch" are different ingredients).
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit;index" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

type Recipe struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time          `gorm:"index" json:"-"`
	UpdatedAt   time.Time          `json:"-"`
	AuthorID    uint               `gorm:"not null;index" json:"-"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Name        string             `gorm:"size:200;not null;index" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1 AND cooking_time <= 10000" json:"cooking_time"`
	Image       string             `gorm:"size:255" json:"image"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

// RecipeIngredient is the through row carrying the quantity. A recipe lists
// an ingredient at most once.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"id"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1 AND amount <= 50000" json:"amount"`
}

// RecipeTag maps the recipe_tags join table so associations can be written
// in bulk inside a transaction without round-tripping through the tags.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
