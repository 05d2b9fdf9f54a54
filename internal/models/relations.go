package models

import "time"

// Follow is a subscription of User to Author's recipes.
type Follow struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_user_author;check:chk_follows_not_self,user_id <> author_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_user_author;index"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

type FavoriteRecipe struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}

type ShoppingCartEntry struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}

// All lists every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Follow{},
		&FavoriteRecipe{},
		&ShoppingCartEntry{},
	}
}
