package service

import (
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeFilter holds the optional recipe list filters. Nil pointers and an
// empty TagSlugs are no-ops; all present filters are combined with AND.
type RecipeFilter struct {
	// IsFavorited restricts to (true) or excludes (false) the viewer's favorites.
	IsFavorited *bool
	// IsInShoppingCart does the same against the viewer's shopping cart.
	IsInShoppingCart *bool
	// TagSlugs keeps recipes having at least one of the tags.
	TagSlugs []string
	AuthorID *uint
}

// Apply adds the filter predicates to q, a query over recipes. Relation
// filters need a viewer and are skipped for anonymous requests.
func (f RecipeFilter) Apply(q *gorm.DB, viewerID uint) *gorm.DB {
	sub := func() *gorm.DB {
		return q.Session(&gorm.Session{NewDB: true})
	}

	if viewerID != 0 && f.IsFavorited != nil {
		favorites := sub().Model(&models.FavoriteRecipe{}).Select("recipe_id").Where("user_id = ?", viewerID)
		q = membership(q, *f.IsFavorited, favorites)
	}
	if viewerID != 0 && f.IsInShoppingCart != nil {
		cart := sub().Model(&models.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", viewerID)
		q = membership(q, *f.IsInShoppingCart, cart)
	}

	if len(f.TagSlugs) > 0 {
		tagged := sub().Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}

	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}

	return q
}

func membership(q *gorm.DB, member bool, ids *gorm.DB) *gorm.DB {
	if member {
		return q.Where("recipes.id IN (?)", ids)
	}
	return q.Where("recipes.id NOT IN (?)", ids)
}
