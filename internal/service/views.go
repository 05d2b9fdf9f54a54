package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeView is a recipe with its relations loaded plus the flags that
// depend on who is looking at it.
type RecipeView struct {
	Recipe           models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// UserView is a user as seen by the viewer.
type UserView struct {
	User         models.User
	IsSubscribed bool
}

// AuthorView is a followed author with a preview of their latest recipes.
type AuthorView struct {
	UserView
	Recipes      []models.Recipe
	RecipesCount int64
}

func requireUser(userID uint) error {
	if userID == 0 {
		return apperror.Unauthorized("authentication required")
	}
	return nil
}

// idSet runs q and collects column into a set.
func idSet(q *gorm.DB, column string) (map[uint]bool, error) {
	var ids []uint
	if err := q.Pluck(column, &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// followedAuthors returns which of authorIDs the viewer follows.
func followedAuthors(ctx context.Context, db *gorm.DB, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	if viewerID == 0 || len(authorIDs) == 0 {
		return map[uint]bool{}, nil
	}
	return idSet(db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs), "author_id")
}

// firstMissing returns the first id in want that is absent from got, or 0.
func firstMissing(want, got []uint) uint {
	found := make(map[uint]bool, len(got))
	for _, id := range got {
		found[id] = true
	}
	for _, id := range want {
		if !found[id] {
			return id
		}
	}
	return 0
}
