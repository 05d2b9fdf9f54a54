package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pairToggle adds and removes (user, target) rows in one association table.
// The table's unique index on the pair backs the existence check, so a
// concurrent duplicate still ends up as a Conflict.
type pairToggle struct {
	relation  string
	targetCol string
	model     func() interface{}
	newRow    func(userID, targetID uint) interface{}
	exists    string
	absent    string
	// missing builds the error for removing a pair that does not exist.
	missing   func(message string) *apperror.AppError
}

func (p pairToggle) add(ctx context.Context, db *gorm.DB, userID, targetID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	var n int64
	err := db.WithContext(ctx).Model(p.model()).
		Where("user_id = ? AND "+p.targetCol+" = ?", userID, targetID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict(p.exists)
	}

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(p.newRow(userID, targetID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict(p.exists)
		}
		return database.TranslateError(err, p.relation)
	}

	metrics.RelationToggles.WithLabelValues(p.relation, "add").Inc()
	return nil
}

func (p pairToggle) remove(ctx context.Context, db *gorm.DB, userID, targetID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	res := db.WithContext(ctx).
		Where("user_id = ? AND "+p.targetCol+" = ?", userID, targetID).
		Delete(p.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return p.missing(p.absent)
	}

	metrics.RelationToggles.WithLabelValues(p.relation, "remove").Inc()
	return nil
}

var (
	favoriteToggle = pairToggle{
		relation:  "favorite",
		targetCol: "recipe_id",
		model:     func() interface{} { return &models.FavoriteRecipe{} },
		newRow: func(userID, recipeID uint) interface{} {
			return &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
		},
		exists:  "recipe is already in favorites",
		absent:  "recipe is not in favorites",
		missing: apperror.NotMember,
	}

	cartToggle = pairToggle{
		relation:  "shopping_cart",
		targetCol: "recipe_id",
		model:     func() interface{} { return &models.ShoppingCartEntry{} },
		newRow: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
		},
		exists:  "recipe is already in the shopping cart",
		absent:  "recipe is not in the shopping cart",
		missing: apperror.NotMember,
	}

	followToggle = pairToggle{
		relation:  "follow",
		targetCol: "author_id",
		model:     func() interface{} { return &models.Follow{} },
		newRow: func(userID, authorID uint) interface{} {
			return &models.Follow{UserID: userID, AuthorID: authorID}
		},
		exists:  "already subscribed to this author",
		absent:  "not subscribed to this author",
		missing: apperror.Missing,
	}
)

// RelationService toggles a user's favorites and shopping cart.
type RelationService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

var _ IRelationService = (*RelationService)(nil)

func NewRelationService(db *gorm.DB, log *zap.SugaredLogger) *RelationService {
	return &RelationService{
		db:  db,
		log: log,
	}
}

// AddFavorite returns the favorited recipe on success.
func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.add(ctx, favoriteToggle, userID, recipeID)
}

func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, favoriteToggle, userID, recipeID)
}

// AddToCart returns the added recipe on success.
func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.add(ctx, cartToggle, userID, recipeID)
}

func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, cartToggle, userID, recipeID)
}

func (s *RelationService) add(ctx context.Context, p pairToggle, userID, recipeID uint) (*models.Recipe, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := p.add(ctx, s.db, userID, recipeID); err != nil {
		return nil, err
	}
	s.log.Infow("relation added", "relation", p.relation, "user_id", userID, "recipe_id", recipeID)
	return recipe, nil
}

func (s *RelationService) remove(ctx context.Context, p pairToggle, userID, recipeID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}
	if err := p.remove(ctx, s.db, userID, recipeID); err != nil {
		return err
	}
	s.log.Infow("relation removed", "relation", p.relation, "user_id", userID, "recipe_id", recipeID)
	return nil
}

func (s *RelationService) recipe(ctx context.Context, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("recipe", recipeID)
	}
	return &recipe, err
}
