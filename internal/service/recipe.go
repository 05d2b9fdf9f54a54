package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeService struct {
	db     *gorm.DB
	images storage.ImageStore
	log    *zap.SugaredLogger
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, images storage.ImageStore, log *zap.SugaredLogger) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		log:    log,
	}
}

// Create stores a recipe with its tags and ingredient amounts in one
// transaction. The image is uploaded first and discarded if the write fails.
func (s *RecipeService) Create(ctx context.Context, authorID uint, req *types.CreateRecipeRequest) (*RecipeView, error) {
	if err := requireUser(authorID); err != nil {
		return nil, err
	}
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if err := validateCookingTime(req.CookingTime); err != nil {
		return nil, err
	}
	if err := validateIngredients(req.Ingredients); err != nil {
		return nil, err
	}
	if req.Image == "" {
		return nil, apperror.Validation("image", "image is required")
	}
	img, err := storage.DecodeDataURI(req.Image)
	if err != nil {
		return nil, err
	}
	tagIDs := uniqueIDs(req.Tags)

	imageURL, err := s.images.Save(ctx, authorID, img)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       imageURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTags(tx, tagIDs); err != nil {
			return err
		}
		if err := checkIngredients(tx, req.Ingredients); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return database.TranslateError(err, "recipe")
		}
		if err := insertTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, err
	}

	metrics.RecipesCreated.Inc()
	s.log.Infow("recipe created", "recipe_id", recipe.ID, "author_id", authorID)

	return s.Get(ctx, recipe.ID, authorID)
}

// Update applies a partial update. Only the author may update a recipe.
// Ingredients and tags, when present, replace the stored sets wholesale.
func (s *RecipeService) Update(ctx context.Context, recipeID, requesterID uint, req *types.UpdateRecipeRequest) (*RecipeView, error) {
	recipe, err := s.authorize(ctx, recipeID, requesterID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
	}
	if req.Text != nil {
		if err := validateText(*req.Text); err != nil {
			return nil, err
		}
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		if err := validateCookingTime(*req.CookingTime); err != nil {
			return nil, err
		}
		updates["cooking_time"] = *req.CookingTime
	}
	if req.Ingredients != nil {
		if err := validateIngredients(*req.Ingredients); err != nil {
			return nil, err
		}
	}
	var tagIDs []uint
	if req.Tags != nil {
		tagIDs = uniqueIDs(*req.Tags)
	}

	var newImage string
	if req.Image != nil {
		img, err := storage.DecodeDataURI(*req.Image)
		if err != nil {
			return nil, err
		}
		if newImage, err = s.images.Save(ctx, requesterID, img); err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		updates["image"] = newImage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{ID: recipeID}).Updates(updates).Error; err != nil {
				return database.TranslateError(err, "recipe")
			}
		}
		if req.Tags != nil {
			if err := checkTags(tx, tagIDs); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := insertTags(tx, recipeID, tagIDs); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := checkIngredients(tx, *req.Ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := insertIngredients(tx, recipeID, *req.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if newImage != "" {
			s.discardImage(ctx, newImage)
		}
		return nil, err
	}

	if newImage != "" && recipe.Image != "" {
		s.discardImage(ctx, recipe.Image)
	}
	s.log.Infow("recipe updated", "recipe_id", recipeID, "author_id", requesterID)

	return s.Get(ctx, recipeID, requesterID)
}

// Delete removes a recipe. Favorites and shopping cart entries go with it
// through the foreign key cascades.
func (s *RecipeService) Delete(ctx context.Context, recipeID, requesterID uint) error {
	recipe, err := s.authorize(ctx, recipeID, requesterID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, recipeID).Error
	})
	if err != nil {
		return err
	}

	if recipe.Image != "" {
		s.discardImage(ctx, recipe.Image)
	}
	s.log.Infow("recipe deleted", "recipe_id", recipeID, "author_id", requesterID)
	return nil
}

// Get loads one recipe with tags, ingredients and author.
func (s *RecipeService) Get(ctx context.Context, recipeID, viewerID uint) (*RecipeView, error) {
	var recipe models.Recipe
	err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("recipe", recipeID)
	}
	if err != nil {
		return nil, err
	}

	views, err := s.annotate(ctx, viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns one page of recipes matching filter, ordered by name, and
// the total number of matches.
func (s *RecipeService) List(ctx context.Context, viewerID uint, filter RecipeFilter, page types.Page) ([]RecipeView, int64, error) {
	base := filter.Apply(s.db.WithContext(ctx).Model(&models.Recipe{}), viewerID).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := preloadRecipe(base).
		Order("recipes.name ASC").
		Order("recipes.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	views, err := s.annotate(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *RecipeService) authorize(ctx context.Context, recipeID, requesterID uint) (*models.Recipe, error) {
	if err := requireUser(requesterID); err != nil {
		return nil, err
	}
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("recipe", recipeID)
	}
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != requesterID {
		return nil, apperror.Forbidden("only the author can change this recipe")
	}
	return &recipe, nil
}

// annotate attaches the viewer-dependent flags using one query per relation.
func (s *RecipeService) annotate(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]RecipeView, error) {
	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		views[i].Recipe = recipes[i]
	}
	if viewerID == 0 || len(recipes) == 0 {
		return views, nil
	}

	ids := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	db := s.db.WithContext(ctx)
	favorites, err := idSet(db.Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, ids), "recipe_id")
	if err != nil {
		return nil, err
	}
	cart, err := idSet(db.Model(&models.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, ids), "recipe_id")
	if err != nil {
		return nil, err
	}
	followed, err := followedAuthors(ctx, s.db, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for i := range views {
		views[i].IsFavorited = favorites[views[i].Recipe.ID]
		views[i].IsInShoppingCart = cart[views[i].Recipe.ID]
		views[i].AuthorSubscribed = followed[views[i].Recipe.AuthorID]
	}
	return views, nil
}

func (s *RecipeService) discardImage(ctx context.Context, url string) {
	if err := s.images.Delete(ctx, url); err != nil {
		s.log.Warnw("failed to remove image", "url", url, "error", err)
	}
}

func preloadRecipe(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient")
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > models.MaxNameLength {
		return apperror.Validation("name", fmt.Sprintf("name must be at most %d characters", models.MaxNameLength))
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperror.Validation("text", "text is required")
	}
	return nil
}

func validateCookingTime(minutes int) error {
	if minutes < models.MinCookingTime || minutes > models.MaxCookingTime {
		return apperror.Validation("cooking_time",
			fmt.Sprintf("cooking time must be between %d and %d", models.MinCookingTime, models.MaxCookingTime))
	}
	return nil
}

// validateIngredients requires a non-empty list of distinct ingredients
// with in-range amounts.
func validateIngredients(entries []types.IngredientAmount) error {
	if len(entries) == 0 {
		return apperror.Validation("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uint]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return apperror.Validation("ingredients", fmt.Sprintf("ingredient %d is listed more than once", e.ID))
		}
		seen[e.ID] = true
		if e.Amount < models.MinAmount || e.Amount > models.MaxAmount {
			return apperror.Validation("amount",
				fmt.Sprintf("amount must be between %d and %d", models.MinAmount, models.MaxAmount))
		}
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func checkTags(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var found []uint
	if err := tx.Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if missing := firstMissing(ids, found); missing != 0 {
		return apperror.NotFound("tag", missing)
	}
	return nil
}

func checkIngredients(tx *gorm.DB, entries []types.IngredientAmount) error {
	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	var found []uint
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if missing := firstMissing(ids, found); missing != 0 {
		return apperror.NotFound("ingredient", missing)
	}
	return nil
}

func insertTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	return database.TranslateError(tx.Create(&rows).Error, "recipe tag")
}

func insertIngredients(tx *gorm.DB, recipeID uint, entries []types.IngredientAmount) error {
	rows := make([]models.RecipeIngredient, len(entries))
	for i, e := range entries {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: e.ID,
			Amount:       e.Amount,
		}
	}
	return database.TranslateError(tx.Omit(clause.Associations).Create(&rows).Error, "recipe ingredient")
}
