package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultRecipesPreview is how many recipes an author preview carries when
// the caller does not ask for a specific number.
const DefaultRecipesPreview = 6

type FollowService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

var _ IFollowService = (*FollowService)(nil)

func NewFollowService(db *gorm.DB, log *zap.SugaredLogger) *FollowService {
	return &FollowService{
		db:  db,
		log: log,
	}
}

// Subscribe makes userID follow authorID and returns the author preview.
func (s *FollowService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, apperror.Validation("author", "cannot subscribe to yourself")
	}
	author, err := s.author(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if err := followToggle.add(ctx, s.db, userID, authorID); err != nil {
		return nil, err
	}
	s.log.Infow("subscribed", "user_id", userID, "author_id", authorID)

	views, err := s.previews(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	views[0].IsSubscribed = true
	return &views[0], nil
}

func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.author(ctx, authorID); err != nil {
		return err
	}
	if err := followToggle.remove(ctx, s.db, userID, authorID); err != nil {
		return err
	}
	s.log.Infow("unsubscribed", "user_id", userID, "author_id", authorID)
	return nil
}

// Subscriptions lists the authors userID follows, most recent first.
func (s *FollowService) Subscriptions(ctx context.Context, userID uint, page types.Page, recipesLimit int) ([]AuthorView, int64, error) {
	if err := requireUser(userID); err != nil {
		return nil, 0, err
	}

	base := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := base.Select("users.*").
		Order("follows.created_at DESC").Order("follows.id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	views, err := s.previews(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	for i := range views {
		views[i].IsSubscribed = true
	}
	return views, total, nil
}

// previews loads the newest recipes and the recipe count for each author.
func (s *FollowService) previews(ctx context.Context, authors []models.User, recipesLimit int) ([]AuthorView, error) {
	if recipesLimit <= 0 {
		recipesLimit = DefaultRecipesPreview
	}
	views := make([]AuthorView, len(authors))
	if len(authors) == 0 {
		return views, nil
	}

	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	var counts []struct {
		AuthorID uint
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByAuthor := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByAuthor[c.AuthorID] = c.Total
	}

	for i, a := range authors {
		var recipes []models.Recipe
		err := s.db.WithContext(ctx).
			Where("author_id = ?", a.ID).
			Order("created_at DESC").Order("id DESC").
			Limit(recipesLimit).
			Find(&recipes).Error
		if err != nil {
			return nil, err
		}
		views[i] = AuthorView{
			UserView:     UserView{User: a},
			Recipes:      recipes,
			RecipesCount: countByAuthor[a.ID],
		}
	}
	return views, nil
}

func (s *FollowService) author(ctx context.Context, authorID uint) (*models.User, error) {
	var author models.User
	err := s.db.WithContext(ctx).First(&author, authorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user", authorID)
	}
	return &author, err
}
