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

type UserService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB, log *zap.SugaredLogger) *UserService {
	return &UserService{
		db:  db,
		log: log,
	}
}

func (s *UserService) List(ctx context.Context, viewerID uint, page types.Page) ([]UserView, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	views, err := s.annotate(ctx, viewerID, users)
	return views, total, err
}

func (s *UserService) Get(ctx context.Context, viewerID, userID uint) (*UserView, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user", userID)
	}
	if err != nil {
		return nil, err
	}

	views, err := s.annotate(ctx, viewerID, []models.User{user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *UserService) annotate(ctx context.Context, viewerID uint, users []models.User) ([]UserView, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := followedAuthors(ctx, s.db, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = UserView{User: u, IsSubscribed: followed[u.ID]}
	}
	return views, nil
}
