package mocks

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) Create(ctx context.Context, authorID uint, req *types.CreateRecipeRequest) (*service.RecipeView, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, recipeID, requesterID uint, req *types.UpdateRecipeRequest) (*service.RecipeView, error) {
	args := m.Called(ctx, recipeID, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, recipeID, requesterID uint) error {
	args := m.Called(ctx, recipeID, requesterID)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, recipeID, viewerID uint) (*service.RecipeView, error) {
	args := m.Called(ctx, recipeID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewerID uint, filter service.RecipeFilter, page types.Page) ([]service.RecipeView, int64, error) {
	args := m.Called(ctx, viewerID, filter, page)
	views, _ := args.Get(0).([]service.RecipeView)
	return views, args.Get(1).(int64), args.Error(2)
}

// MockRelationService is a mock implementation of service.IRelationService
type MockRelationService struct {
	mock.Mock
}

var _ service.IRelationService = (*MockRelationService)(nil)

func (m *MockRelationService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return m.add(m.Called(ctx, userID, recipeID))
}

func (m *MockRelationService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRelationService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return m.add(m.Called(ctx, userID, recipeID))
}

func (m *MockRelationService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRelationService) add(args mock.Arguments) (*models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

var _ service.IShoppingListService = (*MockShoppingListService)(nil)

func (m *MockShoppingListService) Generate(ctx context.Context, userID uint) ([]service.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]service.ShoppingListItem)
	return items, args.Error(1)
}

func (m *MockShoppingListService) Download(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
