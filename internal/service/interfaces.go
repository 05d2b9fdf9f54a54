package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	SetPassword(ctx context.Context, userID uint, current, next string) error
}

// IUserService defines the interface for user lookups
type IUserService interface {
	List(ctx context.Context, viewerID uint, page types.Page) ([]UserView, int64, error)
	Get(ctx context.Context, viewerID, userID uint) (*UserView, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uint, req *types.CreateRecipeRequest) (*RecipeView, error)
	Update(ctx context.Context, recipeID, requesterID uint, req *types.UpdateRecipeRequest) (*RecipeView, error)
	Delete(ctx context.Context, recipeID, requesterID uint) error
	Get(ctx context.Context, recipeID, viewerID uint) (*RecipeView, error)
	List(ctx context.Context, viewerID uint, filter RecipeFilter, page types.Page) ([]RecipeView, int64, error)
}

// IRelationService defines the favorite and shopping cart toggles
type IRelationService interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uint) error
}

// IFollowService defines the subscription operations
type IFollowService interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorView, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	Subscriptions(ctx context.Context, userID uint, page types.Page, recipesLimit int) ([]AuthorView, int64, error)
}

// IShoppingListService defines the shopping list export
type IShoppingListService interface {
	Generate(ctx context.Context, userID uint) ([]ShoppingListItem, error)
	Download(ctx context.Context, userID uint) (string, error)
}

// IReferenceService defines access to tags and ingredients
type IReferenceService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	LoadIngredients(ctx context.Context, rows []models.Ingredient) (int64, error)
	LoadTags(ctx context.Context, tags []models.Tag) (int64, error)
}
