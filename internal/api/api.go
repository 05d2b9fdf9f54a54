package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles everything the HTTP handlers depend on. The rate
// limiters are optional.
type Services struct {
	DB           *gorm.DB
	Auth         service.IAuthService
	Users        service.IUserService
	Follows      service.IFollowService
	Recipes      service.IRecipeService
	Relations    service.IRelationService
	ShoppingList service.IShoppingListService
	Reference    service.IReferenceService

	RecipeCreationLimiter     *middleware.RateLimiter
	RecipeModificationLimiter *middleware.RateLimiter
}

// RegisterRoutes mounts the health check and the /api routes on router.
func RegisterRoutes(router *gin.Engine, s Services) {
	RegisterValidators()

	router.GET("/health", HealthCheck(s.DB))

	apiGroup := router.Group("/api")
	NewAuthHandler(s.Auth).RegisterRoutes(apiGroup)
	NewUserHandler(s.Auth, s.Users, s.Follows).RegisterRoutes(apiGroup)
	NewRecipeHandler(s.Auth, s.Recipes, s.Relations, s.ShoppingList,
		s.RecipeCreationLimiter, s.RecipeModificationLimiter).RegisterRoutes(apiGroup)
	NewReferenceHandler(s.Reference).RegisterRoutes(apiGroup)
}
