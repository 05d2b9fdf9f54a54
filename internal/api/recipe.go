package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingListFilename is offered to the browser when downloading the list.
const ShoppingListFilename = "shopping_cart.txt"

type RecipeHandler struct {
	authService         service.IAuthService
	recipeService       service.IRecipeService
	relationService     service.IRelationService
	shoppingListService service.IShoppingListService
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

// NewRecipeHandler builds the recipe handler. The limiters may be nil.
func NewRecipeHandler(
	authService service.IAuthService,
	recipeService service.IRecipeService,
	relationService service.IRelationService,
	shoppingListService service.IShoppingListService,
	creationLimiter, modificationLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		authService:         authService,
		recipeService:       recipeService,
		relationService:     relationService,
		shoppingListService: shoppingListService,
		creationLimiter:     creationLimiter,
		modificationLimiter: modificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)

	create := []gin.HandlerFunc{requireAuth}
	modify := []gin.HandlerFunc{requireAuth}
	if h.creationLimiter != nil {
		create = append(create, h.creationLimiter.RateLimitMiddleware())
	}
	if h.modificationLimiter != nil {
		modify = append(modify, h.modificationLimiter.PerRecipeRateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.POST("", append(create, h.CreateRecipe)...)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PUT("/:id", append(modify, h.UpdateRecipe)...)
		recipes.PATCH("/:id", append(modify, h.UpdateRecipe)...)
		recipes.DELETE("/:id", append(modify, h.DeleteRecipe)...)
		recipes.POST("/:id/favorite", requireAuth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", requireAuth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireAuth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.RemoveFromShoppingCart)
	}
}

// recipeListQuery is the query string of the recipe list.
type recipeListQuery struct {
	IsFavorited      string   `form:"is_favorited"`
	IsInShoppingCart string   `form:"is_in_shopping_cart"`
	Tags             []string `form:"tags" binding:"dive,slug"`
	Author           string   `form:"author"`
}

func parseRecipeFilter(c *gin.Context) (service.RecipeFilter, error) {
	var q recipeListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return service.RecipeFilter{}, apperror.Validation("tags", "tags must be tag slugs")
	}

	filter := service.RecipeFilter{
		IsFavorited:      flagParam(q.IsFavorited),
		IsInShoppingCart: flagParam(q.IsInShoppingCart),
		TagSlugs:         q.Tags,
	}
	if q.Author != "" {
		id, err := strconv.ParseUint(q.Author, 10, 64)
		if err != nil {
			return filter, apperror.Validation("author", "author must be a user id")
		}
		author := uint(id)
		filter.AuthorID = &author
	}
	return filter, nil
}

// flagParam reads a "1"/"0" flag. Other values leave the filter off.
func flagParam(raw string) *bool {
	switch raw {
	case "1", "true":
		v := true
		return &v
	case "0", "false":
		v := false
		return &v
	}
	return nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter, err := parseRecipeFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	views, total, err := h.recipeService.List(c.Request.Context(), middleware.CurrentUserID(c), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, paginated(c, page, total, recipeResponses(views)))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := idParam(c, "id", "recipe")
	if err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.recipeService.Get(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, recipeResponse(*view))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.recipeService.Create(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, recipeResponse(*view))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := idParam(c, "id", "recipe")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req types.UpdateRecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.recipeService.Update(c.Request.Context(), id, middleware.CurrentUserID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, recipeResponse(*view))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := idParam(c, "id", "recipe")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.relationService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.relationService.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addRelation(c, h.relationService.AddToCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeRelation(c, h.relationService.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	text, err := h.shoppingListService.Download(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ShoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

type addFunc func(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)

type removeFunc func(ctx context.Context, userID, recipeID uint) error

func (h *RecipeHandler) addRelation(c *gin.Context, add addFunc) {
	id, err := idParam(c, "id", "recipe")
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := add(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, recipeSummary(*recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove removeFunc) {
	id, err := idParam(c, "id", "recipe")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := remove(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
