package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves registration, profiles and subscriptions.
type UserHandler struct {
	authService   service.IAuthService
	userService   service.IUserService
	followService service.IFollowService
}

func NewUserHandler(authService service.IAuthService, userService service.IUserService, followService service.IFollowService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		userService:   userService,
		followService: followService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optionalAuth, h.ListUsers)
		users.GET("/me", requireAuth, h.Me)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.POST("/set_password", requireAuth, h.SetPassword)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	views, total, err := h.userService.List(c.Request.Context(), middleware.CurrentUserID(c), page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, paginated(c, page, total, userResponses(views)))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := idParam(c, "id", "user")
	if err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.userService.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, userResponse(view.User, view.IsSubscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	view, err := h.userService.Get(c.Request.Context(), userID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, userResponse(view.User, false))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	err := h.authService.SetPassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := idParam(c, "id", "user")
	if err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.followService.Subscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID, recipesLimit(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, subscriptionResponse(*view))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := idParam(c, "id", "user")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.followService.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	views, total, err := h.followService.Subscriptions(c.Request.Context(), middleware.CurrentUserID(c), page, recipesLimit(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, paginated(c, page, total, subscriptionResponses(views)))
}

// recipesLimit reads ?recipes_limit=; zero lets the service pick its default.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
