package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const mockToken = "valid-token"

type mockedAPI struct {
	auth      *mocks.MockAuthService
	recipes   *mocks.MockRecipeService
	relations *mocks.MockRelationService
	shopping  *mocks.MockShoppingListService
	router    *gin.Engine
}

// setupMocked wires the router to mocks. mockToken authenticates as user 5.
func setupMocked(t *testing.T) *mockedAPI {
	m := &mockedAPI{
		auth:      new(mocks.MockAuthService),
		recipes:   new(mocks.MockRecipeService),
		relations: new(mocks.MockRelationService),
		shopping:  new(mocks.MockShoppingListService),
	}
	m.auth.On("ValidateToken", mock.Anything, mockToken).
		Return(&types.TokenClaims{UserID: 5, Email: "five@example.com"}, nil).Maybe()

	m.router = router.Setup(router.Options{Logger: logger.Nop()}, api.Services{
		Auth:         m.auth,
		Recipes:      m.recipes,
		Relations:    m.relations,
		ShoppingList: m.shopping,
	})

	t.Cleanup(func() {
		m.auth.AssertExpectations(t)
		m.recipes.AssertExpectations(t)
		m.relations.AssertExpectations(t)
		m.shopping.AssertExpectations(t)
	})
	return m
}

func (m *mockedAPI) get(path string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth {
		req.Header.Set("Authorization", "Bearer "+mockToken)
	}
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)
	return w
}

func TestListRecipesPassesQueryToService(t *testing.T) {
	m := setupMocked(t)

	favorited := true
	author := uint(7)
	m.recipes.On("List", mock.Anything, uint(5), service.RecipeFilter{
		IsFavorited: &favorited,
		TagSlugs:    []string{"breakfast", "dinner"},
		AuthorID:    &author,
	}, types.Page{Page: 2, Limit: api.MaxPageSize}).Return([]service.RecipeView{}, int64(0), nil).Once()

	w := m.get("/api/recipes?is_favorited=1&tags=breakfast&tags=dinner&author=7&page=2&limit=500", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[page[types.RecipeResponse]](t, w)
	assert.Empty(t, body.Results)
	assert.Nil(t, body.Next)
	require.NotNil(t, body.Previous)
}

func TestListRecipesAnonymousViewer(t *testing.T) {
	m := setupMocked(t)
	m.recipes.On("List", mock.Anything, uint(0), service.RecipeFilter{}, types.Page{Page: 1, Limit: api.DefaultPageSize}).
		Return([]service.RecipeView{{Recipe: models.Recipe{ID: 1, Name: "soup"}}}, int64(1), nil).Once()

	w := m.get("/api/recipes?is_in_shopping_cart=maybe", false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[page[types.RecipeResponse]](t, w)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "soup", body.Results[0].Name)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	m := setupMocked(t)
	m.recipes.On("Get", mock.Anything, uint(3), uint(0)).Return(nil, errors.New("connection reset by peer")).Once()

	w := m.get("/api/recipes/3", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[errorBody](t, w).Errors)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", apperror.NotFound("recipe", 3), http.StatusNotFound},
		{"conflict", apperror.Conflict("recipe is already in favorites"), http.StatusBadRequest},
		{"forbidden", apperror.Forbidden("nope"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupMocked(t)
			m.relations.On("AddFavorite", mock.Anything, uint(5), uint(3)).Return(nil, tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/recipes/3/favorite", nil)
			req.Header.Set("Authorization", "Token "+mockToken)
			w := httptest.NewRecorder()
			m.router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.err.Error(), decode[errorBody](t, w).Errors)
		})
	}
}

func TestDownloadUsesCurrentUser(t *testing.T) {
	m := setupMocked(t)
	m.shopping.On("Download", mock.Anything, uint(5)).Return("Список покупок:\n\n", nil).Once()

	w := m.get("/api/recipes/download_shopping_cart", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Список покупок:\n\n", w.Body.String())
}

func TestRejectedTokenNeverReachesService(t *testing.T) {
	m := setupMocked(t)
	m.auth.On("ValidateToken", mock.Anything, "revoked").Return(nil, service.ErrTokenRevoked).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	req.Header.Set("Authorization", "Token revoked")
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	m.shopping.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}
