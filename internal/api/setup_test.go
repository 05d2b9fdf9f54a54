package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const pngURI = "data:image/png;base64,iVBORw0KGgo="

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI is the full HTTP stack over an in-memory database.
type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	fx     *testhelpers.Fixtures
	auth   *service.AuthService
	images *testhelpers.MemoryImageStore
	router *gin.Engine
}

func setupAPI(t *testing.T) *testAPI {
	db := testhelpers.SetupTestDatabase(t)
	log := logger.Nop()
	images := testhelpers.NewMemoryImageStore()
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil, log)

	r := router.Setup(router.Options{
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      log,
	}, api.Services{
		DB:           db,
		Auth:         auth,
		Users:        service.NewUserService(db, log),
		Follows:      service.NewFollowService(db, log),
		Recipes:      service.NewRecipeService(db, images, log),
		Relations:    service.NewRelationService(db, log),
		ShoppingList: service.NewShoppingListService(db, log),
		Reference:    service.NewReferenceService(db, log),
	})

	return &testAPI{
		t:      t,
		db:     db,
		fx:     testhelpers.NewFixtures(t, db),
		auth:   auth,
		images: images,
		router: r,
	}
}

// token issues a token for user as if they had logged in.
func (a *testAPI) token(user *models.User) string {
	a.t.Helper()
	token, err := a.auth.GenerateToken(&types.TokenClaims{UserID: user.ID, Email: user.Email})
	require.NoError(a.t, err)
	return token
}

// do performs a request. token may be empty for anonymous calls.
func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// page is a paginated response with typed results.
type page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type errorBody struct {
	Errors string `json:"errors"`
	Field  string `json:"field"`
}
