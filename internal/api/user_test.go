package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerBody(username string) map[string]string {
	return map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Vasya",
		"last_name":  "Pupkin",
		"password":   "correct-horse",
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	a := setupAPI(t)

	w := a.do(http.MethodPost, "/api/users", "", registerBody("vasya"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]interface{}](t, w)
	assert.Equal(t, "vasya", created["username"])
	assert.NotContains(t, created, "password")
	assert.NotContains(t, created, "is_subscribed")

	w = a.do(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": "vasya@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": "vasya@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[types.TokenResponse](t, w).AuthToken
	require.NotEmpty(t, token)

	w = a.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[types.UserResponse](t, w)
	assert.Equal(t, "vasya@example.com", me.Email)
	assert.False(t, me.IsSubscribed)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/auth/token/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/auth/token/logout", "", nil).Code)
}

func TestRegisterValidation(t *testing.T) {
	a := setupAPI(t)
	a.fx.User("taken")

	tests := []struct {
		name      string
		body      map[string]string
		wantField string
	}{
		{"reserved username", registerBody("me"), "username"},
		{"bad username characters", func() map[string]string {
			b := registerBody("bad name!")
			b["email"] = "bad-name@example.com"
			return b
		}(), "username"},
		{"duplicate username", func() map[string]string {
			b := registerBody("taken")
			b["email"] = "other@example.com"
			return b
		}(), "username"},
		{"duplicate email", func() map[string]string {
			b := registerBody("fresh")
			b["email"] = "taken@example.com"
			return b
		}(), "email"},
		{"short password", func() map[string]string {
			b := registerBody("fresh")
			b["password"] = "short"
			return b
		}(), "password"},
		{"missing last name", func() map[string]string {
			b := registerBody("fresh")
			delete(b, "last_name")
			return b
		}(), "last_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/api/users", "", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decode[errorBody](t, w)
			assert.Equal(t, tt.wantField, body.Field)
			assert.NotEmpty(t, body.Errors)
		})
	}
}

func TestMeRequiresToken(t *testing.T) {
	a := setupAPI(t)

	w := a.do(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, decode[errorBody](t, w).Errors)

	w = a.do(http.MethodGet, "/api/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetPassword(t *testing.T) {
	a := setupAPI(t)
	user := a.fx.User("anna")
	token := a.token(user)

	w := a.do(http.MethodPost, "/api/users/set_password", token, map[string]string{
		"current_password": "nope-nope", "new_password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "current_password", decode[errorBody](t, w).Field)

	w = a.do(http.MethodPost, "/api/users/set_password", token, map[string]string{
		"current_password": testhelpers.TestPassword, "new_password": "brand-new-pass",
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": user.Email, "password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsersListAndProfile(t *testing.T) {
	a := setupAPI(t)
	anna := a.fx.User("anna")
	boris := a.fx.User("boris")
	a.fx.Follow(anna, boris)

	w := a.do(http.MethodGet, "/api/users?limit=1", a.token(anna), nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[page[types.UserResponse]](t, w)
	assert.Equal(t, int64(2), p.Count)
	assert.Len(t, p.Results, 1)
	assert.NotNil(t, p.Next)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/users/%d", boris.ID), a.token(anna), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[types.UserResponse](t, w).IsSubscribed)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/users/%d", boris.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[types.UserResponse](t, w).IsSubscribed)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/users/9999", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/users/x", "", nil).Code)
}

func TestSubscribeFlow(t *testing.T) {
	a := setupAPI(t)
	reader := a.fx.User("reader")
	author := a.fx.User("author")
	for _, name := range []string{"one", "two", "three"} {
		a.fx.Recipe(author, name, nil, nil)
	}
	token := a.token(reader)
	path := fmt.Sprintf("/api/users/%d/subscribe", author.ID)

	w := a.do(http.MethodPost, path+"?recipes_limit=2", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[types.SubscriptionResponse](t, w)
	assert.Equal(t, author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(3), sub.RecipesCount)
	assert.Len(t, sub.Recipes, 2)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, path, token, nil).Code)

	self := fmt.Sprintf("/api/users/%d/subscribe", reader.ID)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, self, token, nil).Code)

	w = a.do(http.MethodGet, "/api/users/subscriptions?recipes_limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	subs := decode[page[types.SubscriptionResponse]](t, w)
	require.Len(t, subs.Results, 1)
	assert.Equal(t, "author", subs.Results[0].Username)
	assert.Len(t, subs.Results[0].Recipes, 1)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path, token, nil).Code)

	var n int64
	require.NoError(t, a.db.Model(&models.Follow{}).Count(&n).Error)
	assert.Zero(t, n)
}
