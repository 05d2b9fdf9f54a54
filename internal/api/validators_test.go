package api_test

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/api"
)

type ruledRequest struct {
	Username string `json:"username" binding:"username"`
	Slug     string `json:"slug" binding:"slug"`
	Color    string `json:"color" binding:"hexcolor"`
}

func TestRegisterValidators(t *testing.T) {
	api.RegisterValidators()
	api.RegisterValidators()

	require.NoError(t, binding.Validator.ValidateStruct(&ruledRequest{
		Username: "vasya.p@home", Slug: "breakfast_1", Color: "#E26C2D",
	}))

	tests := []struct {
		name string
		req  ruledRequest
		want string
	}{
		{"reserved username", ruledRequest{Username: "me", Slug: "ok", Color: "#fff"}, "username"},
		{"username with space", ruledRequest{Username: "bad name", Slug: "ok", Color: "#fff"}, "username"},
		{"slug with space", ruledRequest{Username: "ok", Slug: "not ok", Color: "#fff"}, "slug"},
		{"color without hash", ruledRequest{Username: "ok", Slug: "ok", Color: "ffffff"}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.req)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.want, verrs[0].Field())
		})
	}
}
