package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/types"
)

func TestTags(t *testing.T) {
	a := setupAPI(t)
	breakfast := a.fx.Tag("breakfast")
	a.fx.Tag("dinner")

	w := a.do(http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]types.TagResponse](t, w)
	require.Len(t, tags, 2)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/tags/%d", breakfast.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.TagResponse{
		ID: breakfast.ID, Name: "breakfast", Color: breakfast.Color, Slug: "breakfast",
	}, decode[types.TagResponse](t, w))

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/tags/999", "", nil).Code)
}

func TestIngredients(t *testing.T) {
	a := setupAPI(t)
	apple := a.fx.Ingredient("apple", "pcs")
	a.fx.Ingredient("apricot", "g")
	a.fx.Ingredient("pineapple", "pcs")

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"apple", "apricot", "pineapple"}},
		{"?name=ap", []string{"apple", "apricot"}},
		{"?name=APP", []string{"apple"}},
		{"?name=%25", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := a.do(http.MethodGet, "/api/ingredients"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var got []string
			for _, ing := range decode[[]types.IngredientResponse](t, w) {
				got = append(got, ing.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	w := a.do(http.MethodGet, fmt.Sprintf("/api/ingredients/%d", apple.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.IngredientResponse{ID: apple.ID, Name: "apple", MeasurementUnit: "pcs"},
		decode[types.IngredientResponse](t, w))
}

func TestHealthAndMetrics(t *testing.T) {
	a := setupAPI(t)

	w := a.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
