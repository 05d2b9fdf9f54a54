package service_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchIngredients(t *testing.T) {
	e := setup(t)
	svc := service.NewReferenceService(e.db, nop)
	ctx := context.Background()
	e.fx.Ingredient("Sugar", "g")
	e.fx.Ingredient("salt", "g")
	e.fx.Ingredient("sugar syrup", "ml")
	e.fx.Ingredient("100% juice", "ml")

	got, err := svc.SearchIngredients(ctx, "SU")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sugar", got[0].Name)
	assert.Equal(t, "sugar syrup", got[1].Name)

	got, err = svc.SearchIngredients(ctx, "gar")
	require.NoError(t, err)
	assert.Empty(t, got, "match is by prefix only")

	got, err = svc.SearchIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got, "wildcards are literal")

	got, err = svc.SearchIngredients(ctx, "100%")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.SearchIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestSearchIngredientsPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgresDatabase(t)
	fx := testhelpers.NewFixtures(t, db)
	svc := service.NewReferenceService(db, nop)
	ctx := context.Background()
	fx.Ingredient("Абрикос", "г")
	fx.Ingredient("абрикосовый джем", "г")
	fx.Ingredient("Сахар", "г")
	fx.Ingredient("100% juice", "ml")

	got, err := svc.SearchIngredients(ctx, "АБР")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Абрикос", "абрикосовый джем"}, ingredientNames(got))

	got, err = svc.SearchIngredients(ctx, "сах")
	require.NoError(t, err)
	assert.Equal(t, []string{"Сахар"}, ingredientNames(got))

	got, err = svc.SearchIngredients(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% juice"}, ingredientNames(got))

	got, err = svc.SearchIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func ingredientNames(ingredients []models.Ingredient) []string {
	out := make([]string, len(ingredients))
	for i, in := range ingredients {
		out[i] = in.Name
	}
	return out
}

func TestTagsAndIngredientLookup(t *testing.T) {
	e := setup(t)
	svc := service.NewReferenceService(e.db, nop)
	ctx := context.Background()
	breakfast := e.fx.Tag("breakfast")
	e.fx.Tag("dinner")
	flour := e.fx.Ingredient("flour", "g")

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)

	tag, err := svc.GetTag(ctx, breakfast.ID)
	require.NoError(t, err)
	assert.Equal(t, breakfast.Color, tag.Color)

	_, err = svc.GetTag(ctx, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	ingredient, err := svc.GetIngredient(ctx, flour.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", ingredient.MeasurementUnit)

	_, err = svc.GetIngredient(ctx, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLoadIngredientsSkipsExisting(t *testing.T) {
	e := setup(t)
	svc := service.NewReferenceService(e.db, nop)
	ctx := context.Background()
	e.fx.Ingredient("flour", "g")

	n, err := svc.LoadIngredients(ctx, []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "kg"},
		{Name: "milk", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(3), count(t, e.db, &models.Ingredient{}, ""))

	n, err = svc.LoadIngredients(ctx, []models.Ingredient{{Name: "milk", MeasurementUnit: "ml"}})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadTags(t *testing.T) {
	e := setup(t)
	svc := service.NewReferenceService(e.db, nop)
	ctx := context.Background()

	tags := []models.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	}
	n, err := svc.LoadTags(ctx, tags)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.LoadTags(ctx, []models.Tag{{Name: "Bad", Color: "orange", Slug: "bad"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "color", apperror.FieldOf(err))
	assert.Equal(t, int64(2), count(t, e.db, &models.Tag{}, ""))
}
