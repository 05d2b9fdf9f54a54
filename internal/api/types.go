package api

import (
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func tagResponse(t models.Tag) types.TagResponse {
	return types.TagResponse{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func tagResponses(tags []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, len(tags))
	for i, t := range tags {
		out[i] = tagResponse(t)
	}
	return out
}

func ingredientResponses(ingredients []models.Ingredient) []types.IngredientResponse {
	out := make([]types.IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		out[i] = ingredientResponse(ing)
	}
	return out
}

func ingredientResponse(ing models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{
		ID:              ing.ID,
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}

func userResponse(u models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func userResponses(views []service.UserView) []types.UserResponse {
	out := make([]types.UserResponse, len(views))
	for i, v := range views {
		out[i] = userResponse(v.User, v.IsSubscribed)
	}
	return out
}

func recipeResponse(v service.RecipeView) types.RecipeResponse {
	r := v.Recipe
	ingredients := make([]types.RecipeIngredientResponse, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		ingredients[i] = types.RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return types.RecipeResponse{
		ID:               r.ID,
		Tags:             tagResponses(r.Tags),
		Author:           userResponse(r.Author, v.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func recipeResponses(views []service.RecipeView) []types.RecipeResponse {
	out := make([]types.RecipeResponse, len(views))
	for i, v := range views {
		out[i] = recipeResponse(v)
	}
	return out
}

func recipeSummary(r models.Recipe) types.RecipeSummary {
	return types.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func subscriptionResponse(v service.AuthorView) types.SubscriptionResponse {
	recipes := make([]types.RecipeSummary, len(v.Recipes))
	for i, r := range v.Recipes {
		recipes[i] = recipeSummary(r)
	}
	return types.SubscriptionResponse{
		UserResponse: userResponse(v.User, v.IsSubscribed),
		Recipes:      recipes,
		RecipesCount: v.RecipesCount,
	}
}

func subscriptionResponses(views []service.AuthorView) []types.SubscriptionResponse {
	out := make([]types.SubscriptionResponse, len(views))
	for i, v := range views {
		out[i] = subscriptionResponse(v)
	}
	return out
}
