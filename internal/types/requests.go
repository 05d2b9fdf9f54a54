package types

// IngredientAmount is one ingredient line of a recipe write.
type IngredientAmount struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Image is a base64 data URI.
type CreateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,dive"`
	Tags        []uint             `json:"tags" binding:"required"`
	Image       string             `json:"image" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required"`
}

// UpdateRecipeRequest carries a partial update. Nil fields are left
// untouched; a non-nil Ingredients or Tags replaces the whole set.
type UpdateRecipeRequest struct {
	Ingredients *[]IngredientAmount `json:"ingredients,omitempty"`
	Tags        *[]uint             `json:"tags,omitempty"`
	Image       *string             `json:"image,omitempty"`
	Name        *string             `json:"name,omitempty"`
	Text        *string             `json:"text,omitempty"`
	CookingTime *int                `json:"cooking_time,omitempty"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}

// Page selects a window of a list endpoint. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
