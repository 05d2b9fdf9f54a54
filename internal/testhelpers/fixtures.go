package testhelpers

import (
	"fmt"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TestPassword is the password of every user created by Fixtures.
const TestPassword = "s3cret-pass"

// Fixtures inserts rows directly, bypassing the services under test.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) User(username string) *models.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: string(hash),
	}
	f.create(u)
	return u
}

func (f *Fixtures) Tag(slug string) *models.Tag {
	f.t.Helper()
	f.n++
	tag := &models.Tag{
		Name:  slug,
		Slug:  slug,
		Color: fmt.Sprintf("#%06X", f.n),
	}
	f.create(tag)
	return tag
}

func (f *Fixtures) Ingredient(name, unit string) *models.Ingredient {
	f.t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	f.create(ing)
	return ing
}

// Recipe creates a recipe owned by author with the given tags and
// ingredient amounts.
func (f *Fixtures) Recipe(author *models.User, name string, tags []*models.Tag, amounts map[*models.Ingredient]int) *models.Recipe {
	f.t.Helper()
	r := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and serve.",
		CookingTime: 10,
		Image:       "/media/recipes/" + name + ".png",
	}
	f.create(r)

	for _, tag := range tags {
		f.create(&models.RecipeTag{RecipeID: r.ID, TagID: tag.ID})
	}
	for ing, amount := range amounts {
		f.create(&models.RecipeIngredient{RecipeID: r.ID, IngredientID: ing.ID, Amount: amount})
	}
	return r
}

func (f *Fixtures) Favorite(user *models.User, recipe *models.Recipe) {
	f.t.Helper()
	f.create(&models.FavoriteRecipe{UserID: user.ID, RecipeID: recipe.ID})
}

func (f *Fixtures) AddToCart(user *models.User, recipe *models.Recipe) {
	f.t.Helper()
	f.create(&models.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID})
}

func (f *Fixtures) Follow(user, author *models.User) {
	f.t.Helper()
	f.create(&models.Follow{UserID: user.ID, AuthorID: author.ID})
}

func (f *Fixtures) create(v interface{}) {
	f.t.Helper()
	if err := f.db.Omit(clause.Associations).Create(v).Error; err != nil {
		f.t.Fatalf("create fixture %T: %v", v, err)
	}
}
