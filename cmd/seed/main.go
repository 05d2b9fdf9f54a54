package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

// 1x1 transparent PNG used for every demo recipe.
const placeholderImage = "data:image/png;base64," +
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

const demoPassword = "testpassword123"

var demoUsers = []types.RegisterRequest{
	{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
	{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
	{Email: "bob.wilson@example.com", Username: "bobwilson", FirstName: "Bob", LastName: "Wilson"},
}

type demoRecipe struct {
	author      int
	name        string
	text        string
	cookingTime int
	tags        []string
	ingredients map[string]int
}

var demoRecipes = []demoRecipe{
	{0, "Блины", "Смешать муку, яйца и молоко. Жарить на сливочном масле.", 30,
		[]string{"breakfast"}, map[string]int{"мука": 200, "яйца куриные": 2, "молоко": 500}},
	{1, "Баклажаны запечённые", "Нарезать, посолить, запечь 25 минут.", 40,
		[]string{"dinner"}, map[string]int{"баклажаны": 600, "соль": 1}},
	{1, "Сладкий омлет", "Взбить яйца с сахаром и молоком, жарить под крышкой.", 15,
		[]string{"breakfast", "lunch"}, map[string]int{"яйца куриные": 3, "сахар": 20, "молоко": 100}},
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	sugar, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	db, err := database.New(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}

	images := storage.NewDiskStore(cfg.MediaDir, cfg.MediaPrefix)
	if err := seed(context.Background(), db, images, sugar); err != nil {
		sugar.Fatalw("seeding failed", "error", err)
	}
}

// seed creates demo users, their recipes and a few relations. Users that
// already exist are reused, so running it twice only adds recipes again.
func seed(ctx context.Context, db *gorm.DB, images storage.ImageStore, log *zap.SugaredLogger) error {
	auth := service.NewAuthService(db, "", 0, nil, log)
	recipes := service.NewRecipeService(db, images, log)
	relations := service.NewRelationService(db, log)
	follows := service.NewFollowService(db, log)

	users := make([]models.User, len(demoUsers))
	for i, req := range demoUsers {
		req.Password = demoPassword
		user, err := auth.Register(ctx, &req)
		if errors.Is(err, apperror.ErrValidation) {
			if err := db.WithContext(ctx).Where("email = ?", req.Email).First(&users[i]).Error; err != nil {
				return err
			}
			log.Infow("user exists, reusing", "email", req.Email)
			continue
		}
		if err != nil {
			return err
		}
		users[i] = *user
	}

	for _, demo := range demoRecipes {
		req, err := recipeRequest(ctx, db, demo)
		if err != nil {
			log.Warnw("skipping recipe", "name", demo.name, "error", err)
			continue
		}
		author := users[demo.author]
		view, err := recipes.Create(ctx, author.ID, req)
		if err != nil {
			return err
		}

		// everyone else favorites it and the last user adds it to the cart
		for i, user := range users {
			if user.ID == author.ID {
				continue
			}
			if _, err := relations.AddFavorite(ctx, user.ID, view.Recipe.ID); err != nil {
				return err
			}
			if i == len(users)-1 {
				if _, err := relations.AddToCart(ctx, user.ID, view.Recipe.ID); err != nil {
					return err
				}
			}
		}
	}

	for _, user := range users[1:] {
		_, err := follows.Subscribe(ctx, user.ID, users[0].ID, 0)
		if err != nil && !errors.Is(err, apperror.ErrConflict) {
			return err
		}
	}

	log.Infow("seed complete", "users", len(users), "recipes", len(demoRecipes))
	return nil
}

// recipeRequest resolves tag slugs and ingredient names loaded by
// load_ingredients into ids.
func recipeRequest(ctx context.Context, db *gorm.DB, demo demoRecipe) (*types.CreateRecipeRequest, error) {
	req := &types.CreateRecipeRequest{
		Name:        demo.name,
		Text:        demo.text,
		CookingTime: demo.cookingTime,
		Image:       placeholderImage,
		Tags:        []uint{},
	}

	for _, slug := range demo.tags {
		var tag models.Tag
		if err := db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
			return nil, err
		}
		req.Tags = append(req.Tags, tag.ID)
	}
	for name, amount := range demo.ingredients {
		var ing models.Ingredient
		if err := db.WithContext(ctx).Where("name = ?", name).Order("id").First(&ing).Error; err != nil {
			return nil, err
		}
		req.Ingredients = append(req.Ingredients, types.IngredientAmount{ID: ing.ID, Amount: amount})
	}
	return req, nil
}
