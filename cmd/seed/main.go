package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/config"
	"github.com/ezchef/ezchef/backend/internal/database"
	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

const seedPassword = "testpassword123"

var seedUsers = []types.RegisterRequest{
	{Username: "johndoe", Email: "john.doe@example.com", FirstName: "John", LastName: "Doe"},
	{Username: "janesmith", Email: "jane.smith@example.com", FirstName: "Jane", LastName: "Smith"},
	{Username: "marcor", Email: "marco.rossi@example.com", FirstName: "Marco", LastName: "Rossi"},
}

var seedRecipes = []types.CreateRecipeRequest{
	{
		Name:         "Spaghetti Carbonara",
		Description:  "Roman pasta with egg, pecorino and guanciale",
		Instructions: "Cook the pasta. Crisp the guanciale. Toss off the heat with egg and cheese.",
		Difficulty:   2,
		Categories:   []types.CategoryInput{{Type: "Main", Region: "Italian"}},
		Ingredients: []types.IngredientInput{
			{Name: "Spaghetti", Amount: 200, UnitName: "gram", UnitSymbol: "g",
				Nutrition: &types.NutritionInput{Calories: 3.7, Protein: 0.13}},
			{Name: "Egg", Amount: 2, UnitName: "piece"},
			{Name: "Pecorino", Amount: 50, UnitName: "gram", UnitSymbol: "g"},
			{Name: "Guanciale", Amount: 100, UnitName: "gram", UnitSymbol: "g"},
		},
	},
	{
		Name:         "Tomato Basil Soup",
		Description:  "Smooth tomato soup with fresh basil",
		Instructions: "Soften onion and garlic, add tomatoes, simmer, blend with basil.",
		Difficulty:   1,
		Categories:   []types.CategoryInput{{Type: "Soup", Region: "Italian"}},
		Ingredients: []types.IngredientInput{
			{Name: "Tomato", Amount: 6, UnitName: "piece"},
			{Name: "Basil", Amount: 10, UnitName: "gram", UnitSymbol: "g"},
			{Name: "Garlic", Amount: 2, UnitName: "clove"},
		},
	},
	{
		Name:         "Crepes",
		Description:  "Thin French pancakes",
		Instructions: "Whisk batter, rest 30 minutes, cook thin in a buttered pan.",
		Difficulty:   3,
		Categories:   []types.CategoryInput{{Type: "Dessert", Region: "French"}},
		Ingredients: []types.IngredientInput{
			{Name: "Flour", Amount: 125, UnitName: "gram", UnitSymbol: "g"},
			{Name: "Milk", Amount: 250, UnitName: "millilitre", UnitSymbol: "ml"},
			{Name: "Egg", Amount: 2, UnitName: "piece"},
		},
	},
}

func main() {
	withDemoContent := flag.Bool("recipes", true, "Also seed recipes, reviews and a cookbook")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	users, err := seedAccounts(ctx, db, cfg)
	if err != nil {
		logger.Fatal("failed to seed users", zap.Error(err))
	}

	if *withDemoContent {
		if err := seedContent(ctx, db, users); err != nil {
			logger.Fatal("failed to seed recipes", zap.Error(err))
		}
	}

	logger.Info("seeding complete", zap.Int("users", len(users)), zap.String("password", seedPassword))
}

// seedAccounts registers the demo users, reusing accounts left by an earlier run
func seedAccounts(ctx context.Context, db *gorm.DB, cfg *config.Config) ([]*models.User, error) {
	auth := service.NewAuthService(db, cfg.JWTSecret, service.WithBcryptCost(cfg.BcryptCost))

	out := make([]*models.User, 0, len(seedUsers))
	for _, req := range seedUsers {
		req := req
		req.Password = seedPassword

		user, err := auth.Register(ctx, &req)
		if errors.Is(err, service.ErrDuplicate) {
			user, err = auth.Login(ctx, req.Username, seedPassword)
		}
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", req.Username, err)
		}
		logger.Info("seeded user", zap.String("username", user.Username))
		out = append(out, user)
	}
	return out, nil
}

func seedContent(ctx context.Context, db *gorm.DB, users []*models.User) error {
	var existing int64
	if err := db.Model(&models.Recipe{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		logger.Info("recipes already present, skipping", zap.Int64("count", existing))
		return nil
	}

	recipes := service.NewRecipeService(db, nil)
	reviews := service.NewReviewService(db)
	cookbooks := service.NewCookbookService(db)

	var created []*types.RecipeDetail
	for i := range seedRecipes {
		owner := users[i%len(users)]
		detail, err := recipes.Create(ctx, owner.ID, &seedRecipes[i])
		if err != nil {
			return fmt.Errorf("recipe %s: %w", seedRecipes[i].Name, err)
		}
		created = append(created, detail)
		logger.Info("seeded recipe", zap.String("name", detail.Name), zap.String("creator", owner.Username))
	}

	// every user reviews the recipes they did not write
	for i, r := range created {
		for j, u := range users {
			if j == i%len(users) {
				continue
			}
			req := &types.ReviewRequest{RecipeID: r.ID, Rating: 3 + (i+j)%3, Comment: "Tried it at home."}
			if _, _, err := reviews.Upsert(ctx, u.ID, req); err != nil {
				return fmt.Errorf("review of %s: %w", r.Name, err)
			}
		}
	}

	owner := users[0]
	cb, err := cookbooks.Create(ctx, owner.ID, &types.CookbookRequest{
		Title:       "Weeknight Favourites",
		Description: "Quick dinners that always work",
	})
	if err != nil {
		return err
	}
	for _, r := range created {
		if _, err := cookbooks.AddRecipe(ctx, owner.ID, cb.ID, r.ID); err != nil {
			return err
		}
	}
	for _, u := range users[1:] {
		if _, err := cookbooks.Subscribe(ctx, u.ID, cb.ID); err != nil {
			return err
		}
	}
	logger.Info("seeded cookbook", zap.String("title", cb.Title))
	return nil
}
