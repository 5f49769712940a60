package service

import (
	"context"
	"io"
	"time"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	IssueTokens(user *models.User) (access string, refresh string, err error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
}

// IUserService defines the interface for user profile operations
type IUserService interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	UpdateProfile(ctx context.Context, id uint, req *types.UpdateProfileRequest) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, userID uint, req *types.CreateRecipeRequest) (*types.RecipeDetail, error)
	Get(ctx context.Context, id uint) (*types.RecipeDetail, error)
	List(ctx context.Context, q types.RecipeQuery) ([]types.RecipeSummary, int64, error)
	Update(ctx context.Context, userID, id uint, req *types.UpdateRecipeRequest) (*types.RecipeDetail, error)
	Delete(ctx context.Context, userID, id uint) error
	Similar(ctx context.Context, id uint, limit int) ([]types.RecipeSummary, error)
}

// ICategoryService defines the interface for category operations
type ICategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, req *types.CategoryInput) (*models.Category, error)
	Types(ctx context.Context) ([]string, error)
	Regions(ctx context.Context) ([]string, error)
}

// ICatalogService defines the interface for ingredients, units, quantities and nutrition
type ICatalogService interface {
	ListIngredients(ctx context.Context, search string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, req *types.CreateIngredientRequest) (*models.Ingredient, error)
	IngredientNutrition(ctx context.Context, ingredientID uint) ([]models.Nutrition, error)
	ListUnits(ctx context.Context) ([]models.Unit, error)
	CreateUnit(ctx context.Context, req *types.CreateUnitRequest) (*models.Unit, error)
	ListQuantities(ctx context.Context) ([]models.Quantity, error)
	CreateQuantity(ctx context.Context, req *types.CreateQuantityRequest) (*models.Quantity, error)
	ListNutrition(ctx context.Context, ingredientID uint) ([]models.Nutrition, error)
	CreateNutrition(ctx context.Context, req *types.CreateNutritionRequest) (*models.Nutrition, error)
	ListRecipeIngredients(ctx context.Context, recipeID uint) ([]models.RecipeIngredient, error)
}

// IReviewService defines the interface for review operations
type IReviewService interface {
	Upsert(ctx context.Context, userID uint, req *types.ReviewRequest) (review *models.Review, created bool, err error)
	ListForUser(ctx context.Context, userID uint) ([]models.Review, error)
	ListForRecipe(ctx context.Context, recipeID uint) ([]models.Review, error)
	Update(ctx context.Context, userID, reviewID uint, req *types.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID uint) error
}

// ICookbookService defines the interface for cookbook operations
type ICookbookService interface {
	Create(ctx context.Context, userID uint, req *types.CookbookRequest) (*types.CookbookView, error)
	ListForUser(ctx context.Context, userID uint) ([]types.CookbookView, error)
	ListByCreator(ctx context.Context, creatorID uint) ([]types.CookbookView, error)
	Get(ctx context.Context, id uint) (*types.CookbookDetail, error)
	Update(ctx context.Context, userID, id uint, req *types.UpdateCookbookRequest) (*types.CookbookView, error)
	Delete(ctx context.Context, userID, id uint) error
	AddRecipe(ctx context.Context, userID, cookbookID, recipeID uint) (*types.CookbookEntryView, error)
	RemoveRecipe(ctx context.Context, userID, cookbookID, recipeID uint) error
	Entries(ctx context.Context, userID, cookbookID uint) ([]types.CookbookEntryView, error)
	Subscribe(ctx context.Context, userID, cookbookID uint) (*types.CookbookView, error)
	Unsubscribe(ctx context.Context, userID, cookbookID uint) (*types.CookbookView, error)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	Upload(ctx context.Context, userID, recipeID uint, body io.Reader, contentType string) (string, error)
	URL(ctx context.Context, recipeID uint) (string, error)
}

// ObjectStore is the blob storage behind recipe images. config.S3Config implements it.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, expiration time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
