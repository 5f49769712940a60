package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/config"
	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
)

// Services bundles the domain services the handlers depend on
type Services struct {
	Auth      service.IAuthService
	Users     service.IUserService
	Recipes   service.IRecipeService
	Reviews   service.IReviewService
	Cookbooks service.ICookbookService
	Category  service.ICategoryService
	Catalog   service.ICatalogService
	Images    service.IImageService
}

// NewServices builds the service layer on top of db. store may be nil when object storage is not configured.
func NewServices(db *gorm.DB, cfg *config.Config, store service.ObjectStore) *Services {
	return &Services{
		Auth: service.NewAuthService(db, cfg.JWTSecret,
			service.WithTokenTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
			service.WithBcryptCost(cfg.BcryptCost),
		),
		Users:     service.NewUserService(db),
		Recipes:   service.NewRecipeService(db, store),
		Reviews:   service.NewReviewService(db),
		Cookbooks: service.NewCookbookService(db),
		Category:  service.NewCategoryService(db),
		Catalog:   service.NewCatalogService(db),
		Images:    service.NewImageService(db, store, cfg.MaxImageBytes, cfg.ImageURLTTL),
	}
}

// Limiters holds the Redis-backed rate limiters. Nil limiters let every request through.
type Limiters struct {
	Login          *middleware.RateLimiter
	RecipeCreation *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc *Services, limiters Limiters) {
	RegisterValidators()

	router.GET("/health", HealthCheck(db))
	router.GET("/api/health", HealthCheck(db))

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth, svc.Users, limiters.Login).RegisterRoutes(v1)
	NewUserHandler(svc.Users, svc.Recipes, svc.Reviews, svc.Cookbooks).RegisterRoutes(v1)
	NewRecipeHandler(svc.Recipes, svc.Reviews, svc.Auth, limiters.RecipeCreation).RegisterRoutes(v1)
	NewImageHandler(svc.Images, svc.Auth).RegisterRoutes(v1)
	NewCategoryHandler(svc.Category, svc.Recipes, svc.Auth).RegisterRoutes(v1)
	NewCatalogHandler(svc.Catalog, svc.Auth).RegisterRoutes(v1)
	NewReviewHandler(svc.Reviews, svc.Auth).RegisterRoutes(v1)
	NewCookbookHandler(svc.Cookbooks, svc.Auth).RegisterRoutes(v1)

	if limiters.RecipeCreation != nil {
		RegisterRateLimitRoutes(v1, svc.Auth, limiters.RecipeCreation)
	}
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, authService service.IAuthService, creationLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(authService))
	{
		rateLimits.GET("/recipe-creation", func(c *gin.Context) {
			userID, ok := currentUser(c)
			if !ok {
				return
			}

			remaining, resetTime, err := creationLimiter.GetRemainingRequests(c.Request.Context(), strconv.FormatUint(uint64(userID), 10))
			if err != nil {
				respondError(c, err)
				return
			}

			cfg := creationLimiter.Config()
			c.JSON(http.StatusOK, gin.H{
				"limit":      cfg.Limit,
				"remaining":  remaining,
				"reset_time": resetTime.Unix(),
				"window":     cfg.Window.String(),
			})
		})
	}
}
