package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

var recipeSorts = map[string]bool{
	"":                     true,
	types.SortNewest:       true,
	types.SortOldest:       true,
	types.SortHighestRated: true,
	types.SortDifficulty:   true,
	types.SortName:         true,
}

type RecipeHandler struct {
	recipeService   service.IRecipeService
	reviewService   service.IReviewService
	authService     service.IAuthService
	creationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes service.IRecipeService, reviews service.IReviewService, authService service.IAuthService, creationLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipes,
		reviewService:   reviews,
		authService:     authService,
		creationLimiter: creationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuth(h.authService)
	create := []gin.HandlerFunc{auth, h.creationLimiter.RateLimitMiddleware(), h.CreateRecipe}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/search", optional, h.SearchRecipes)
		recipes.POST("", create...)
		recipes.POST("/create", create...)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.PATCH("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.GET("/:id/similar", h.SimilarRecipes)
		recipes.GET("/:id/reviews", h.ListRecipeReviews)
	}
}

// recipeQuery parses the listing filters shared by the recipe, search and category routes
func recipeQuery(c *gin.Context) (types.RecipeQuery, bool) {
	q := types.RecipeQuery{
		Type:       c.Query("r_type"),
		Region:     c.Query("r_region"),
		Search:     c.Query("search"),
		Ingredient: c.Query("ingredient"),
		Sort:       c.Query("sort"),
	}

	if !recipeSorts[q.Sort] {
		badRequest(c, "invalid sort: "+q.Sort)
		return q, false
	}

	var ok bool
	if q.CategoryID, ok = queryID(c, "category"); !ok {
		return q, false
	}
	if q.CreatorID, ok = queryID(c, "creator"); !ok {
		return q, false
	}
	if q.NotInCookbook, ok = queryID(c, "notInCookbook"); !ok {
		return q, false
	}
	if raw := c.Query("difficulty"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > 5 {
			badRequest(c, "invalid difficulty")
			return q, false
		}
		q.Difficulty = d
	}
	if q.Limit, q.Offset, ok = pagination(c); !ok {
		return q, false
	}
	return q, true
}

func (h *RecipeHandler) list(c *gin.Context, q types.RecipeQuery) {
	recipes, total, err := h.recipeService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "total": total})
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	q, ok := recipeQuery(c)
	if !ok {
		return
	}
	h.list(c, q)
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	q, ok := recipeQuery(c)
	if !ok {
		return
	}
	if q.Search == "" {
		badRequest(c, "search parameter is required")
		return
	}
	h.list(c, q)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) SimilarRecipes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	recipes, err := h.recipeService.Similar(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) ListRecipeReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviewViews(reviews))
}
