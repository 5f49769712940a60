package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

type CategoryHandler struct {
	categoryService service.ICategoryService
	recipeService   service.IRecipeService
	authService     service.IAuthService
}

func NewCategoryHandler(categories service.ICategoryService, recipes service.IRecipeService, authService service.IAuthService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categories,
		recipeService:   recipes,
		authService:     authService,
	}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/types", h.ListTypes)
		categories.GET("/regions", h.ListRegions)
		categories.GET("/:id", h.GetCategory)
		categories.GET("/:id/recipes", h.ListCategoryRecipes)
		categories.POST("", middleware.AuthMiddleware(h.authService), h.CreateCategory)
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) ListTypes(c *gin.Context) {
	names, err := h.categoryService.Types(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": names})
}

func (h *CategoryHandler) ListRegions(c *gin.Context) {
	names, err := h.categoryService.Regions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": names})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) ListCategoryRecipes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.categoryService.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	q, ok := recipeQuery(c)
	if !ok {
		return
	}
	q.CategoryID = id

	recipes, total, err := h.recipeService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "total": total})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req types.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}
