package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

// CatalogHandler exposes the shared ingredient, unit, quantity and nutrition tables
type CatalogHandler struct {
	catalogService service.ICatalogService
	authService    service.IAuthService
}

func NewCatalogHandler(catalog service.ICatalogService, authService service.IAuthService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalog,
		authService:    authService,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", auth, h.CreateIngredient)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.GET("/:id/nutrition", h.GetIngredientNutrition)
	}

	router.GET("/units", h.ListUnits)
	router.POST("/units", auth, h.CreateUnit)
	router.GET("/quantities", h.ListQuantities)
	router.POST("/quantities", auth, h.CreateQuantity)
	router.GET("/nutritions", h.ListNutrition)
	router.POST("/nutritions", auth, h.CreateNutrition)
	router.GET("/recipe-ingredients", h.ListRecipeIngredients)
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.ListIngredients(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ingredient, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var req types.CreateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ingredient, err := h.catalogService.CreateIngredient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func (h *CatalogHandler) GetIngredientNutrition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	facts, err := h.catalogService.IngredientNutrition(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facts)
}

func (h *CatalogHandler) ListUnits(c *gin.Context) {
	units, err := h.catalogService.ListUnits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req types.CreateUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	unit, err := h.catalogService.CreateUnit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *CatalogHandler) ListQuantities(c *gin.Context) {
	quantities, err := h.catalogService.ListQuantities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quantities)
}

func (h *CatalogHandler) CreateQuantity(c *gin.Context) {
	var req types.CreateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	quantity, err := h.catalogService.CreateQuantity(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quantity)
}

func (h *CatalogHandler) ListNutrition(c *gin.Context) {
	ingredientID, ok := queryID(c, "ingredient")
	if !ok {
		return
	}

	facts, err := h.catalogService.ListNutrition(c.Request.Context(), ingredientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facts)
}

func (h *CatalogHandler) CreateNutrition(c *gin.Context) {
	var req types.CreateNutritionRequest
	if !bindJSON(c, &req) {
		return
	}

	nutrition, err := h.catalogService.CreateNutrition(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, nutrition)
}

func (h *CatalogHandler) ListRecipeIngredients(c *gin.Context) {
	recipeID, ok := queryID(c, "recipe")
	if !ok {
		return
	}

	lines, err := h.catalogService.ListRecipeIngredients(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}
