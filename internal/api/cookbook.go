package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

type CookbookHandler struct {
	cookbookService service.ICookbookService
	authService     service.IAuthService
}

func NewCookbookHandler(cookbooks service.ICookbookService, authService service.IAuthService) *CookbookHandler {
	return &CookbookHandler{
		cookbookService: cookbooks,
		authService:     authService,
	}
}

func (h *CookbookHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	cookbooks := router.Group("/cookbooks")
	{
		cookbooks.GET("", auth, h.ListMyCookbooks)
		cookbooks.POST("", auth, h.CreateCookbook)
		cookbooks.POST("/subscribe", auth, h.SubscribeByBody)
		cookbooks.GET("/:id", middleware.OptionalAuth(h.authService), h.GetCookbook)
		cookbooks.PUT("/:id", auth, h.UpdateCookbook)
		cookbooks.PATCH("/:id", auth, h.UpdateCookbook)
		cookbooks.DELETE("/:id", auth, h.DeleteCookbook)
		cookbooks.GET("/:id/entries", auth, h.ListEntries)
		cookbooks.POST("/:id/entries", auth, h.AddEntry)
		cookbooks.POST("/:id/recipes/:recipe_id", auth, h.AddRecipe)
		cookbooks.DELETE("/:id/recipes/:recipe_id", auth, h.RemoveRecipe)
		cookbooks.POST("/:id/subscribe", auth, h.Subscribe)
		cookbooks.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}
}

func (h *CookbookHandler) ListMyCookbooks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cookbooks, err := h.cookbookService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cookbooks)
}

func (h *CookbookHandler) CreateCookbook(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CookbookRequest
	if !bindJSON(c, &req) {
		return
	}

	cookbook, err := h.cookbookService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cookbook)
}

func (h *CookbookHandler) GetCookbook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cookbook, err := h.cookbookService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cookbook)
}

func (h *CookbookHandler) UpdateCookbook(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateCookbookRequest
	if !bindJSON(c, &req) {
		return
	}

	cookbook, err := h.cookbookService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cookbook)
}

func (h *CookbookHandler) DeleteCookbook(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.cookbookService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CookbookHandler) ListEntries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.cookbookService.Entries(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *CookbookHandler) addRecipe(c *gin.Context, cookbookID, recipeID uint) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entry, err := h.cookbookService.AddRecipe(c.Request.Context(), userID, cookbookID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Debug("recipe added to cookbook", zap.Uint("cb_id", cookbookID), zap.Uint("recipe_id", recipeID))
	c.JSON(http.StatusCreated, entry)
}

func (h *CookbookHandler) AddEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.CookbookEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	h.addRecipe(c, id, req.RecipeID)
}

func (h *CookbookHandler) AddRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipe_id")
	if !ok {
		return
	}
	h.addRecipe(c, id, recipeID)
}

func (h *CookbookHandler) RemoveRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipe_id")
	if !ok {
		return
	}

	if err := h.cookbookService.RemoveRecipe(c.Request.Context(), userID, id, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CookbookHandler) subscribe(c *gin.Context, cookbookID uint) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cookbook, err := h.cookbookService.Subscribe(c.Request.Context(), userID, cookbookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cookbook)
}

func (h *CookbookHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.subscribe(c, id)
}

func (h *CookbookHandler) SubscribeByBody(c *gin.Context) {
	var req types.SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}
	h.subscribe(c, req.CookbookID)
}

func (h *CookbookHandler) Unsubscribe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cookbook, err := h.cookbookService.Unsubscribe(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cookbook)
}
