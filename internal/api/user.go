package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

// UserHandler serves public user profiles and the content they created
type UserHandler struct {
	userService     service.IUserService
	recipeService   service.IRecipeService
	reviewService   service.IReviewService
	cookbookService service.ICookbookService
}

func NewUserHandler(users service.IUserService, recipes service.IRecipeService, reviews service.IReviewService, cookbooks service.ICookbookService) *UserHandler {
	return &UserHandler{
		userService:     users,
		recipeService:   recipes,
		reviewService:   reviews,
		cookbookService: cookbooks,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.GET("/:id/recipes", h.ListUserRecipes)
		users.GET("/:id/reviews", h.ListUserReviews)
		users.GET("/:id/cookbooks", h.ListUserCookbooks)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]types.UserView, 0, len(users))
	for i := range users {
		views = append(views, types.NewUserView(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": views, "total": total})
}

// existingUser resolves the :id parameter to a user, answering 400 or 404 itself
func (h *UserHandler) existingUser(c *gin.Context) (uint, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := h.userService.GetUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewUserView(user))
}

func (h *UserHandler) ListUserRecipes(c *gin.Context) {
	id, ok := h.existingUser(c)
	if !ok {
		return
	}
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), types.RecipeQuery{
		CreatorID: id,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "total": total})
}

func (h *UserHandler) ListUserReviews(c *gin.Context) {
	id, ok := h.existingUser(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviewViews(reviews))
}

func (h *UserHandler) ListUserCookbooks(c *gin.Context) {
	id, ok := h.existingUser(c)
	if !ok {
		return
	}

	cookbooks, err := h.cookbookService.ListByCreator(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cookbooks)
}
