package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

type ReviewHandler struct {
	reviewService service.IReviewService
	authService   service.IAuthService
}

func NewReviewHandler(reviews service.IReviewService, authService service.IAuthService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviews,
		authService:   authService,
	}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	reviews := router.Group("/reviews")
	reviews.Use(auth)
	{
		reviews.GET("", h.ListMyReviews)
		reviews.POST("", h.SubmitReview)
		reviews.PUT("/:id", h.UpdateReview)
		reviews.DELETE("/:id", h.DeleteReview)
	}
	router.POST("/review", auth, h.SubmitReview)
}

func reviewViews(reviews []models.Review) []types.ReviewView {
	out := make([]types.ReviewView, 0, len(reviews))
	for i := range reviews {
		out = append(out, types.NewReviewView(&reviews[i]))
	}
	return out
}

func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviewViews(reviews))
}

// SubmitReview creates the caller's review, or rewrites the one they already left
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, created, err := h.reviewService.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.NewReviewView(review))
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewReviewView(review))
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
