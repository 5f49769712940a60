package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

type AuthHandler struct {
	authService  service.IAuthService
	userService  service.IUserService
	loginLimiter *middleware.RateLimiter
}

func NewAuthHandler(authService service.IAuthService, userService service.IUserService, loginLimiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		userService:  userService,
		loginLimiter: loginLimiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.loginLimiter.ClientIPRateLimitMiddleware(), h.Login)
		auth.POST("/refresh", h.Refresh)
	}

	profile := router.Group("/user")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.GET("/profile", h.GetProfile)
		profile.PUT("/profile", h.UpdateProfile)
	}
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, user *models.User) {
	access, refresh, err := h.authService.IssueTokens(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, types.AuthResponse{
		Token:   access,
		Refresh: refresh,
		User:    types.NewUserView(user),
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	h.respondWithTokens(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login failed", zap.String("identifier", req.Username), zap.String("ip", c.ClientIP()))
		respondError(c, err)
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req types.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	access, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewProfileView(user))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewProfileView(user))
}
