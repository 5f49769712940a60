package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
)

// ImageHandler uploads recipe photos to object storage and hands out presigned links
type ImageHandler struct {
	imageService service.IImageService
	authService  service.IAuthService
}

func NewImageHandler(imageService service.IImageService, authService service.IAuthService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		authService:  authService,
	}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/:id/image", h.GetImage)
		recipes.PUT("/:id/image", middleware.AuthMiddleware(h.authService), h.UploadImage)
	}
}

func (h *ImageHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "multipart field 'image' is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "unreadable image upload")
		return
	}
	defer file.Close()

	url, err := h.imageService.Upload(c.Request.Context(), userID, id, file, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	url, err := h.imageService.URL(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
