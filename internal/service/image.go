package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/models"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService stores recipe photos in the object store and hands out presigned links
type ImageService struct {
	db       *gorm.DB
	store    ObjectStore
	maxBytes int64
	urlTTL   time.Duration
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates a new ImageService. store may be nil, in which case every call
// fails with ErrStorageUnavailable.
func NewImageService(db *gorm.DB, store ObjectStore, maxBytes int64, urlTTL time.Duration) *ImageService {
	return &ImageService{
		db:       db,
		store:    store,
		maxBytes: maxBytes,
		urlTTL:   urlTTL,
	}
}

// Upload replaces the photo of a recipe the user owns and returns a presigned URL for it.
// The content type is sniffed from the data; declared is only used in log output.
func (s *ImageService) Upload(ctx context.Context, userID, recipeID uint, body io.Reader, declared string) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}

	db := s.db.WithContext(ctx)
	var recipe models.Recipe
	if err := db.First(&recipe, recipeID).Error; err != nil {
		return "", translate(err, "recipe")
	}
	if recipe.CreatorID != userID {
		return "", forbiddenf("only the creator can change the image of recipe %d", recipeID)
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", newValidationError("image", "is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return "", newValidationError("image", "must be at most %d bytes", s.maxBytes)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", newValidationError("image", "unsupported image type %s", contentType)
	}

	var previous string
	if recipe.ImageKey != nil {
		previous = *recipe.ImageKey
	}

	key := fmt.Sprintf("recipe-images/%d/%s%s", recipeID, uuid.New().String(), ext)
	if err := s.store.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}

	if err := db.Model(&models.Recipe{}).Where("recipe_id = ?", recipeID).UpdateColumn("image_key", key).Error; err != nil {
		return "", err
	}

	if previous != "" {
		if err := s.store.DeleteObject(ctx, previous); err != nil {
			logger.Warn("failed to delete replaced recipe image",
				zap.Uint("recipe_id", recipeID), zap.String("key", previous), zap.Error(err))
		}
	}

	logger.Info("recipe image uploaded",
		zap.Uint("recipe_id", recipeID),
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.String("declared_type", declared),
		zap.Int("bytes", len(data)),
	)

	return s.store.PresignGet(ctx, key, s.urlTTL)
}

// URL returns a presigned link to the recipe's photo
func (s *ImageService) URL(ctx context.Context, recipeID uint) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		return "", translate(err, "recipe")
	}
	if recipe.ImageKey == nil || *recipe.ImageKey == "" {
		return "", notFoundf("recipe %d has no image", recipeID)
	}
	return s.store.PresignGet(ctx, *recipe.ImageKey, s.urlTTL)
}
