package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

const maxCategoryFieldLength = 100

type CategoryService struct {
	db *gorm.DB
}

var _ ICategoryService = (*CategoryService)(nil)

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("r_type, r_region").Find(&categories).Error
	return categories, err
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

// Create inserts a new (type, region) pair; an existing pair is a duplicate.
func (s *CategoryService) Create(ctx context.Context, req *types.CategoryInput) (*models.Category, error) {
	typ, region, err := categoryPair("category", *req)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Category{}).Where("r_type = ? AND r_region = ?", typ, region).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, duplicatef("category (%s, %s) already exists", typ, region)
	}

	category := models.Category{Type: typ, Region: region}
	if err := db.Create(&category).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

// Types lists the distinct category types
func (s *CategoryService) Types(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&models.Category{}).Distinct().Order("r_type").Pluck("r_type", &out).Error
	return out, err
}

// Regions lists the distinct category regions
func (s *CategoryService) Regions(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&models.Category{}).Distinct().Order("r_region").Pluck("r_region", &out).Error
	return out, err
}

// findOrCreateCategory runs inside the caller's transaction
func findOrCreateCategory(tx *gorm.DB, in types.CategoryInput) (*models.Category, error) {
	typ, region, err := categoryPair("categories", in)
	if err != nil {
		return nil, err
	}

	var category models.Category
	err = tx.Where("r_type = ? AND r_region = ?", typ, region).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = models.Category{Type: typ, Region: region}
	if err := tx.Create(&category).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func categoryPair(field string, in types.CategoryInput) (string, string, error) {
	typ, region := strings.TrimSpace(in.Type), strings.TrimSpace(in.Region)
	if typ == "" || region == "" {
		return "", "", newValidationError(field, "r_type and r_region are required")
	}
	if len(typ) > maxCategoryFieldLength || len(region) > maxCategoryFieldLength {
		return "", "", newValidationError(field, "r_type and r_region must be at most %d characters", maxCategoryFieldLength)
	}
	return typ, region, nil
}
