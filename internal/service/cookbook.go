package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

const maxCookbookTitleLength = 30

// CookbookService manages cookbooks, the recipes saved in them and subscriptions
type CookbookService struct {
	db *gorm.DB
}

var _ ICookbookService = (*CookbookService)(nil)

func NewCookbookService(db *gorm.DB) *CookbookService {
	return &CookbookService{db: db}
}

func validateCookbookTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", newValidationError("cb_title", "is required")
	}
	if len(title) > maxCookbookTitleLength {
		return "", newValidationError("cb_title", "must be at most %d characters", maxCookbookTitleLength)
	}
	return title, nil
}

func (s *CookbookService) Create(ctx context.Context, userID uint, req *types.CookbookRequest) (*types.CookbookView, error) {
	title, err := validateCookbookTitle(req.Title)
	if err != nil {
		return nil, err
	}

	cookbook := models.Cookbook{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		CreatorID:   userID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&cookbook).Error; err != nil {
		return nil, translate(err, "cookbook")
	}
	return s.view(ctx, cookbook.ID)
}

// ListForUser returns the cookbooks the user created followed by those they subscribed to
func (s *CookbookService) ListForUser(ctx context.Context, userID uint) ([]types.CookbookView, error) {
	db := s.db.WithContext(ctx)

	var cookbooks []models.Cookbook
	err := db.Preload("Creator").
		Where("creator_id = ? OR cb_id IN (?)", userID,
			db.Model(&models.SubscribedCookbook{}).Select("cb_id").Where("user_id = ?", userID)).
		Order("cb_id").
		Find(&cookbooks).Error
	if err != nil {
		return nil, err
	}
	return viewCookbooks(db, cookbooks)
}

func (s *CookbookService) ListByCreator(ctx context.Context, creatorID uint) ([]types.CookbookView, error) {
	db := s.db.WithContext(ctx)

	var cookbooks []models.Cookbook
	if err := db.Preload("Creator").Where("creator_id = ?", creatorID).Order("cb_id").Find(&cookbooks).Error; err != nil {
		return nil, err
	}
	return viewCookbooks(db, cookbooks)
}

// Get returns a cookbook with the recipes saved in it, oldest entry first
func (s *CookbookService) Get(ctx context.Context, id uint) (*types.CookbookDetail, error) {
	view, err := s.view(ctx, id)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var recipes []models.Recipe
	err = db.Preload("Creator").
		Where("recipe_id IN (?)", db.Model(&models.AddRecipe{}).Select("recipe_id").Where("cb_id = ?", id)).
		Order("recipe_id").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	summaries, err := summarizeRecipes(db, recipes)
	if err != nil {
		return nil, err
	}
	return &types.CookbookDetail{CookbookView: *view, Recipes: summaries}, nil
}

func (s *CookbookService) Update(ctx context.Context, userID, id uint, req *types.UpdateCookbookRequest) (*types.CookbookView, error) {
	cookbook, err := s.owned(s.db.WithContext(ctx), userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := validateCookbookTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		cookbook.Title = title
	}
	if req.Description != nil {
		cookbook.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(cookbook).Error; err != nil {
		return nil, translate(err, "cookbook")
	}
	return s.view(ctx, id)
}

func (s *CookbookService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.owned(tx, userID, id); err != nil {
			return err
		}
		if err := tx.Where("cb_id = ?", id).Delete(&models.AddRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cb_id = ?", id).Delete(&models.SubscribedCookbook{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cookbook{}, id).Error
	})
}

// AddRecipe saves a recipe into a cookbook the user owns
func (s *CookbookService) AddRecipe(ctx context.Context, userID, cookbookID, recipeID uint) (*types.CookbookEntryView, error) {
	var entry models.AddRecipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.owned(tx, userID, cookbookID); err != nil {
			return err
		}
		if err := tx.First(&models.Recipe{}, recipeID).Error; err != nil {
			return translate(err, "recipe")
		}

		var count int64
		if err := tx.Model(&models.AddRecipe{}).
			Where("cb_id = ? AND recipe_id = ?", cookbookID, recipeID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return duplicatef("recipe %d is already in cookbook %d", recipeID, cookbookID)
		}

		entry = models.AddRecipe{CookbookID: cookbookID, RecipeID: recipeID, UserID: userID}
		return translate(tx.Omit(clause.Associations).Create(&entry).Error, "cookbook entry")
	})
	if err != nil {
		return nil, err
	}

	entries, err := s.entryViews(s.db.WithContext(ctx), s.db.WithContext(ctx).Where("id = ?", entry.ID))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, notFoundf("cookbook entry not found")
	}
	return &entries[0], nil
}

func (s *CookbookService) RemoveRecipe(ctx context.Context, userID, cookbookID, recipeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.owned(tx, userID, cookbookID); err != nil {
			return err
		}
		result := tx.Where("cb_id = ? AND recipe_id = ?", cookbookID, recipeID).Delete(&models.AddRecipe{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFoundf("recipe %d is not in cookbook %d", recipeID, cookbookID)
		}
		return nil
	})
}

// Entries lists the recipes the user added to a cookbook
func (s *CookbookService) Entries(ctx context.Context, userID, cookbookID uint) ([]types.CookbookEntryView, error) {
	db := s.db.WithContext(ctx)
	if err := db.First(&models.Cookbook{}, cookbookID).Error; err != nil {
		return nil, translate(err, "cookbook")
	}
	return s.entryViews(db, db.Where("cb_id = ? AND user_id = ?", cookbookID, userID))
}

// Subscribe follows another user's cookbook and bumps its save counter
func (s *CookbookService) Subscribe(ctx context.Context, userID, cookbookID uint) (*types.CookbookView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cookbook models.Cookbook
		if err := tx.First(&cookbook, cookbookID).Error; err != nil {
			return translate(err, "cookbook")
		}
		if cookbook.CreatorID == userID {
			return newValidationError("cookbook", "you cannot subscribe to your own cookbook")
		}

		var count int64
		if err := tx.Model(&models.SubscribedCookbook{}).
			Where("user_id = ? AND cb_id = ?", userID, cookbookID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return duplicatef("already subscribed to cookbook %d", cookbookID)
		}

		sub := models.SubscribedCookbook{UserID: userID, CookbookID: cookbookID}
		if err := tx.Create(&sub).Error; err != nil {
			return translate(err, "subscription")
		}
		return tx.Model(&models.Cookbook{}).Where("cb_id = ?", cookbookID).
			UpdateColumn("num_of_saves", gorm.Expr("num_of_saves + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("cookbook subscribed", zap.Uint("cb_id", cookbookID), zap.Uint("user_id", userID))
	return s.view(ctx, cookbookID)
}

func (s *CookbookService) Unsubscribe(ctx context.Context, userID, cookbookID uint) (*types.CookbookView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Cookbook{}, cookbookID).Error; err != nil {
			return translate(err, "cookbook")
		}

		result := tx.Where("user_id = ? AND cb_id = ?", userID, cookbookID).Delete(&models.SubscribedCookbook{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFoundf("not subscribed to cookbook %d", cookbookID)
		}
		return tx.Model(&models.Cookbook{}).Where("cb_id = ? AND num_of_saves > 0", cookbookID).
			UpdateColumn("num_of_saves", gorm.Expr("num_of_saves - ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cookbookID)
}

func (s *CookbookService) owned(db *gorm.DB, userID, id uint) (*models.Cookbook, error) {
	var cookbook models.Cookbook
	if err := db.First(&cookbook, id).Error; err != nil {
		return nil, translate(err, "cookbook")
	}
	if cookbook.CreatorID != userID {
		return nil, forbiddenf("only the creator can modify cookbook %d", id)
	}
	return &cookbook, nil
}

func (s *CookbookService) view(ctx context.Context, id uint) (*types.CookbookView, error) {
	db := s.db.WithContext(ctx)

	var cookbook models.Cookbook
	if err := db.Preload("Creator").First(&cookbook, id).Error; err != nil {
		return nil, translate(err, "cookbook")
	}
	views, err := viewCookbooks(db, []models.Cookbook{cookbook})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *CookbookService) entryViews(db *gorm.DB, scope *gorm.DB) ([]types.CookbookEntryView, error) {
	var entries []models.AddRecipe
	if err := scope.Preload("Recipe.Creator").Order("added_at, id").Find(&entries).Error; err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, 0, len(entries))
	for _, e := range entries {
		if e.Recipe != nil {
			recipes = append(recipes, *e.Recipe)
		}
	}
	summaries, err := summarizeRecipes(db, recipes)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]types.RecipeSummary, len(summaries))
	for _, summary := range summaries {
		byID[summary.ID] = summary
	}

	out := make([]types.CookbookEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.CookbookEntryView{
			ID:         e.ID,
			CookbookID: e.CookbookID,
			UserID:     e.UserID,
			AddedAt:    e.AddedAt,
			Recipe:     byID[e.RecipeID],
		})
	}
	return out, nil
}

type cookbookCount struct {
	CookbookID uint `gorm:"column:cb_id"`
	Total      int64
}

func viewCookbooks(db *gorm.DB, cookbooks []models.Cookbook) ([]types.CookbookView, error) {
	out := make([]types.CookbookView, len(cookbooks))
	if len(cookbooks) == 0 {
		return out, nil
	}

	ids := make([]uint, len(cookbooks))
	for i := range cookbooks {
		ids[i] = cookbooks[i].ID
	}

	var rows []cookbookCount
	err := db.Model(&models.AddRecipe{}).
		Select("cb_id, COUNT(DISTINCT recipe_id) AS total").
		Where("cb_id IN ?", ids).
		Group("cb_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CookbookID] = row.Total
	}

	for i := range cookbooks {
		out[i] = types.NewCookbookView(&cookbooks[i])
		out[i].RecipeCount = counts[cookbooks[i].ID]
	}
	return out, nil
}
