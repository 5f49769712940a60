package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

type ReviewService struct {
	db *gorm.DB
}

var _ IReviewService = (*ReviewService)(nil)

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func validateRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return newValidationError("rating", "must be between %d and %d", models.MinRating, models.MaxRating)
	}
	return nil
}

// Upsert creates the caller's review of a recipe, or updates it when one already exists.
// created reports which of the two happened.
func (s *ReviewService) Upsert(ctx context.Context, userID uint, req *types.ReviewRequest) (*models.Review, bool, error) {
	if err := validateRating(req.Rating); err != nil {
		return nil, false, err
	}

	var (
		review  models.Review
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Recipe{}, req.RecipeID).Error; err != nil {
			return translate(err, "recipe")
		}

		err := tx.Where("user_id = ? AND recipe_id = ?", userID, req.RecipeID).First(&review).Error
		switch {
		case err == nil:
			review.Rating = req.Rating
			review.Comment = strings.TrimSpace(req.Comment)
			return tx.Omit(clause.Associations).Save(&review).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{
				UserID:   userID,
				RecipeID: req.RecipeID,
				Rating:   req.Rating,
				Comment:  strings.TrimSpace(req.Comment),
			}
			created = true
			// a concurrent first review of the same recipe turns this insert into an update
			err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"rating", "comment"}),
			}).Create(&review).Error
			if err != nil {
				return translate(err, "review")
			}
			var stored models.Review
			if err := tx.Where("user_id = ? AND recipe_id = ?", userID, req.RecipeID).First(&stored).Error; err != nil {
				return err
			}
			review = stored
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}

	out, err := s.get(ctx, review.ID)
	return out, created, err
}

func (s *ReviewService) get(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Preload("User").Preload("Recipe").First(&review, id).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &review, nil
}

func (s *ReviewService) ListForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Recipe").
		Where("user_id = ?", userID).
		Order("date_created DESC, review_id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) ListForRecipe(ctx context.Context, recipeID uint) ([]models.Review, error) {
	db := s.db.WithContext(ctx)
	if err := db.First(&models.Recipe{}, recipeID).Error; err != nil {
		return nil, translate(err, "recipe")
	}

	var reviews []models.Review
	err := db.Preload("User").Preload("Recipe").
		Where("recipe_id = ?", recipeID).
		Order("date_created DESC, review_id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) Update(ctx context.Context, userID, reviewID uint, req *types.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(*req.Comment)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error; err != nil {
		return nil, translate(err, "review")
	}
	return s.get(ctx, reviewID)
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uint) error {
	if _, err := s.owned(ctx, userID, reviewID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Review{}, reviewID).Error
}

func (s *ReviewService) owned(ctx context.Context, userID, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		return nil, translate(err, "review")
	}
	if review.UserID != userID {
		return nil, forbiddenf("review %d belongs to another user", reviewID)
	}
	return &review, nil
}
