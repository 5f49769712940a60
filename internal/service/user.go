package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

type UserService struct {
	db *gorm.DB
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).Order("username").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate("date_of_birth", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, newValidationError("email", "cannot be empty")
		}
		if email != user.Email {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.User{}).
				Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, duplicatef("email %q is already registered", email)
			}
			user.Email = email
		}
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}
