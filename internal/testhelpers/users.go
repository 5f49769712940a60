package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/models"
)

// TestPassword is the plain-text password of every user created by CreateTestUser.
const TestPassword = "password123"

// CreateTestUser inserts a user with TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRecipe inserts a bare recipe owned by creator.
func CreateTestRecipe(t *testing.T, db *gorm.DB, creator *models.User, name string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Name:        name,
		Description: name + " description",
		Difficulty:  2,
		CreatorID:   creator.ID,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}
