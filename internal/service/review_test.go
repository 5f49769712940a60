package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/testhelpers"
	"github.com/ezchef/ezchef/backend/internal/types"
)

func TestUpsertReview(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	chef := testhelpers.CreateTestUser(t, db, "chef")
	critic := testhelpers.CreateTestUser(t, db, "critic")
	recipe := testhelpers.CreateTestRecipe(t, db, chef, "Soup")
	reviews := NewReviewService(db)
	ctx := context.Background()

	first, created, err := reviews.Upsert(ctx, critic.ID, &types.ReviewRequest{RecipeID: recipe.ID, Rating: 3, Comment: "fine"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3, first.Rating)
	require.NotNil(t, first.User)
	assert.Equal(t, "critic", first.User.Username)

	second, created, err := reviews.Upsert(ctx, critic.ID, &types.ReviewRequest{RecipeID: recipe.ID, Rating: 5, Comment: "grew on me"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)
	assert.Equal(t, "grew on me", second.Comment)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, _, err = reviews.Upsert(ctx, critic.ID, &types.ReviewRequest{RecipeID: recipe.ID, Rating: 6})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, _, err = reviews.Upsert(ctx, critic.ID, &types.ReviewRequest{RecipeID: 9999, Rating: 4})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewOwnership(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	chef := testhelpers.CreateTestUser(t, db, "chef")
	critic := testhelpers.CreateTestUser(t, db, "critic")
	recipe := testhelpers.CreateTestRecipe(t, db, chef, "Soup")
	reviews := NewReviewService(db)
	ctx := context.Background()

	review, _, err := reviews.Upsert(ctx, critic.ID, &types.ReviewRequest{RecipeID: recipe.ID, Rating: 2})
	require.NoError(t, err)

	_, err = reviews.Update(ctx, chef.ID, review.ID, &types.UpdateReviewRequest{Rating: intPtr(5)})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, reviews.Delete(ctx, chef.ID, review.ID), ErrForbidden)

	updated, err := reviews.Update(ctx, critic.ID, review.ID, &types.UpdateReviewRequest{Comment: strPtr("salty")})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "salty", updated.Comment)

	mine, err := reviews.ListForUser(ctx, critic.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	forRecipe, err := reviews.ListForRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, forRecipe, 1)
	require.NotNil(t, forRecipe[0].Recipe)
	assert.Equal(t, "Soup", forRecipe[0].Recipe.Name)

	require.NoError(t, reviews.Delete(ctx, critic.ID, review.ID))
	assert.ErrorIs(t, reviews.Delete(ctx, critic.ID, review.ID), ErrNotFound)

	_, err = reviews.ListForRecipe(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertReviewConcurrentInsert(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	chef := testhelpers.CreateTestUser(t, db, "chef")
	critic := testhelpers.CreateTestUser(t, db, "critic")
	recipe := testhelpers.CreateTestRecipe(t, db, chef, "Soup")
	reviews := NewReviewService(db)

	// another request stores the same user's review between the lookup and the insert
	raced := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("competing_review", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "reviews" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO reviews (user_id, recipe_id, rating, comment, date_created) VALUES (?, ?, ?, ?, ?)",
			critic.ID, recipe.ID, 1, "first", time.Now(),
		)
	}))

	review, _, err := reviews.Upsert(context.Background(), critic.ID, &types.ReviewRequest{RecipeID: recipe.ID, Rating: 4, Comment: "second"})
	require.NoError(t, err)
	assert.True(t, raced)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "second", review.Comment)

	var stored []models.Review
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, review.ID, stored[0].ID)
	assert.Equal(t, 4, stored[0].Rating)
}
