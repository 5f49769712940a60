package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/testhelpers"
)

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *mockObjectStore) PresignGet(ctx context.Context, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, key, expiration)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func TestImageUpload(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner")
	other := testhelpers.CreateTestUser(t, db, "other")
	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Soup")
	ctx := context.Background()

	store := new(mockObjectStore)
	images := NewImageService(db, store, 1024, 15*time.Minute)

	store.On("PutObject", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "recipe-images/") && strings.HasSuffix(key, ".png")
	}), mock.Anything, int64(len(pngHeader)), "image/png").Return(nil).Twice()
	store.On("PresignGet", mock.Anything, mock.AnythingOfType("string"), 15*time.Minute).
		Return("https://example.com/signed", nil)
	store.On("DeleteObject", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

	url, err := images.Upload(ctx, owner.ID, recipe.ID, bytes.NewReader(pngHeader), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/signed", url)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, recipe.ID).Error)
	require.NotNil(t, stored.ImageKey)
	first := *stored.ImageKey

	// replacing the image removes the previous object
	_, err = images.Upload(ctx, owner.ID, recipe.ID, bytes.NewReader(pngHeader), "image/png")
	require.NoError(t, err)
	store.AssertCalled(t, "DeleteObject", mock.Anything, first)

	url, err = images.URL(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/signed", url)

	t.Run("not the owner", func(t *testing.T) {
		_, err := images.Upload(ctx, other.ID, recipe.ID, bytes.NewReader(pngHeader), "image/png")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := images.Upload(ctx, owner.ID, recipe.ID, strings.NewReader("plain text"), "image/png")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)
		_, err := images.Upload(ctx, owner.ID, recipe.ID, bytes.NewReader(big), "image/png")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("missing recipe", func(t *testing.T) {
		_, err := images.Upload(ctx, owner.ID, 9999, bytes.NewReader(pngHeader), "image/png")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	store.AssertExpectations(t)
}

func TestImageURLWithoutImage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner")
	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Soup")

	images := NewImageService(db, new(mockObjectStore), 1024, time.Minute)
	_, err := images.URL(context.Background(), recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImageStorageUnavailable(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	images := NewImageService(db, nil, 1024, time.Minute)

	_, err := images.URL(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = images.Upload(context.Background(), 1, 1, bytes.NewReader(pngHeader), "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestRecipeDeleteRemovesImage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner")
	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Soup")
	require.NoError(t, db.Model(&models.Recipe{}).Where("recipe_id = ?", recipe.ID).
		UpdateColumn("image_key", "recipe-images/1/photo.png").Error)

	store := new(mockObjectStore)
	store.On("DeleteObject", mock.Anything, "recipe-images/1/photo.png").Return(errors.New("bucket offline"))

	recipes := NewRecipeService(db, store)
	require.NoError(t, recipes.Delete(context.Background(), owner.ID, recipe.ID), "storage failures are logged, not returned")
	store.AssertExpectations(t)
}
