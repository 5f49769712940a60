package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

var _ service.IRecipeService = (*MockRecipeService)(nil)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, userID uint, req *types.CreateRecipeRequest) (*types.RecipeDetail, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id uint) (*types.RecipeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, q types.RecipeQuery) ([]types.RecipeSummary, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.RecipeSummary), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Update(ctx context.Context, userID, id uint, req *types.UpdateRecipeRequest) (*types.RecipeDetail, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, userID, id uint) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockRecipeService) Similar(ctx context.Context, id uint, limit int) ([]types.RecipeSummary, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSummary), args.Error(1)
}
