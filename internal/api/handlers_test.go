package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/mocks"
	"github.com/ezchef/ezchef/backend/internal/service"
	"github.com/ezchef/ezchef/backend/internal/types"
)

func newMockedRecipeRouter(recipes *mocks.MockRecipeService, auth *mocks.MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	NewRecipeHandler(recipes, nil, auth, nil).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestRecipeListPassesQuery(t *testing.T) {
	recipes := new(mocks.MockRecipeService)
	router := newMockedRecipeRouter(recipes, new(mocks.MockAuthService))

	want := types.RecipeQuery{
		CategoryID: 3,
		Region:     "Thai",
		Difficulty: 2,
		CreatorID:  9,
		Sort:       types.SortHighestRated,
		Limit:      service.MaxPageSize,
		Offset:     40,
	}
	recipes.On("List", mock.Anything, want).Return([]types.RecipeSummary{{ID: 1, Name: "Pad Thai"}}, int64(41), nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/recipes?category=3&r_region=Thai&difficulty=2&creator=9&sort=highest_rated&limit=500&offset=40", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":41`)
	recipes.AssertExpectations(t)
}

func TestRecipeStorageFailureIsInternal(t *testing.T) {
	recipes := new(mocks.MockRecipeService)
	auth := new(mocks.MockAuthService)
	router := newMockedRecipeRouter(recipes, auth)

	recipes.On("Get", mock.Anything, uint(5)).Return(nil, errors.New("connection reset")).Once()
	auth.On("ValidateToken", mock.Anything, "tok").Return(&types.TokenClaims{UserID: 2, TokenType: types.AccessToken}, nil)
	recipes.On("Delete", mock.Anything, uint(2), uint(5)).Return(nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/5", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/recipes/5", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	recipes.AssertExpectations(t)
	auth.AssertExpectations(t)
}
