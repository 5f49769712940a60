package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/testhelpers"
	"github.com/ezchef/ezchef/backend/internal/types"
)

type recipePage struct {
	Recipes []types.RecipeSummary `json:"recipes"`
	Total   int64                 `json:"total"`
}

func TestCreateAndGetRecipe(t *testing.T) {
	s := newTestServer(t, nil)
	chef := testhelpers.CreateTestUser(t, s.db, "chef")
	token := s.tokenFor(t, chef)

	w := s.do(t, http.MethodPost, "/api/v1/recipes", "", soupPayload())
	assertErrorCode(t, w, http.StatusUnauthorized, middleware.CodeUnauthorized)

	id := s.createRecipe(t, token, soupPayload())

	w = s.do(t, http.MethodGet, "/api/v1/recipes/"+uintPath(id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail types.RecipeDetail
	decode(t, w, &detail)
	assert.Equal(t, "Tomato Soup", detail.Name)
	assert.Equal(t, "Simmer everything.", detail.Instructions)
	require.NotNil(t, detail.Creator)
	assert.Equal(t, "chef", detail.Creator.Username)
	require.Len(t, detail.Categories, 1)
	assert.Equal(t, "Soup", detail.Categories[0].Type)
	require.Len(t, detail.Ingredients, 2)

	var basil *types.IngredientLineView
	for i := range detail.Ingredients {
		if detail.Ingredients[i].IngredientName == "Basil" {
			basil = &detail.Ingredients[i]
		}
	}
	require.NotNil(t, basil)
	assert.Equal(t, "g", basil.Symbol)
	require.NotNil(t, basil.Nutrition)
	assert.Equal(t, 0.2, basil.Nutrition.CalorieCount)

	// the legacy create path behaves the same
	payload := soupPayload()
	payload["recipe_name"] = "Bread"
	w = s.do(t, http.MethodPost, "/api/v1/recipes/create", token, payload)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateRecipeValidation(t *testing.T) {
	s := newTestServer(t, nil)
	chef := testhelpers.CreateTestUser(t, s.db, "chef")
	token := s.tokenFor(t, chef)

	tests := []struct {
		name   string
		mutate func(gin.H)
	}{
		{"missing name", func(p gin.H) { delete(p, "recipe_name") }},
		{"difficulty too high", func(p gin.H) { p["recipe_difficulty"] = 6 }},
		{"unknown category", func(p gin.H) { p["category_ids"] = []uint{999} }},
		{"duplicate ingredient line", func(p gin.H) {
			p["ingredients"] = []gin.H{
				{"ingredient_name": "Salt", "quantity_amount": 1},
				{"ingredient_name": "salt", "quantity_amount": 1},
			}
		}},
		{"zero quantity", func(p gin.H) {
			p["ingredients"] = []gin.H{{"ingredient_name": "Salt", "quantity_amount": 0}}
		}},
		{"category type too long", func(p gin.H) {
			p["categories"] = []gin.H{{"r_type": strings.Repeat("s", 101), "r_region": "Italian"}}
		}},
		{"category region too long", func(p gin.H) {
			p["categories"] = []gin.H{{"r_type": "Soup", "r_region": strings.Repeat("r", 101)}}
		}},
		{"ingredient name too long", func(p gin.H) {
			p["ingredients"] = []gin.H{{"ingredient_name": strings.Repeat("i", 31), "quantity_amount": 1}}
		}},
		{"unit name too long", func(p gin.H) {
			p["ingredients"] = []gin.H{{"ingredient_name": "Salt", "quantity_amount": 1, "unit_name": strings.Repeat("u", 51)}}
		}},
		{"unit symbol too long", func(p gin.H) {
			p["ingredients"] = []gin.H{{"ingredient_name": "Salt", "quantity_amount": 1, "unit_name": "pinch", "unit_symbol": strings.Repeat("p", 11)}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := soupPayload()
			tt.mutate(payload)
			w := s.do(t, http.MethodPost, "/api/v1/recipes", token, payload)
			assertErrorCode(t, w, http.StatusBadRequest, middleware.CodeInvalidRequest)
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListRecipes(t *testing.T) {
	s := newTestServer(t, nil)
	chef := testhelpers.CreateTestUser(t, s.db, "chef")
	token := s.tokenFor(t, chef)

	s.createRecipe(t, token, soupPayload())
	s.createRecipe(t, token, gin.H{
		"recipe_name":        "Apple Pie",
		"recipe_description": "Sweet",
		"recipe_difficulty":  4,
		"categories":         []gin.H{{"r_type": "Dessert", "r_region": "American"}},
		"ingredients":        []gin.H{{"ingredient_name": "Apple", "quantity_amount": 6}},
	})

	list := func(query string) recipePage {
		t.Helper()
		w := s.do(t, http.MethodGet, "/api/v1/recipes"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var page recipePage
		decode(t, w, &page)
		return page
	}

	page := list("")
	assert.Equal(t, int64(2), page.Total)

	page = list("?r_type=dessert")
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Apple Pie", page.Recipes[0].Name)

	page = list("?difficulty=2")
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Tomato Soup", page.Recipes[0].Name)

	page = list("?ingredient=basil")
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Tomato Soup", page.Recipes[0].Name)

	page = list("?sort=name")
	require.Len(t, page.Recipes, 2)
	assert.Equal(t, "Apple Pie", page.Recipes[0].Name)

	page = list("?limit=1&offset=1&sort=name")
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Tomato Soup", page.Recipes[0].Name)

	w := s.do(t, http.MethodGet, "/api/v1/recipes/search?search=SOUP", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Tomato Soup", page.Recipes[0].Name)

	for _, query := range []string{
		"/api/v1/recipes/search",
		"/api/v1/recipes?sort=spiciest",
		"/api/v1/recipes?difficulty=9",
		"/api/v1/recipes?limit=-1",
		"/api/v1/recipes?category=abc",
	} {
		w := s.do(t, http.MethodGet, query, "", nil)
		assertErrorCode(t, w, http.StatusBadRequest, middleware.CodeInvalidRequest)
	}
}

func TestUpdateAndDeleteRecipe(t *testing.T) {
	s := newTestServer(t, nil)
	chef := testhelpers.CreateTestUser(t, s.db, "chef")
	other := testhelpers.CreateTestUser(t, s.db, "other")
	token := s.tokenFor(t, chef)
	otherToken := s.tokenFor(t, other)

	id := s.createRecipe(t, token, soupPayload())
	path := "/api/v1/recipes/" + uintPath(id)

	w := s.do(t, http.MethodPatch, path, otherToken, gin.H{"recipe_name": "Stolen"})
	assertErrorCode(t, w, http.StatusForbidden, middleware.CodeForbidden)

	w = s.do(t, http.MethodPatch, path, token, gin.H{
		"recipe_name": "Gazpacho",
		"ingredients": []gin.H{{"ingredient_name": "Cucumber", "quantity_amount": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail types.RecipeDetail
	decode(t, w, &detail)
	assert.Equal(t, "Gazpacho", detail.Name)
	assert.Equal(t, 2, detail.Difficulty)
	require.Len(t, detail.Ingredients, 1)
	assert.Equal(t, "Cucumber", detail.Ingredients[0].IngredientName)
	assert.Len(t, detail.Categories, 1, "categories are kept when omitted")

	w = s.do(t, http.MethodPut, "/api/v1/recipes/999", token, gin.H{"recipe_name": "Ghost"})
	assertErrorCode(t, w, http.StatusNotFound, middleware.CodeNotFound)

	w = s.do(t, http.MethodDelete, path, otherToken, nil)
	assertErrorCode(t, w, http.StatusForbidden, middleware.CodeForbidden)

	w = s.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, path, "", nil)
	assertErrorCode(t, w, http.StatusNotFound, middleware.CodeNotFound)
}

func TestSimilarRecipes(t *testing.T) {
	s := newTestServer(t, nil)
	chef := testhelpers.CreateTestUser(t, s.db, "chef")
	token := s.tokenFor(t, chef)

	soup := s.createRecipe(t, token, soupPayload())
	payload := soupPayload()
	payload["recipe_name"] = "Tomato Basil Soup"
	s.createRecipe(t, token, payload)
	s.createRecipe(t, token, gin.H{
		"recipe_name":        "Chocolate Cake",
		"recipe_description": "Rich and dark",
		"recipe_difficulty":  3,
	})

	w := s.do(t, http.MethodGet, "/api/v1/recipes/"+uintPath(soup)+"/similar?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page recipePage
	decode(t, w, &page)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Tomato Basil Soup", page.Recipes[0].Name)

	w = s.do(t, http.MethodGet, "/api/v1/recipes/999/similar", "", nil)
	assertErrorCode(t, w, http.StatusNotFound, middleware.CodeNotFound)
}

func TestRecipeLifecycleLogsOnce(t *testing.T) {
	s := newTestServer(t, nil)
	chef := testhelpers.CreateTestUser(t, s.db, "chef")
	token := s.tokenFor(t, chef)

	core, logs := observer.New(zapcore.InfoLevel)
	previous := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = previous })

	id := s.createRecipe(t, token, soupPayload())
	w := s.do(t, http.MethodDelete, "/api/v1/recipes/"+uintPath(id), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1, logs.FilterMessage("recipe created").Len())
	assert.Equal(t, 1, logs.FilterMessage("recipe deleted").Len())
}
