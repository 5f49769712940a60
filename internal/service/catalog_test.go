package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/testhelpers"
	"github.com/ezchef/ezchef/backend/internal/types"
)

func TestCategories(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	categories := NewCategoryService(db)
	ctx := context.Background()

	italian, err := categories.Create(ctx, &types.CategoryInput{Type: "Dessert", Region: "Italian"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, &types.CategoryInput{Type: "Dessert", Region: "French"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, &types.CategoryInput{Type: "Soup", Region: "Italian"})
	require.NoError(t, err)

	_, err = categories.Create(ctx, &types.CategoryInput{Type: "Dessert", Region: "Italian"})
	assert.ErrorIs(t, err, ErrDuplicate)

	var verr *ValidationError
	_, err = categories.Create(ctx, &types.CategoryInput{Type: strings.Repeat("d", 101), Region: "Italian"})
	assert.ErrorAs(t, err, &verr)
	_, err = categories.Create(ctx, &types.CategoryInput{Type: "Dessert", Region: strings.Repeat("i", 101)})
	assert.ErrorAs(t, err, &verr)

	got, err := categories.Get(ctx, italian.ID)
	require.NoError(t, err)
	assert.Equal(t, "Italian", got.Region)

	_, err = categories.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	typesList, err := categories.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dessert", "Soup"}, typesList)

	regions, err := categories.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"French", "Italian"}, regions)

	all, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCatalog(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	flour, err := catalog.CreateIngredient(ctx, &types.CreateIngredientRequest{Name: "Flour"})
	require.NoError(t, err)
	_, err = catalog.CreateIngredient(ctx, &types.CreateIngredientRequest{Name: "flour"})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = catalog.CreateIngredient(ctx, &types.CreateIngredientRequest{Name: "Sugar"})
	require.NoError(t, err)

	found, err := catalog.ListIngredients(ctx, "FLO")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, flour.ID, found[0].ID)

	gram, err := catalog.CreateUnit(ctx, &types.CreateUnitRequest{Name: "gram", Symbol: "g"})
	require.NoError(t, err)
	_, err = catalog.CreateUnit(ctx, &types.CreateUnitRequest{Name: "Gram"})
	assert.ErrorIs(t, err, ErrDuplicate)

	var verr *ValidationError
	_, err = catalog.CreateUnit(ctx, &types.CreateUnitRequest{Name: strings.Repeat("u", 51)})
	assert.ErrorAs(t, err, &verr)
	_, err = catalog.CreateUnit(ctx, &types.CreateUnitRequest{Name: "pinch", Symbol: strings.Repeat("p", 11)})
	assert.ErrorAs(t, err, &verr)

	_, err = catalog.CreateQuantity(ctx, &types.CreateQuantityRequest{Amount: 250})
	require.NoError(t, err)
	_, err = catalog.CreateQuantity(ctx, &types.CreateQuantityRequest{Amount: 250})
	assert.ErrorIs(t, err, ErrDuplicate)

	nutrition, err := catalog.CreateNutrition(ctx, &types.CreateNutritionRequest{
		IngredientID: flour.ID,
		UnitID:       gram.ID,
		ProteinCount: 0.1,
		CalorieCount: 3.6,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, nutrition.ServingSize)

	_, err = catalog.CreateNutrition(ctx, &types.CreateNutritionRequest{IngredientID: flour.ID, UnitID: gram.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = catalog.CreateNutrition(ctx, &types.CreateNutritionRequest{IngredientID: 9999, UnitID: gram.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	facts, err := catalog.IngredientNutrition(ctx, flour.ID)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.NotNil(t, facts[0].Unit)
	assert.Equal(t, "g", facts[0].Unit.Symbol)

	_, err = catalog.IngredientNutrition(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	units, err := catalog.ListUnits(ctx)
	require.NoError(t, err)
	assert.Len(t, units, 1)
}

func TestListRecipeIngredients(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	chef := testhelpers.CreateTestUser(t, db, "chef")
	recipes := NewRecipeService(db, nil)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	soup, err := recipes.Create(ctx, chef.ID, soupRequest())
	require.NoError(t, err)
	_, err = recipes.Create(ctx, chef.ID, &types.CreateRecipeRequest{
		Name:        "Toast",
		Difficulty:  1,
		Ingredients: []types.IngredientInput{{Name: "Bread", Amount: 2}},
	})
	require.NoError(t, err)

	all, err := catalog.ListRecipeIngredients(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	lines, err := catalog.ListRecipeIngredients(ctx, soup.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.NotNil(t, lines[0].Ingredient)
	assert.Equal(t, "Tomato", lines[0].Ingredient.Name)
}

func TestRecipeCatalogFieldLengths(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	chef := testhelpers.CreateTestUser(t, db, "chef")
	recipes := NewRecipeService(db, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *types.CreateRecipeRequest
	}{
		{"category type", &types.CreateRecipeRequest{
			Name: "Soup", Difficulty: 1,
			Categories: []types.CategoryInput{{Type: strings.Repeat("s", 101), Region: "Italian"}},
		}},
		{"unit name", &types.CreateRecipeRequest{
			Name: "Soup", Difficulty: 1,
			Ingredients: []types.IngredientInput{{Name: "Salt", Amount: 1, UnitName: strings.Repeat("u", 51)}},
		}},
		{"unit symbol", &types.CreateRecipeRequest{
			Name: "Soup", Difficulty: 1,
			Ingredients: []types.IngredientInput{{Name: "Salt", Amount: 1, UnitName: "pinch", UnitSymbol: strings.Repeat("p", 11)}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := recipes.Create(ctx, chef.ID, tt.req)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}
