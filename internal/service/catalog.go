package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

const (
	maxUnitNameLength   = 50
	maxUnitSymbolLength = 10
)

// CatalogService manages the shared ingredient, unit, quantity and nutrition tables.
type CatalogService struct {
	db *gorm.DB
}

var _ ICatalogService = (*CatalogService)(nil)

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListIngredients(ctx context.Context, search string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("ingredient_name")
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(ingredient_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var out []models.Ingredient
	err := query.Find(&out).Error
	return out, err
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err, "ingredient")
	}
	return &ingredient, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, req *types.CreateIngredientRequest) (*models.Ingredient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newValidationError("ingredient_name", "is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("LOWER(ingredient_name) = ?", strings.ToLower(name)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, duplicatef("ingredient %q already exists", name)
	}

	ingredient := models.Ingredient{Name: name}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, translate(err, "ingredient")
	}
	return &ingredient, nil
}

// IngredientNutrition lists the nutrition facts recorded for an ingredient
func (s *CatalogService) IngredientNutrition(ctx context.Context, ingredientID uint) ([]models.Nutrition, error) {
	if _, err := s.GetIngredient(ctx, ingredientID); err != nil {
		return nil, err
	}
	return s.ListNutrition(ctx, ingredientID)
}

func (s *CatalogService) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var out []models.Unit
	err := s.db.WithContext(ctx).Order("unit_name").Find(&out).Error
	return out, err
}

func (s *CatalogService) CreateUnit(ctx context.Context, req *types.CreateUnitRequest) (*models.Unit, error) {
	name, symbol, err := unitFields("unit_name", req.Name, req.Symbol)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Unit{}).Where("LOWER(unit_name) = ?", strings.ToLower(name)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, duplicatef("unit %q already exists", name)
	}

	unit := models.Unit{Name: name, Symbol: symbol}
	if err := s.db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, translate(err, "unit")
	}
	return &unit, nil
}

func (s *CatalogService) ListQuantities(ctx context.Context) ([]models.Quantity, error) {
	var out []models.Quantity
	err := s.db.WithContext(ctx).Order("quantity_amount").Find(&out).Error
	return out, err
}

func (s *CatalogService) CreateQuantity(ctx context.Context, req *types.CreateQuantityRequest) (*models.Quantity, error) {
	if req.Amount <= 0 {
		return nil, newValidationError("quantity_amount", "must be greater than zero")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Quantity{}).Where("quantity_amount = ?", req.Amount).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, duplicatef("quantity %g already exists", req.Amount)
	}

	quantity := models.Quantity{Amount: req.Amount}
	if err := s.db.WithContext(ctx).Create(&quantity).Error; err != nil {
		return nil, translate(err, "quantity")
	}
	return &quantity, nil
}

// ListNutrition lists nutrition facts, optionally restricted to one ingredient
func (s *CatalogService) ListNutrition(ctx context.Context, ingredientID uint) ([]models.Nutrition, error) {
	query := s.db.WithContext(ctx).Preload("Ingredient").Preload("Unit").Order("nutrition_id")
	if ingredientID != 0 {
		query = query.Where("ingredient_id = ?", ingredientID)
	}
	var out []models.Nutrition
	err := query.Find(&out).Error
	return out, err
}

func (s *CatalogService) CreateNutrition(ctx context.Context, req *types.CreateNutritionRequest) (*models.Nutrition, error) {
	db := s.db.WithContext(ctx)

	if err := db.First(&models.Ingredient{}, req.IngredientID).Error; err != nil {
		return nil, translate(err, "ingredient")
	}
	if err := db.First(&models.Unit{}, req.UnitID).Error; err != nil {
		return nil, translate(err, "unit")
	}

	var count int64
	if err := db.Model(&models.Nutrition{}).
		Where("ingredient_id = ? AND unit_id = ?", req.IngredientID, req.UnitID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, duplicatef("nutrition for this ingredient and unit already exists")
	}

	nutrition := models.Nutrition{
		IngredientID: req.IngredientID,
		UnitID:       req.UnitID,
		ProteinCount: req.ProteinCount,
		CalorieCount: req.CalorieCount,
		ServingSize:  servingSizeOrDefault(req.ServingSize),
	}
	if err := db.Omit("Ingredient", "Unit").Create(&nutrition).Error; err != nil {
		return nil, translate(err, "nutrition")
	}
	return &nutrition, nil
}

// ListRecipeIngredients lists ingredient lines, optionally for one recipe
func (s *CatalogService) ListRecipeIngredients(ctx context.Context, recipeID uint) ([]models.RecipeIngredient, error) {
	query := s.db.WithContext(ctx).
		Preload("Ingredient").Preload("Quantity").Preload("Unit").
		Order("recipe_id, id")
	if recipeID != 0 {
		query = query.Where("recipe_id = ?", recipeID)
	}
	var out []models.RecipeIngredient
	err := query.Find(&out).Error
	return out, err
}

func servingSizeOrDefault(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// The find-or-create helpers below run inside the recipe transaction.

func findOrCreateIngredient(tx *gorm.DB, name string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newValidationError("ingredients", "ingredient_name is required")
	}
	if len(name) > 30 {
		return nil, newValidationError("ingredients", "ingredient name %q is longer than 30 characters", name)
	}

	var ingredient models.Ingredient
	err := tx.Where("LOWER(ingredient_name) = ?", strings.ToLower(name)).First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ingredient = models.Ingredient{Name: name}
	if err := tx.Create(&ingredient).Error; err != nil {
		return nil, translate(err, "ingredient")
	}
	return &ingredient, nil
}

func findOrCreateUnit(tx *gorm.DB, name, symbol string) (*models.Unit, error) {
	name, symbol, err := unitFields("ingredients", name, symbol)
	if err != nil {
		return nil, err
	}

	var unit models.Unit
	err = tx.Where("LOWER(unit_name) = ?", strings.ToLower(name)).First(&unit).Error
	if err == nil {
		return &unit, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unit = models.Unit{Name: name, Symbol: symbol}
	if err := tx.Create(&unit).Error; err != nil {
		return nil, translate(err, "unit")
	}
	return &unit, nil
}

func findOrCreateQuantity(tx *gorm.DB, amount float64) (*models.Quantity, error) {
	if amount <= 0 {
		return nil, newValidationError("ingredients", "quantity_amount must be greater than zero")
	}

	var quantity models.Quantity
	err := tx.Where("quantity_amount = ?", amount).First(&quantity).Error
	if err == nil {
		return &quantity, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	quantity = models.Quantity{Amount: amount}
	if err := tx.Create(&quantity).Error; err != nil {
		return nil, translate(err, "quantity")
	}
	return &quantity, nil
}

// upsertNutrition creates or refreshes the facts for an (ingredient, unit) pair
func upsertNutrition(tx *gorm.DB, ingredientID, unitID uint, in *types.NutritionInput) error {
	var nutrition models.Nutrition
	err := tx.Where("ingredient_id = ? AND unit_id = ?", ingredientID, unitID).First(&nutrition).Error
	switch {
	case err == nil:
		return tx.Model(&nutrition).Updates(map[string]interface{}{
			"protein_count": in.Protein,
			"calorie_count": in.Calories,
			"serving_size":  servingSizeOrDefault(in.ServingSize),
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		nutrition = models.Nutrition{
			IngredientID: ingredientID,
			UnitID:       unitID,
			ProteinCount: in.Protein,
			CalorieCount: in.Calories,
			ServingSize:  servingSizeOrDefault(in.ServingSize),
		}
		return translate(tx.Omit("Ingredient", "Unit").Create(&nutrition).Error, "nutrition")
	default:
		return err
	}
}

func unitFields(field, name, symbol string) (string, string, error) {
	name, symbol = strings.TrimSpace(name), strings.TrimSpace(symbol)
	if name == "" {
		return "", "", newValidationError(field, "unit_name is required")
	}
	if len(name) > maxUnitNameLength {
		return "", "", newValidationError(field, "unit name %q is longer than %d characters", name, maxUnitNameLength)
	}
	if len(symbol) > maxUnitSymbolLength {
		return "", "", newValidationError(field, "unit symbol %q is longer than %d characters", symbol, maxUnitSymbolLength)
	}
	return name, symbol, nil
}
