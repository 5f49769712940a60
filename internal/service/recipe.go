package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ezchef/ezchef/backend/internal/embedding"
	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	defaultSimilarLimit = 5
	maxSimilarLimit     = 20
	maxRecipeNameLength = 50
)

// RecipeService handles recipe operations
type RecipeService struct {
	db    *gorm.DB
	store ObjectStore
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService. store may be nil when image storage is not configured.
func NewRecipeService(db *gorm.DB, store ObjectStore) *RecipeService {
	return &RecipeService{
		db:    db,
		store: store,
	}
}

func validateDifficulty(d int) error {
	if d < models.MinDifficulty || d > models.MaxDifficulty {
		return newValidationError("recipe_difficulty", "must be between %d and %d", models.MinDifficulty, models.MaxDifficulty)
	}
	return nil
}

func validateRecipeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("recipe_name", "is required")
	}
	if len(name) > maxRecipeNameLength {
		return "", newValidationError("recipe_name", "must be at most %d characters", maxRecipeNameLength)
	}
	return name, nil
}

// Create stores a recipe together with its categories and ingredient lines in one transaction
func (s *RecipeService) Create(ctx context.Context, userID uint, req *types.CreateRecipeRequest) (*types.RecipeDetail, error) {
	name, err := validateRecipeName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validateDifficulty(req.Difficulty); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		Instructions: strings.TrimSpace(req.Instructions),
		Difficulty:   req.Difficulty,
		CreatorID:    userID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return translate(err, "recipe")
		}
		if err := attachCategories(tx, recipe.ID, req.CategoryIDs, req.Categories); err != nil {
			return err
		}
		return attachIngredients(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("recipe created", zap.Uint("recipe_id", recipe.ID), zap.Uint("user_id", userID))
	return loadDetail(s.db.WithContext(ctx), recipe.ID)
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*types.RecipeDetail, error) {
	return loadDetail(s.db.WithContext(ctx), id)
}

// List returns one page of recipes matching q and the total number of matches
func (s *RecipeService) List(ctx context.Context, q types.RecipeQuery) ([]types.RecipeSummary, int64, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Recipe{})

	if q.CategoryID != 0 {
		query = query.Where("recipes.recipe_id IN (?)",
			db.Model(&models.IdentifiedBy{}).Select("recipe_id").Where("category_id = ?", q.CategoryID))
	}
	if q.Type != "" || q.Region != "" {
		sub := db.Model(&models.IdentifiedBy{}).
			Select("identified_by.recipe_id").
			Joins("JOIN categories ON categories.category_id = identified_by.category_id")
		if q.Type != "" {
			sub = sub.Where("LOWER(categories.r_type) = ?", strings.ToLower(q.Type))
		}
		if q.Region != "" {
			sub = sub.Where("LOWER(categories.r_region) = ?", strings.ToLower(q.Region))
		}
		query = query.Where("recipes.recipe_id IN (?)", sub)
	}
	if q.Difficulty != 0 {
		query = query.Where("recipes.recipe_difficulty = ?", q.Difficulty)
	}
	if q.CreatorID != 0 {
		query = query.Where("recipes.creator_id = ?", q.CreatorID)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(recipes.recipe_name) LIKE ? OR LOWER(recipes.recipe_description) LIKE ?", like, like)
	}
	if ingredient := strings.TrimSpace(q.Ingredient); ingredient != "" {
		query = query.Where("recipes.recipe_id IN (?)",
			db.Model(&models.RecipeIngredient{}).
				Select("recipe_ingredients.recipe_id").
				Joins("JOIN ingredients ON ingredients.ingredient_id = recipe_ingredients.ingredient_id").
				Where("LOWER(ingredients.ingredient_name) LIKE ?", "%"+strings.ToLower(ingredient)+"%"))
	}
	if q.NotInCookbook != 0 {
		query = query.Where("recipes.recipe_id NOT IN (?)",
			db.Model(&models.AddRecipe{}).Select("recipe_id").Where("cb_id = ?", q.NotInCookbook))
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(q.Limit, q.Offset)

	var recipes []models.Recipe
	err := query.Preload("Creator").
		Order(recipeOrder(q.Sort)).
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	summaries, err := summarizeRecipes(db, recipes)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func recipeOrder(sort string) string {
	switch sort {
	case types.SortOldest:
		return "recipes.date_added ASC, recipes.recipe_id ASC"
	case types.SortHighestRated:
		return "(SELECT COALESCE(AVG(reviews.rating), 0) FROM reviews WHERE reviews.recipe_id = recipes.recipe_id) DESC, recipes.recipe_id ASC"
	case types.SortDifficulty:
		return "recipes.recipe_difficulty ASC, recipes.recipe_id ASC"
	case types.SortName:
		return "LOWER(recipes.recipe_name) ASC, recipes.recipe_id ASC"
	default:
		return "recipes.date_added DESC, recipes.recipe_id DESC"
	}
}

// Update applies a partial update. Ingredient and category lists, when present, replace the stored sets.
func (s *RecipeService) Update(ctx context.Context, userID, id uint, req *types.UpdateRecipeRequest) (*types.RecipeDetail, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return translate(err, "recipe")
		}
		if recipe.CreatorID != userID {
			return forbiddenf("only the creator can modify recipe %d", id)
		}

		if req.Name != nil {
			name, err := validateRecipeName(*req.Name)
			if err != nil {
				return err
			}
			recipe.Name = name
		}
		if req.Description != nil {
			recipe.Description = strings.TrimSpace(*req.Description)
		}
		if req.Instructions != nil {
			recipe.Instructions = strings.TrimSpace(*req.Instructions)
		}
		if req.Difficulty != nil {
			if err := validateDifficulty(*req.Difficulty); err != nil {
				return err
			}
			recipe.Difficulty = *req.Difficulty
		}

		if err := tx.Omit(clause.Associations).Save(&recipe).Error; err != nil {
			return translate(err, "recipe")
		}

		if req.CategoryIDs != nil || req.Categories != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.IdentifiedBy{}).Error; err != nil {
				return err
			}
			if err := attachCategories(tx, id, req.CategoryIDs, req.Categories); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := attachIngredients(tx, id, req.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loadDetail(s.db.WithContext(ctx), id)
}

// Delete removes a recipe with its join rows, reviews and cookbook entries
func (s *RecipeService) Delete(ctx context.Context, userID, id uint) error {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, id).Error; err != nil {
			return translate(err, "recipe")
		}
		if recipe.CreatorID != userID {
			return forbiddenf("only the creator can delete recipe %d", id)
		}

		for _, dependent := range []interface{}{
			&models.AddRecipe{},
			&models.Review{},
			&models.RecipeIngredient{},
			&models.IdentifiedBy{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
	if err != nil {
		return err
	}

	if recipe.ImageKey != nil && s.store != nil {
		if err := s.store.DeleteObject(ctx, *recipe.ImageKey); err != nil {
			logger.Warn("failed to delete recipe image",
				zap.Uint("recipe_id", id), zap.String("key", *recipe.ImageKey), zap.Error(err))
		}
	}

	logger.Info("recipe deleted", zap.Uint("recipe_id", id), zap.Uint("user_id", userID))
	return nil
}

// Similar returns the recipes whose embeddings are closest to the given recipe's
func (s *RecipeService) Similar(ctx context.Context, id uint, limit int) ([]types.RecipeSummary, error) {
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}

	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		return nil, translate(err, "recipe")
	}

	var neighbours []models.Recipe
	if db.Dialector.Name() == "postgres" {
		err := db.Preload("Creator").
			Where("recipe_id <> ?", id).
			Order(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{recipe.Embedding}}}).
			Limit(limit).
			Find(&neighbours).Error
		if err != nil {
			return nil, err
		}
	} else {
		// No vector operator outside Postgres; rank the candidates in memory.
		var candidates []models.Recipe
		if err := db.Preload("Creator").Where("recipe_id <> ?", id).Find(&candidates).Error; err != nil {
			return nil, err
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return embedding.Distance(recipe.Embedding, candidates[i].Embedding) <
				embedding.Distance(recipe.Embedding, candidates[j].Embedding)
		})
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		neighbours = candidates
	}

	return summarizeRecipes(db, neighbours)
}

func attachCategories(tx *gorm.DB, recipeID uint, ids []uint, inputs []types.CategoryInput) error {
	seen := make(map[uint]bool)
	var categoryIDs []uint

	for _, id := range ids {
		if seen[id] {
			continue
		}
		var count int64
		if err := tx.Model(&models.Category{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return newValidationError("category_ids", "category %d does not exist", id)
		}
		seen[id] = true
		categoryIDs = append(categoryIDs, id)
	}

	for _, in := range inputs {
		category, err := findOrCreateCategory(tx, in)
		if err != nil {
			return err
		}
		if seen[category.ID] {
			continue
		}
		seen[category.ID] = true
		categoryIDs = append(categoryIDs, category.ID)
	}

	for _, categoryID := range categoryIDs {
		link := models.IdentifiedBy{RecipeID: recipeID, CategoryID: categoryID}
		if err := tx.Create(&link).Error; err != nil {
			return translate(err, "recipe category")
		}
	}
	return nil
}

type ingredientLineKey struct {
	ingredientID uint
	quantityID   uint
}

func attachIngredients(tx *gorm.DB, recipeID uint, lines []types.IngredientInput) error {
	seen := make(map[ingredientLineKey]bool)

	for _, in := range lines {
		ingredient, err := findOrCreateIngredient(tx, in.Name)
		if err != nil {
			return err
		}
		quantity, err := findOrCreateQuantity(tx, in.Amount)
		if err != nil {
			return err
		}

		key := ingredientLineKey{ingredientID: ingredient.ID, quantityID: quantity.ID}
		if seen[key] {
			return newValidationError("ingredients", "%s with quantity %g is listed twice", ingredient.Name, quantity.Amount)
		}
		seen[key] = true

		line := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ingredient.ID,
			QuantityID:   quantity.ID,
		}

		if strings.TrimSpace(in.UnitName) != "" {
			unit, err := findOrCreateUnit(tx, in.UnitName, in.UnitSymbol)
			if err != nil {
				return err
			}
			line.UnitID = &unit.ID

			if in.Nutrition != nil {
				if err := upsertNutrition(tx, ingredient.ID, unit.ID, in.Nutrition); err != nil {
					return err
				}
			}
		} else if in.Nutrition != nil {
			return newValidationError("ingredients", "nutrition for %s needs a unit_name", ingredient.Name)
		}

		if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
			return translate(err, "recipe ingredient")
		}
	}
	return nil
}

type ratingStats struct {
	RecipeID uint
	Average  float64
	Total    int64
}

func loadRatings(db *gorm.DB, recipeIDs []uint) (map[uint]ratingStats, error) {
	out := make(map[uint]ratingStats, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []ratingStats
	err := db.Model(&models.Review{}).
		Select("recipe_id, CAST(AVG(rating) AS FLOAT) AS average, COUNT(*) AS total").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RecipeID] = row
	}
	return out, nil
}

func newRecipeSummary(r *models.Recipe, stats ratingStats) types.RecipeSummary {
	return types.RecipeSummary{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		DateAdded:     r.DateAdded,
		Difficulty:    r.Difficulty,
		Creator:       types.NewCreatorView(r.Creator),
		AverageRating: stats.Average,
		ReviewCount:   stats.Total,
		HasImage:      r.ImageKey != nil,
	}
}

// summarizeRecipes attaches rating statistics to recipes; Creator should already be preloaded.
func summarizeRecipes(db *gorm.DB, recipes []models.Recipe) ([]types.RecipeSummary, error) {
	ids := make([]uint, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}
	ratings, err := loadRatings(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeSummary, len(recipes))
	for i := range recipes {
		out[i] = newRecipeSummary(&recipes[i], ratings[recipes[i].ID])
	}
	return out, nil
}

type nutritionKey struct {
	ingredientID uint
	unitID       uint
}

// loadDetail assembles the nested representation of one recipe
func loadDetail(db *gorm.DB, id uint) (*types.RecipeDetail, error) {
	var recipe models.Recipe
	if err := db.Preload("Creator").First(&recipe, id).Error; err != nil {
		return nil, translate(err, "recipe")
	}

	categories := []models.Category{}
	err := db.Model(&models.Category{}).
		Joins("JOIN identified_by ON identified_by.category_id = categories.category_id").
		Where("identified_by.recipe_id = ?", id).
		Order("categories.category_id").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	var lines []models.RecipeIngredient
	err = db.Preload("Ingredient").Preload("Quantity").Preload("Unit").
		Where("recipe_id = ?", id).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	facts := make(map[nutritionKey]models.Nutrition)
	if len(lines) > 0 {
		ingredientIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			ingredientIDs = append(ingredientIDs, line.IngredientID)
		}
		var nutrition []models.Nutrition
		if err := db.Where("ingredient_id IN ?", ingredientIDs).Find(&nutrition).Error; err != nil {
			return nil, err
		}
		for _, n := range nutrition {
			facts[nutritionKey{ingredientID: n.IngredientID, unitID: n.UnitID}] = n
		}
	}

	var reviews []models.Review
	err = db.Preload("User").
		Where("recipe_id = ?", id).
		Order("date_created DESC, review_id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	var stats ratingStats
	for _, r := range reviews {
		stats.Average += float64(r.Rating)
	}
	if len(reviews) > 0 {
		stats.Total = int64(len(reviews))
		stats.Average /= float64(len(reviews))
	}

	detail := &types.RecipeDetail{
		RecipeSummary: newRecipeSummary(&recipe, stats),
		Instructions:  recipe.Instructions,
		Categories:    categories,
		Ingredients:   make([]types.IngredientLineView, 0, len(lines)),
		Reviews:       make([]types.ReviewView, 0, len(reviews)),
	}

	for _, line := range lines {
		view := types.IngredientLineView{
			IngredientID: line.IngredientID,
			QuantityID:   line.QuantityID,
			UnitID:       line.UnitID,
		}
		if line.Ingredient != nil {
			view.IngredientName = line.Ingredient.Name
		}
		if line.Quantity != nil {
			view.QuantityAmount = line.Quantity.Amount
		}
		if line.Unit != nil {
			view.UnitName = line.Unit.Name
			view.Symbol = line.Unit.Symbol
		}
		if line.UnitID != nil {
			if n, ok := facts[nutritionKey{ingredientID: line.IngredientID, unitID: *line.UnitID}]; ok {
				view.Nutrition = &types.NutritionView{
					ProteinCount: n.ProteinCount,
					CalorieCount: n.CalorieCount,
					ServingSize:  n.ServingSize,
				}
			}
		}
		detail.Ingredients = append(detail.Ingredients, view)
	}

	for i := range reviews {
		reviews[i].Recipe = &recipe
		detail.Reviews = append(detail.Reviews, types.NewReviewView(&reviews[i]))
	}

	return detail, nil
}
