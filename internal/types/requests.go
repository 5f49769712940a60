package types

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,notblank,max=20"`
	Email       string `json:"email" binding:"required,email,max=40"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"f_name" binding:"max=15"`
	LastName    string `json:"l_name" binding:"max=15"`
	DateOfBirth string `json:"date_of_birth"`
}

// LoginRequest accepts a username or an email address as the identifier
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"f_name" binding:"omitempty,max=15"`
	LastName    *string `json:"l_name" binding:"omitempty,max=15"`
	Email       *string `json:"email" binding:"omitempty,email,max=40"`
	DateOfBirth *string `json:"date_of_birth"`
}

// CategoryInput names a category by its (type, region) pair
type CategoryInput struct {
	Type   string `json:"r_type" binding:"required,notblank,max=100"`
	Region string `json:"r_region" binding:"required,notblank,max=100"`
}

type NutritionInput struct {
	Calories    float64 `json:"calories" binding:"gte=0"`
	Protein     float64 `json:"protein" binding:"gte=0"`
	ServingSize float64 `json:"serving_size" binding:"gte=0"`
}

// IngredientInput is one line of a recipe's ingredient list
type IngredientInput struct {
	Name       string          `json:"ingredient_name" binding:"required,notblank,max=30"`
	Amount     float64         `json:"quantity_amount" binding:"gt=0"`
	UnitName   string          `json:"unit_name" binding:"max=50"`
	UnitSymbol string          `json:"unit_symbol" binding:"max=10"`
	Nutrition  *NutritionInput `json:"nutrition"`
}

type CreateRecipeRequest struct {
	Name         string            `json:"recipe_name" binding:"required,notblank"`
	Description  string            `json:"recipe_description"`
	Instructions string            `json:"instructions"`
	Difficulty   int               `json:"recipe_difficulty" binding:"required"`
	CategoryIDs  []uint            `json:"category_ids"`
	Categories   []CategoryInput   `json:"categories" binding:"dive"`
	Ingredients  []IngredientInput `json:"ingredients" binding:"dive"`
}

// UpdateRecipeRequest is a partial update. A non-nil slice replaces the stored set.
type UpdateRecipeRequest struct {
	Name         *string           `json:"recipe_name"`
	Description  *string           `json:"recipe_description"`
	Instructions *string           `json:"instructions"`
	Difficulty   *int              `json:"recipe_difficulty"`
	CategoryIDs  []uint            `json:"category_ids"`
	Categories   []CategoryInput   `json:"categories" binding:"omitempty,dive"`
	Ingredients  []IngredientInput `json:"ingredients" binding:"omitempty,dive"`
}

type CreateIngredientRequest struct {
	Name string `json:"ingredient_name" binding:"required,notblank,max=30"`
}

type CreateUnitRequest struct {
	Name   string `json:"unit_name" binding:"required,notblank,max=50"`
	Symbol string `json:"symbol" binding:"max=10"`
}

type CreateQuantityRequest struct {
	Amount float64 `json:"quantity_amount" binding:"gt=0"`
}

type CreateNutritionRequest struct {
	IngredientID uint    `json:"ingredient" binding:"required"`
	UnitID       uint    `json:"unit" binding:"required"`
	ProteinCount float64 `json:"protein_count" binding:"gte=0"`
	CalorieCount float64 `json:"calorie_count" binding:"gte=0"`
	ServingSize  float64 `json:"serving_size" binding:"gte=0"`
}

type ReviewRequest struct {
	RecipeID uint   `json:"recipe" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type CookbookRequest struct {
	Title       string `json:"cb_title" binding:"required,notblank,max=30"`
	Description string `json:"cb_description"`
}

type UpdateCookbookRequest struct {
	Title       *string `json:"cb_title" binding:"omitempty,notblank,max=30"`
	Description *string `json:"cb_description"`
}

type CookbookEntryRequest struct {
	RecipeID uint `json:"recipe" binding:"required"`
}

type SubscribeRequest struct {
	CookbookID uint `json:"cookbook" binding:"required"`
}
