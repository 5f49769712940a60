package types

import (
	"time"

	"github.com/ezchef/ezchef/backend/internal/models"
)

// UserView is the public profile of a user
type UserView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"f_name"`
	LastName  string `json:"l_name"`
	Email     string `json:"email"`
}

func NewUserView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// ProfileView is what a user sees of their own account
type ProfileView struct {
	UserView
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

func NewProfileView(u *models.User) ProfileView {
	return ProfileView{UserView: NewUserView(u), DateOfBirth: u.DateOfBirth}
}

// CreatorView is the embedded author of a recipe or cookbook
type CreatorView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func NewCreatorView(u *models.User) *CreatorView {
	if u == nil {
		return nil
	}
	return &CreatorView{ID: u.ID, Username: u.Username, FullName: u.FullName()}
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token   string   `json:"token"`
	Refresh string   `json:"refresh"`
	User    UserView `json:"user"`
}

// RecipeSummary is a row of a recipe listing
type RecipeSummary struct {
	ID            uint         `json:"recipe_id"`
	Name          string       `json:"recipe_name"`
	Description   string       `json:"recipe_description"`
	DateAdded     time.Time    `json:"date_added"`
	Difficulty    int          `json:"recipe_difficulty"`
	Creator       *CreatorView `json:"creator,omitempty"`
	AverageRating float64      `json:"average_rating"`
	ReviewCount   int64        `json:"review_count"`
	HasImage      bool         `json:"has_image"`
}

// NutritionView is the nutrition of one ingredient line
type NutritionView struct {
	ProteinCount float64 `json:"protein_count"`
	CalorieCount float64 `json:"calorie_count"`
	ServingSize  float64 `json:"serving_size"`
}

// IngredientLineView is one ingredient of a recipe with its measure
type IngredientLineView struct {
	IngredientID   uint           `json:"ingredient_id"`
	IngredientName string         `json:"ingredient_name"`
	QuantityID     uint           `json:"quantity_id"`
	QuantityAmount float64        `json:"quantity_amount"`
	UnitID         *uint          `json:"unit_id,omitempty"`
	UnitName       string         `json:"unit_name,omitempty"`
	Symbol         string         `json:"symbol,omitempty"`
	Nutrition      *NutritionView `json:"nutrition,omitempty"`
}

// ReviewView is a review with the names of its author and recipe
type ReviewView struct {
	ID          uint      `json:"review_id"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	RecipeID    uint      `json:"recipe_id"`
	RecipeName  string    `json:"recipe_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	DateCreated time.Time `json:"date_created"`
}

func NewReviewView(r *models.Review) ReviewView {
	v := ReviewView{
		ID:          r.ID,
		UserID:      r.UserID,
		RecipeID:    r.RecipeID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		DateCreated: r.DateCreated,
	}
	if r.User != nil {
		v.Username = r.User.Username
	}
	if r.Recipe != nil {
		v.RecipeName = r.Recipe.Name
	}
	return v
}

// RecipeDetail is the fully nested representation of a single recipe
type RecipeDetail struct {
	RecipeSummary
	Instructions string               `json:"instructions"`
	Categories   []models.Category    `json:"categories"`
	Ingredients  []IngredientLineView `json:"ingredients"`
	Reviews      []ReviewView         `json:"reviews"`
}

// CookbookView is a cookbook without its recipes
type CookbookView struct {
	ID          uint         `json:"cb_id"`
	Title       string       `json:"cb_title"`
	Description string       `json:"cb_description"`
	NumOfSaves  int          `json:"num_of_saves"`
	Creator     *CreatorView `json:"creator,omitempty"`
	RecipeCount int64        `json:"recipe_count"`
	CreatedAt   time.Time    `json:"created_at"`
}

func NewCookbookView(cb *models.Cookbook) CookbookView {
	return CookbookView{
		ID:          cb.ID,
		Title:       cb.Title,
		Description: cb.Description,
		NumOfSaves:  cb.NumOfSaves,
		Creator:     NewCreatorView(cb.Creator),
		CreatedAt:   cb.CreatedAt,
	}
}

// CookbookDetail is a cookbook with the recipes saved in it
type CookbookDetail struct {
	CookbookView
	Recipes []RecipeSummary `json:"recipes"`
}

// CookbookEntryView is one recipe a user added to a cookbook
type CookbookEntryView struct {
	ID         uint          `json:"id"`
	CookbookID uint          `json:"cb_id"`
	UserID     uint          `json:"user_id"`
	AddedAt    time.Time     `json:"added_at"`
	Recipe     RecipeSummary `json:"recipe"`
}

// RecipeQuery holds the filters, sort order and page of a recipe listing
type RecipeQuery struct {
	CategoryID    uint
	Type          string
	Region        string
	Difficulty    int
	CreatorID     uint
	Search        string
	Ingredient    string
	NotInCookbook uint
	Sort          string
	Limit         int
	Offset        int
}

const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortHighestRated = "highest_rated"
	SortDifficulty   = "difficulty"
	SortName         = "name"
)
