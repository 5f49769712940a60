package models

import "time"

// Cookbook is a user-curated collection of saved recipes.
type Cookbook struct {
	ID          uint      `gorm:"column:cb_id;primaryKey" json:"cb_id"`
	Title       string    `gorm:"column:cb_title;size:30;not null" json:"cb_title"`
	Description string    `gorm:"column:cb_description;type:text" json:"cb_description"`
	NumOfSaves  int       `gorm:"column:num_of_saves;not null;default:0" json:"num_of_saves"`
	CreatorID   uint      `gorm:"column:creator_id;not null;index" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	Creator     *User     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (Cookbook) TableName() string {
	return "cookbooks"
}

// AddRecipe records which user saved which recipe into which cookbook.
type AddRecipe struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CookbookID uint      `gorm:"column:cb_id;not null;uniqueIndex:idx_add_recipe_entry" json:"cb_id"`
	RecipeID   uint      `gorm:"column:recipe_id;not null;uniqueIndex:idx_add_recipe_entry;index" json:"recipe_id"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:idx_add_recipe_entry" json:"user_id"`
	AddedAt    time.Time `gorm:"column:added_at;autoCreateTime" json:"added_at"`
	Cookbook   *Cookbook `gorm:"foreignKey:CookbookID" json:"cookbook,omitempty"`
	Recipe     *Recipe   `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

func (AddRecipe) TableName() string {
	return "add_recipes"
}

// SubscribedCookbook marks a user following someone else's cookbook.
type SubscribedCookbook struct {
	UserID       uint      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	CookbookID   uint      `gorm:"column:cb_id;primaryKey;autoIncrement:false;index" json:"cb_id"`
	SubscribedAt time.Time `gorm:"column:subscribed_at;autoCreateTime" json:"subscribed_at"`
}

func (SubscribedCookbook) TableName() string {
	return "subscribed_cookbooks"
}

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Ingredient{},
		&Unit{},
		&Quantity{},
		&Nutrition{},
		&Recipe{},
		&RecipeIngredient{},
		&IdentifiedBy{},
		&Review{},
		&Cookbook{},
		&AddRecipe{},
		&SubscribedCookbook{},
	}
}
