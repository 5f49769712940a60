package models

import (
	"strings"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/embedding"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

type Recipe struct {
	ID           uint            `gorm:"column:recipe_id;primaryKey" json:"recipe_id"`
	Name         string          `gorm:"column:recipe_name;size:50;not null" json:"recipe_name"`
	Description  string          `gorm:"column:recipe_description;type:text" json:"recipe_description"`
	Instructions string          `gorm:"column:instructions;type:text" json:"instructions"`
	DateAdded    time.Time       `gorm:"column:date_added;autoCreateTime;index" json:"date_added"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Difficulty   int             `gorm:"column:recipe_difficulty;not null" json:"recipe_difficulty"`
	CreatorID    uint            `gorm:"column:creator_id;not null;index" json:"creator_id"`
	ImageKey     *string         `gorm:"column:image_key;size:255" json:"-"`
	Embedding    pgvector.Vector `gorm:"type:vector(64)" json:"-"`
	Creator      *User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeSave keeps the search embedding in step with the recipe text.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.Embedding = embedding.Generate(r.SearchText())
	return nil
}

// SearchText is the text the embedding is computed from.
func (r *Recipe) SearchText() string {
	return strings.Join([]string{r.Name, r.Description, r.Instructions}, " ")
}

// RecipeIngredient is one ingredient line of a recipe. A recipe may list the
// same ingredient twice only with different quantities.
type RecipeIngredient struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RecipeID     uint        `gorm:"column:recipe_id;not null;uniqueIndex:idx_recipe_ingredient_quantity" json:"recipe_id"`
	IngredientID uint        `gorm:"column:ingredient_id;not null;uniqueIndex:idx_recipe_ingredient_quantity" json:"ingredient_id"`
	QuantityID   uint        `gorm:"column:quantity_id;not null;uniqueIndex:idx_recipe_ingredient_quantity" json:"quantity_id"`
	UnitID       *uint       `gorm:"column:unit_id" json:"unit_id,omitempty"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Quantity     *Quantity   `gorm:"foreignKey:QuantityID" json:"quantity,omitempty"`
	Unit         *Unit       `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// IdentifiedBy links a recipe to one of its categories.
type IdentifiedBy struct {
	RecipeID   uint `gorm:"column:recipe_id;primaryKey;autoIncrement:false" json:"recipe_id"`
	CategoryID uint `gorm:"column:category_id;primaryKey;autoIncrement:false;index" json:"category_id"`
}

func (IdentifiedBy) TableName() string {
	return "identified_by"
}
