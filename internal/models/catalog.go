package models

// Category is a (type, region) pair such as ("Dessert", "Italian").
// The pair is unique.
type Category struct {
	ID     uint   `gorm:"column:category_id;primaryKey" json:"category_id"`
	Type   string `gorm:"column:r_type;size:100;not null;uniqueIndex:idx_category_type_region" json:"r_type"`
	Region string `gorm:"column:r_region;size:100;not null;uniqueIndex:idx_category_type_region" json:"r_region"`
}

func (Category) TableName() string {
	return "categories"
}

type Ingredient struct {
	ID   uint   `gorm:"column:ingredient_id;primaryKey" json:"ingredient_id"`
	Name string `gorm:"column:ingredient_name;size:30;not null;uniqueIndex" json:"ingredient_name"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

type Unit struct {
	ID     uint   `gorm:"column:unit_id;primaryKey" json:"unit_id"`
	Name   string `gorm:"column:unit_name;size:50;not null;uniqueIndex" json:"unit_name"`
	Symbol string `gorm:"column:symbol;size:10" json:"symbol"`
}

func (Unit) TableName() string {
	return "units"
}

type Quantity struct {
	ID     uint    `gorm:"column:quantity_id;primaryKey" json:"quantity_id"`
	Amount float64 `gorm:"column:quantity_amount;not null;uniqueIndex" json:"quantity_amount"`
}

func (Quantity) TableName() string {
	return "quantities"
}

// Nutrition holds macro facts for one ingredient measured in one unit.
type Nutrition struct {
	ID           uint        `gorm:"column:nutrition_id;primaryKey" json:"nutrition_id"`
	ProteinCount float64     `gorm:"column:protein_count;not null;default:0" json:"protein_count"`
	CalorieCount float64     `gorm:"column:calorie_count;not null;default:0" json:"calorie_count"`
	ServingSize  float64     `gorm:"column:serving_size;not null;default:1" json:"serving_size"`
	IngredientID uint        `gorm:"column:ingredient_id;not null;uniqueIndex:idx_nutrition_ingredient_unit" json:"ingredient_id"`
	UnitID       uint        `gorm:"column:unit_id;not null;uniqueIndex:idx_nutrition_ingredient_unit" json:"unit_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Unit         *Unit       `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

func (Nutrition) TableName() string {
	return "nutritions"
}
