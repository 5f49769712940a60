package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of a recipe. Each user reviews a recipe at most once.
type Review struct {
	ID          uint      `gorm:"column:review_id;primaryKey" json:"review_id"`
	UserID      uint      `gorm:"column:user_id;not null;uniqueIndex:idx_review_user_recipe" json:"user_id"`
	RecipeID    uint      `gorm:"column:recipe_id;not null;uniqueIndex:idx_review_user_recipe;index" json:"recipe_id"`
	Rating      int       `gorm:"column:rating;not null" json:"rating"`
	Comment     string    `gorm:"column:comment;type:text" json:"comment"`
	DateCreated time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Recipe      *Recipe   `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
