package models

import (
	"time"
)

// User is an account that can publish recipes, reviews and cookbooks.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:20;not null;uniqueIndex" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `gorm:"column:f_name;size:15" json:"f_name"`
	LastName     string     `gorm:"column:l_name;size:15" json:"l_name"`
	DateOfBirth  *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Email        string     `gorm:"size:40;not null;uniqueIndex" json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name, falling back to the username.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
