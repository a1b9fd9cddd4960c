package model

import "time"

// Category is a single-select grouping label attachable to a Todo.
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"-" gorm:"primaryKey;index"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
