package model

import "time"

// Tag is a multi-select label attachable to a Todo.
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"-" gorm:"primaryKey;index"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
