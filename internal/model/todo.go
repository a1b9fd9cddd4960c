package model

import "time"

// Todo is a single task record owned by one user. Ordering among a user's
// todos is significant and user-controlled, not derived from any field.
type Todo struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"-" gorm:"primaryKey;index"`
	Title      string    `json:"title"`
	Completed  bool      `json:"completed" gorm:"default:false"`
	CategoryID *string   `json:"categoryId" gorm:"index"`
	Tags       []string  `json:"tags" gorm:"serializer:json"`
	Position   int       `json:"-" gorm:"index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TodoPatch carries a partial update for a todo. Nil pointers mean "leave
// unchanged"; ClearCategory and SetTags distinguish explicit null/replacement
// from absence.
type TodoPatch struct {
	Title         *string
	Completed     *bool
	CategoryID    *string
	ClearCategory bool
	Tags          []string
	SetTags       bool
}

// HasTag reports whether the todo carries the given tag ID.
func (t *Todo) HasTag(tagID string) bool {
	for _, id := range t.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}
