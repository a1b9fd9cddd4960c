package model

import "time"

// UserState tracks per-user flags that live outside the three collections.
type UserState struct {
	UserID    string `gorm:"primaryKey"`
	Migrated  bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserData is the full server-held state for one user: one ordered todo
// sequence, the category and tag collections, and the migration flag.
type UserData struct {
	Todos      []Todo     `json:"todos"`
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
	Migrated   bool       `json:"migrated"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing store-internal slices.
func (d *UserData) Clone() *UserData {
	out := &UserData{
		Todos:      make([]Todo, len(d.Todos)),
		Categories: make([]Category, len(d.Categories)),
		Tags:       make([]Tag, len(d.Tags)),
		Migrated:   d.Migrated,
	}
	copy(out.Categories, d.Categories)
	copy(out.Tags, d.Tags)
	for i, todo := range d.Todos {
		cp := todo
		if todo.CategoryID != nil {
			id := *todo.CategoryID
			cp.CategoryID = &id
		}
		cp.Tags = append([]string(nil), todo.Tags...)
		out.Todos[i] = cp
	}
	return out
}

// FindCategory returns the category with the given ID, or nil.
func (d *UserData) FindCategory(id string) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}

// FindTag returns the tag with the given ID, or nil.
func (d *UserData) FindTag(id string) *Tag {
	for i := range d.Tags {
		if d.Tags[i].ID == id {
			return &d.Tags[i]
		}
	}
	return nil
}
