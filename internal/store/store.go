package store

import (
	"context"
	"errors"
	"time"

	"taskhub/internal/model"
)

// ErrNotFound reports that the operation target is absent from the user's
// collection. Handlers translate it to a 404; it is a normal outcome, not a
// failure.
var ErrNotFound = errors.New("not found")

// ErrBadIndex reports an out-of-range reorder index. Reorder bounds are
// checked explicitly; an out-of-range index never produces a malformed splice.
var ErrBadIndex = errors.New("index out of range")

// UserDataPatch is a shallow merge over a user's stored fields. Nil slices
// and flags mean "leave unchanged".
type UserDataPatch struct {
	Todos      *[]model.Todo
	Categories *[]model.Category
	Tags       *[]model.Tag
	Migrated   *bool
}

// Store holds and mutates per-user todo/category/tag state. Every operation
// is scoped to one user; cascading deletes keep cross-references consistent
// before the call returns. User records are created lazily with built-in
// defaults on first access.
type Store interface {
	GetUserData(ctx context.Context, userID string) (*model.UserData, error)
	SetUserData(ctx context.Context, userID string, patch UserDataPatch) error

	AddTodo(ctx context.Context, userID string, todo model.Todo) error
	UpdateTodo(ctx context.Context, userID, todoID string, patch model.TodoPatch, now time.Time) (*model.Todo, error)
	DeleteTodo(ctx context.Context, userID, todoID string) (bool, error)
	ReorderTodos(ctx context.Context, userID string, fromIndex, toIndex int) ([]model.Todo, error)

	AddCategory(ctx context.Context, userID string, category model.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error)

	AddTag(ctx context.Context, userID string, tag model.Tag) error
	DeleteTag(ctx context.Context, userID, tagID string) (bool, error)

	HasMigrated(ctx context.Context, userID string) (bool, error)
	SetMigrated(ctx context.Context, userID string) error
	ImportUserData(ctx context.Context, userID string, data *model.UserData) error
}

// defaultUserData builds the starter state every user gets on first access:
// two built-in categories, two built-in tags, no todos.
func defaultUserData(now time.Time) *model.UserData {
	return &model.UserData{
		Todos: []model.Todo{},
		Categories: []model.Category{
			{ID: "personal", Name: "Personal", Icon: "🏠", Color: "#3b82f6", CreatedAt: now, UpdatedAt: now},
			{ID: "work", Name: "Work", Icon: "💼", Color: "#8b5cf6", CreatedAt: now, UpdatedAt: now},
		},
		Tags: []model.Tag{
			{ID: "urgent", Name: "urgent", Color: "#ef4444", CreatedAt: now, UpdatedAt: now},
			{ID: "home", Name: "home", Color: "#22c55e", CreatedAt: now, UpdatedAt: now},
		},
		Migrated: false,
	}
}

// applyTodoPatch merges a validated patch into a todo and stamps UpdatedAt.
func applyTodoPatch(todo *model.Todo, patch model.TodoPatch, now time.Time) {
	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	if patch.ClearCategory {
		todo.CategoryID = nil
	} else if patch.CategoryID != nil {
		id := *patch.CategoryID
		todo.CategoryID = &id
	}
	if patch.SetTags {
		todo.Tags = append([]string(nil), patch.Tags...)
	}
	todo.UpdatedAt = now
	if todo.UpdatedAt.Before(todo.CreatedAt) {
		todo.UpdatedAt = todo.CreatedAt
	}
}
