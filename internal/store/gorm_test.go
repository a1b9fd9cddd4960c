package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"taskhub/internal/model"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewGormStore(db)
}

func TestGormStore_LazyDefaults(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	data, err := s.GetUserData(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if len(data.Todos) != 0 || len(data.Categories) != 2 || len(data.Tags) != 2 {
		t.Fatalf("defaults wrong: %+v", data)
	}
	if data.Migrated {
		t.Error("new user should not be migrated")
	}
}

func TestGormStore_TodoOrderSurvivesReload(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		if err := s.AddTodo(ctx, "u", newTodo(id, id)); err != nil {
			t.Fatalf("AddTodo: %v", err)
		}
	}
	data, err := s.GetUserData(ctx, "u")
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if data.Todos[0].ID != "third" || data.Todos[2].ID != "first" {
		t.Fatalf("most recent should come first: %+v", data.Todos)
	}
}

func TestGormStore_ReorderTodos(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	_ = s.AddTodo(ctx, "u", newTodo("C", "c"))
	_ = s.AddTodo(ctx, "u", newTodo("B", "b"))
	_ = s.AddTodo(ctx, "u", newTodo("A", "a"))

	todos, err := s.ReorderTodos(ctx, "u", 0, 2)
	if err != nil {
		t.Fatalf("ReorderTodos: %v", err)
	}
	got := []string{todos[0].ID, todos[1].ID, todos[2].ID}
	want := []string{"B", "C", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	// Order is durable, not just the returned slice.
	data, _ := s.GetUserData(ctx, "u")
	if data.Todos[0].ID != "B" || data.Todos[2].ID != "A" {
		t.Fatalf("persisted order wrong: %+v", data.Todos)
	}

	if _, err := s.ReorderTodos(ctx, "u", 0, 99); !errors.Is(err, ErrBadIndex) {
		t.Fatalf("expected ErrBadIndex, got %v", err)
	}
}

func TestGormStore_CategoryCascade(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	catID := "personal" // built-in default
	todo := newTodo("a", "with category")
	todo.CategoryID = &catID
	if err := s.AddTodo(ctx, "u", todo); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}

	removed, err := s.DeleteCategory(ctx, "u", catID)
	if err != nil || !removed {
		t.Fatalf("DeleteCategory = %t, %v", removed, err)
	}

	data, _ := s.GetUserData(ctx, "u")
	if data.FindCategory(catID) != nil {
		t.Error("category should be gone")
	}
	if data.Todos[0].CategoryID != nil {
		t.Errorf("cascade failed: %+v", data.Todos[0])
	}
}

func TestGormStore_TagCascade(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	todo := newTodo("a", "tagged")
	todo.Tags = []string{"urgent", "home"}
	if err := s.AddTodo(ctx, "u", todo); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}

	removed, err := s.DeleteTag(ctx, "u", "urgent")
	if err != nil || !removed {
		t.Fatalf("DeleteTag = %t, %v", removed, err)
	}

	data, _ := s.GetUserData(ctx, "u")
	if data.Todos[0].HasTag("urgent") {
		t.Errorf("tag not stripped: %v", data.Todos[0].Tags)
	}
	if !data.Todos[0].HasTag("home") {
		t.Errorf("unrelated tag lost: %v", data.Todos[0].Tags)
	}

	removed, _ = s.DeleteTag(ctx, "u", "urgent")
	if removed {
		t.Error("second delete should report not found")
	}
}

func TestGormStore_ImportReplacesWholesale(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	_ = s.AddTodo(ctx, "u", newTodo("old", "old"))
	imported := &model.UserData{
		Todos:      []model.Todo{newTodo("new1", "one"), newTodo("new2", "two")},
		Categories: []model.Category{{ID: "c", Name: "C", Icon: "x", Color: "#111111", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}},
		Tags:       []model.Tag{},
	}
	if err := s.ImportUserData(ctx, "u", imported); err != nil {
		t.Fatalf("ImportUserData: %v", err)
	}

	migrated, err := s.HasMigrated(ctx, "u")
	if err != nil || !migrated {
		t.Fatalf("HasMigrated = %t, %v", migrated, err)
	}
	data, _ := s.GetUserData(ctx, "u")
	if len(data.Todos) != 2 || data.Todos[0].ID != "new1" {
		t.Fatalf("todos = %+v", data.Todos)
	}
	if len(data.Categories) != 1 || len(data.Tags) != 0 {
		t.Fatalf("collections = %+v", data)
	}
}

func TestGormStore_UpdateTodoNotFound(t *testing.T) {
	s := newGormStore(t)
	title := "x"
	if _, err := s.UpdateTodo(context.Background(), "u", "missing", model.TodoPatch{Title: &title}, time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
