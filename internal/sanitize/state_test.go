package sanitize

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSanitizeState_DropsInvalidItemsWithWarnings(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := StatePayload{
		Todos: []RawTodo{
			{ID: "a", Title: "first", CreatedAt: "2024-01-01T00:00:00.000Z", UpdatedAt: "2024-01-02T00:00:00.000Z"},
			{ID: "b", Title: "   "}, // invalid: empty title
			{ID: "c", Title: "third"},
		},
		Categories: []RawCategory{
			{ID: "work", Name: "Work", Icon: "💼", Color: "#1a2b3c"},
		},
		Tags: []RawTag{
			{ID: "urgent", Name: "urgent", Color: "#ef4444"},
		},
	}

	data, warnings := SanitizeState(payload, now)
	if len(data.Todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(data.Todos))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "todos[1]") {
		t.Errorf("warning should reference the invalid index: %q", warnings[0])
	}
	if data.Todos[0].ID != "a" || data.Todos[1].ID != "c" {
		t.Errorf("unexpected survivors: %+v", data.Todos)
	}
}

func TestSanitizeState_CrossReferenceFixup(t *testing.T) {
	now := time.Now().UTC()
	ghost := "ghost"
	payload := StatePayload{
		Todos: []RawTodo{
			{ID: "a", Title: "dangling refs", CategoryID: &ghost, Tags: []string{"urgent", "no-such-tag"}},
		},
		Categories: []RawCategory{
			{ID: "work", Name: "Work", Icon: "💼", Color: "#1a2b3c"},
		},
		Tags: []RawTag{
			{ID: "urgent", Name: "urgent", Color: "#ef4444"},
		},
	}

	data, _ := SanitizeState(payload, now)
	if len(data.Todos) != 1 {
		t.Fatalf("todo should survive reference fixup, got %d", len(data.Todos))
	}
	todo := data.Todos[0]
	if todo.CategoryID != nil {
		t.Errorf("dangling categoryId should be cleared, got %q", *todo.CategoryID)
	}
	if len(todo.Tags) != 1 || todo.Tags[0] != "urgent" {
		t.Errorf("unknown tag refs should be dropped, got %v", todo.Tags)
	}
}

func TestSanitizeState_CapsCollections(t *testing.T) {
	now := time.Now().UTC()
	payload := StatePayload{}
	for i := 0; i < MaxCategories+10; i++ {
		payload.Categories = append(payload.Categories, RawCategory{
			ID: fmt.Sprintf("cat-%d", i), Name: "c", Icon: "x", Color: "#123456",
		})
	}

	data, warnings := SanitizeState(payload, now)
	if len(data.Categories) != MaxCategories {
		t.Fatalf("expected cap at %d, got %d", MaxCategories, len(data.Categories))
	}
	// Truncation is silent, not a warning.
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestSanitizeState_DuplicateIDsDropped(t *testing.T) {
	now := time.Now().UTC()
	payload := StatePayload{
		Todos: []RawTodo{
			{ID: "a", Title: "one"},
			{ID: "a", Title: "two"},
		},
	}

	data, warnings := SanitizeState(payload, now)
	if len(data.Todos) != 1 || data.Todos[0].Title != "one" {
		t.Fatalf("first occurrence should win: %+v", data.Todos)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected duplicate warning, got %v", warnings)
	}
}

func TestSanitizeState_TimestampDefaultsAndOrdering(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := StatePayload{
		Todos: []RawTodo{
			{ID: "a", Title: "bad dates", CreatedAt: "garbage", UpdatedAt: "also garbage"},
			{ID: "b", Title: "inverted", CreatedAt: "2024-05-01T00:00:00.000Z", UpdatedAt: "2024-04-01T00:00:00.000Z"},
		},
	}

	data, _ := SanitizeState(payload, now)
	if !data.Todos[0].CreatedAt.Equal(now) || !data.Todos[0].UpdatedAt.Equal(now) {
		t.Errorf("unparseable dates should default to now: %+v", data.Todos[0])
	}
	if data.Todos[1].UpdatedAt.Before(data.Todos[1].CreatedAt) {
		t.Errorf("updatedAt must not precede createdAt: %+v", data.Todos[1])
	}
}

func TestSanitizeState_EmptyPayloadUsable(t *testing.T) {
	data, warnings := SanitizeState(StatePayload{}, time.Now().UTC())
	if data == nil {
		t.Fatal("nil payload")
	}
	if len(data.Todos) != 0 || len(data.Categories) != 0 || len(data.Tags) != 0 {
		t.Fatalf("expected empty collections: %+v", data)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}
