package sanitize

import (
	"fmt"
	"strings"
	"time"

	"taskhub/internal/model"
)

// StatePayload is the untrusted shape of a full client-held state, as sent by
// the one-time migration endpoint. Timestamps arrive as raw strings.
type StatePayload struct {
	Todos      []RawTodo     `json:"todos"`
	Categories []RawCategory `json:"categories"`
	Tags       []RawTag      `json:"tags"`
}

// RawTodo mirrors the client-side todo shape before validation.
type RawTodo struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Completed  bool     `json:"completed"`
	CategoryID *string  `json:"categoryId"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// RawCategory mirrors the client-side category shape before validation.
type RawCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// RawTag mirrors the client-side tag shape before validation.
type RawTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SanitizeState validates a full client-held state leniently: it always
// returns a usable payload, recording per-item rejections as warnings instead
// of failing the import. Collection caps truncate silently. After per-item
// validation, cross-references are re-checked against the just-validated
// category and tag sets; unresolvable references are dropped, not rejected.
func SanitizeState(payload StatePayload, now time.Time) (*model.UserData, []string) {
	var warnings []string

	categories := payload.Categories
	if len(categories) > MaxCategories {
		categories = categories[:MaxCategories]
	}
	tags := payload.Tags
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	todos := payload.Todos
	if len(todos) > MaxTodos {
		todos = todos[:MaxTodos]
	}

	out := &model.UserData{
		Todos:      make([]model.Todo, 0, len(todos)),
		Categories: make([]model.Category, 0, len(categories)),
		Tags:       make([]model.Tag, 0, len(tags)),
	}

	categoryIDs := make(map[string]struct{}, len(categories))
	for i, raw := range categories {
		cat, reason := sanitizeCategory(raw)
		if reason != "" {
			warnings = append(warnings, fmt.Sprintf("categories[%d]: %s", i, reason))
			continue
		}
		if _, dup := categoryIDs[cat.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("categories[%d]: duplicate id %q", i, cat.ID))
			continue
		}
		categoryIDs[cat.ID] = struct{}{}
		out.Categories = append(out.Categories, cat)
	}

	tagIDs := make(map[string]struct{}, len(tags))
	for i, raw := range tags {
		tag, reason := sanitizeTag(raw)
		if reason != "" {
			warnings = append(warnings, fmt.Sprintf("tags[%d]: %s", i, reason))
			continue
		}
		if _, dup := tagIDs[tag.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("tags[%d]: duplicate id %q", i, tag.ID))
			continue
		}
		tagIDs[tag.ID] = struct{}{}
		out.Tags = append(out.Tags, tag)
	}

	todoIDs := make(map[string]struct{}, len(todos))
	for i, raw := range todos {
		todo, reason := sanitizeTodo(raw, now)
		if reason != "" {
			warnings = append(warnings, fmt.Sprintf("todos[%d]: %s", i, reason))
			continue
		}
		if _, dup := todoIDs[todo.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("todos[%d]: duplicate id %q", i, todo.ID))
			continue
		}
		todoIDs[todo.ID] = struct{}{}

		// Cross-reference fixup: dangling references are dropped silently.
		if todo.CategoryID != nil {
			if _, ok := categoryIDs[*todo.CategoryID]; !ok {
				todo.CategoryID = nil
			}
		}
		kept := todo.Tags[:0]
		for _, tagID := range todo.Tags {
			if _, ok := tagIDs[tagID]; ok {
				kept = append(kept, tagID)
			}
		}
		todo.Tags = kept

		out.Todos = append(out.Todos, todo)
	}

	return out, warnings
}

func sanitizeTodo(raw RawTodo, now time.Time) (model.Todo, string) {
	id := strings.TrimSpace(raw.ID)
	if !ValidID(id) {
		return model.Todo{}, "invalid id"
	}
	title := CleanString(raw.Title, MaxTitleLen)
	if title == "" {
		return model.Todo{}, "empty title"
	}

	// Unparseable timestamps default to now rather than rejecting the todo.
	createdAt, ok := ParseTime(raw.CreatedAt)
	if !ok {
		createdAt = now
	}
	updatedAt, ok := ParseTime(raw.UpdatedAt)
	if !ok {
		updatedAt = now
	}
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}

	var categoryID *string
	if raw.CategoryID != nil {
		id := strings.TrimSpace(*raw.CategoryID)
		if id != "" && ValidID(id) {
			categoryID = &id
		}
	}

	tagRefs := raw.Tags
	if len(tagRefs) > MaxTagsPerTodo {
		tagRefs = tagRefs[:MaxTagsPerTodo]
	}
	seen := make(map[string]struct{}, len(tagRefs))
	tags := make([]string, 0, len(tagRefs))
	for _, tag := range tagRefs {
		tagID := strings.TrimSpace(tag)
		if !ValidID(tagID) {
			continue
		}
		if _, dup := seen[tagID]; dup {
			continue
		}
		seen[tagID] = struct{}{}
		tags = append(tags, tagID)
	}

	return model.Todo{
		ID:         id,
		Title:      title,
		Completed:  raw.Completed,
		CategoryID: categoryID,
		Tags:       tags,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, ""
}

func sanitizeCategory(raw RawCategory) (model.Category, string) {
	id := strings.TrimSpace(raw.ID)
	if !ValidID(id) {
		return model.Category{}, "invalid id"
	}
	name := CleanString(raw.Name, MaxNameLen)
	if name == "" {
		return model.Category{}, "empty name"
	}
	color := strings.TrimSpace(raw.Color)
	if !ValidColor(color) {
		return model.Category{}, "invalid color"
	}
	return model.Category{
		ID:    id,
		Name:  name,
		Icon:  CleanString(raw.Icon, MaxIconLen),
		Color: color,
	}, ""
}

func sanitizeTag(raw RawTag) (model.Tag, string) {
	id := strings.TrimSpace(raw.ID)
	if !ValidID(id) {
		return model.Tag{}, "invalid id"
	}
	name := CleanString(raw.Name, MaxNameLen)
	if name == "" {
		return model.Tag{}, "empty name"
	}
	color := strings.TrimSpace(raw.Color)
	if !ValidColor(color) {
		return model.Tag{}, "invalid color"
	}
	return model.Tag{ID: id, Name: name, Color: color}, ""
}
