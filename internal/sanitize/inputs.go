package sanitize

import (
	"encoding/json"
	"fmt"
	"strings"

	"taskhub/internal/model"
)

// TodoInput is the request shape for creating a todo.
type TodoInput struct {
	Title      string   `json:"title"`
	CategoryID *string  `json:"categoryId"`
	Tags       []string `json:"tags"`
}

// CategoryInput is the request shape for creating a category.
type CategoryInput struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// TagInput is the request shape for creating a tag.
type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ValidateNewTodo checks a todo creation input strictly: any invalid required
// field fails the whole operation. The returned todo has sanitized fields but
// no ID, owner, or timestamps; the caller assigns those.
func ValidateNewTodo(in TodoInput) (model.Todo, []string) {
	var problems []string

	title := CleanString(in.Title, MaxTitleLen)
	if title == "" {
		problems = append(problems, "title: required and must be non-empty")
	}

	var categoryID *string
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) != "" {
		id := strings.TrimSpace(*in.CategoryID)
		if !ValidID(id) {
			problems = append(problems, "categoryId: invalid identifier")
		} else {
			categoryID = &id
		}
	}

	tags, tagProblems := validateTagRefs(in.Tags)
	problems = append(problems, tagProblems...)

	if len(problems) > 0 {
		return model.Todo{}, problems
	}
	return model.Todo{Title: title, CategoryID: categoryID, Tags: tags}, nil
}

// ValidateTodoUpdate checks a partial todo update. The raw map form lets an
// explicit `"categoryId": null` be told apart from an absent field; unknown
// keys are ignored.
func ValidateTodoUpdate(raw map[string]json.RawMessage) (model.TodoPatch, []string) {
	var patch model.TodoPatch
	var problems []string

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			problems = append(problems, "title: must be a string")
		} else {
			title = CleanString(title, MaxTitleLen)
			if title == "" {
				problems = append(problems, "title: must be non-empty")
			} else {
				patch.Title = &title
			}
		}
	}

	if v, ok := raw["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(v, &completed); err != nil {
			problems = append(problems, "completed: must be a boolean")
		} else {
			patch.Completed = &completed
		}
	}

	if v, ok := raw["categoryId"]; ok {
		if string(v) == "null" {
			patch.ClearCategory = true
		} else {
			var id string
			if err := json.Unmarshal(v, &id); err != nil {
				problems = append(problems, "categoryId: must be a string or null")
			} else {
				id = strings.TrimSpace(id)
				if id == "" {
					patch.ClearCategory = true
				} else if !ValidID(id) {
					problems = append(problems, "categoryId: invalid identifier")
				} else {
					patch.CategoryID = &id
				}
			}
		}
	}

	if v, ok := raw["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(v, &tags); err != nil {
			problems = append(problems, "tags: must be an array of strings")
		} else {
			clean, tagProblems := validateTagRefs(tags)
			if len(tagProblems) > 0 {
				problems = append(problems, tagProblems...)
			} else {
				patch.Tags = clean
				patch.SetTags = true
			}
		}
	}

	if len(problems) > 0 {
		return model.TodoPatch{}, problems
	}
	return patch, nil
}

// ValidateNewCategory checks a category creation input strictly. All three
// fields are required.
func ValidateNewCategory(in CategoryInput) (model.Category, []string) {
	var problems []string

	name := CleanString(in.Name, MaxNameLen)
	if name == "" {
		problems = append(problems, "name: required and must be non-empty")
	}
	icon := CleanString(in.Icon, MaxIconLen)
	if icon == "" {
		problems = append(problems, "icon: required and must be non-empty")
	}
	color := strings.TrimSpace(in.Color)
	if !ValidColor(color) {
		problems = append(problems, "color: must match #RRGGBB")
	}

	if len(problems) > 0 {
		return model.Category{}, problems
	}
	return model.Category{Name: name, Icon: icon, Color: color}, nil
}

// ValidateNewTag checks a tag creation input strictly.
func ValidateNewTag(in TagInput) (model.Tag, []string) {
	var problems []string

	name := CleanString(in.Name, MaxNameLen)
	if name == "" {
		problems = append(problems, "name: required and must be non-empty")
	}
	color := strings.TrimSpace(in.Color)
	if !ValidColor(color) {
		problems = append(problems, "color: must match #RRGGBB")
	}

	if len(problems) > 0 {
		return model.Tag{}, problems
	}
	return model.Tag{Name: name, Color: color}, nil
}

// validateTagRefs sanitizes a tag reference list: deduplicates, validates each
// ID, and caps the list. A single bad reference fails the whole list.
func validateTagRefs(tags []string) ([]string, []string) {
	if len(tags) > MaxTagsPerTodo {
		tags = tags[:MaxTagsPerTodo]
	}
	var problems []string
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for i, tag := range tags {
		id := strings.TrimSpace(tag)
		if !ValidID(id) {
			problems = append(problems, fmt.Sprintf("tags[%d]: invalid identifier", i))
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(problems) > 0 {
		return nil, problems
	}
	return out, nil
}
