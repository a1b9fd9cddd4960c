package store

import (
	"context"
	"sync"
	"time"

	"taskhub/internal/model"
)

// MemoryStore keeps all user data in a process-local map. Data is volatile
// and lost on restart. A single mutex makes each operation run to completion
// without interleaving; concurrent writes to the same user are last-write-wins.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*model.UserData
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*model.UserData)}
}

// data returns the live record for userID, creating it with defaults on first
// access. Callers must hold s.mu.
func (s *MemoryStore) data(userID string) *model.UserData {
	d, ok := s.users[userID]
	if !ok {
		d = defaultUserData(time.Now().UTC())
		s.users[userID] = d
	}
	return d
}

func (s *MemoryStore) GetUserData(_ context.Context, userID string) (*model.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data(userID).Clone(), nil
}

func (s *MemoryStore) SetUserData(_ context.Context, userID string, patch UserDataPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	if patch.Todos != nil {
		d.Todos = append([]model.Todo(nil), (*patch.Todos)...)
	}
	if patch.Categories != nil {
		d.Categories = append([]model.Category(nil), (*patch.Categories)...)
	}
	if patch.Tags != nil {
		d.Tags = append([]model.Tag(nil), (*patch.Tags)...)
	}
	if patch.Migrated != nil {
		d.Migrated = *patch.Migrated
	}
	return nil
}

// AddTodo prepends: the most recent todo comes first.
func (s *MemoryStore) AddTodo(_ context.Context, userID string, todo model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	d.Todos = append([]model.Todo{todo}, d.Todos...)
	return nil
}

func (s *MemoryStore) UpdateTodo(_ context.Context, userID, todoID string, patch model.TodoPatch, now time.Time) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	for i := range d.Todos {
		if d.Todos[i].ID == todoID {
			applyTodoPatch(&d.Todos[i], patch, now)
			cp := d.Todos[i]
			cp.Tags = append([]string(nil), cp.Tags...)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteTodo(_ context.Context, userID, todoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	for i := range d.Todos {
		if d.Todos[i].ID == todoID {
			d.Todos = append(d.Todos[:i], d.Todos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ReorderTodos moves the element at fromIndex to toIndex. Both indices are
// bounds-checked; out-of-range indices fail with ErrBadIndex.
func (s *MemoryStore) ReorderTodos(_ context.Context, userID string, fromIndex, toIndex int) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	n := len(d.Todos)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return nil, ErrBadIndex
	}
	moved := d.Todos[fromIndex]
	rest := append(d.Todos[:fromIndex:fromIndex], d.Todos[fromIndex+1:]...)
	todos := make([]model.Todo, 0, n)
	todos = append(todos, rest[:toIndex]...)
	todos = append(todos, moved)
	todos = append(todos, rest[toIndex:]...)
	d.Todos = todos
	return s.data(userID).Clone().Todos, nil
}

func (s *MemoryStore) AddCategory(_ context.Context, userID string, category model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	d.Categories = append(d.Categories, category)
	return nil
}

// DeleteCategory removes the category and clears the reference on every todo
// that pointed at it, in the same operation.
func (s *MemoryStore) DeleteCategory(_ context.Context, userID, categoryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	found := false
	for i := range d.Categories {
		if d.Categories[i].ID == categoryID {
			d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	for i := range d.Todos {
		if d.Todos[i].CategoryID != nil && *d.Todos[i].CategoryID == categoryID {
			d.Todos[i].CategoryID = nil
		}
	}
	return true, nil
}

func (s *MemoryStore) AddTag(_ context.Context, userID string, tag model.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	d.Tags = append(d.Tags, tag)
	return nil
}

// DeleteTag removes the tag and strips it from every todo's tag set.
func (s *MemoryStore) DeleteTag(_ context.Context, userID, tagID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(userID)
	found := false
	for i := range d.Tags {
		if d.Tags[i].ID == tagID {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	for i := range d.Todos {
		if !d.Todos[i].HasTag(tagID) {
			continue
		}
		kept := d.Todos[i].Tags[:0]
		for _, id := range d.Todos[i].Tags {
			if id != tagID {
				kept = append(kept, id)
			}
		}
		d.Todos[i].Tags = kept
	}
	return true, nil
}

func (s *MemoryStore) HasMigrated(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data(userID).Migrated, nil
}

func (s *MemoryStore) SetMigrated(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data(userID).Migrated = true
	return nil
}

// ImportUserData replaces all three collections wholesale and flips the
// migration flag. Used exactly once per user; the endpoint layer guards
// re-imports via HasMigrated.
func (s *MemoryStore) ImportUserData(_ context.Context, userID string, data *model.UserData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := data.Clone()
	d.Migrated = true
	s.users[userID] = d
	return nil
}
