package store

import (
	"context"
	"fmt"

	"taskhub/internal/model"
)

// Stats aggregates collection sizes across all known users, for operational
// logging.
type Stats struct {
	Users      int
	Todos      int
	Categories int
	Tags       int
	Migrated   int
}

// Stats reports totals over the in-memory map.
func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	st.Users = len(s.users)
	for _, d := range s.users {
		st.Todos += len(d.Todos)
		st.Categories += len(d.Categories)
		st.Tags += len(d.Tags)
		if d.Migrated {
			st.Migrated++
		}
	}
	return st, nil
}

// Stats reports totals over the database tables.
func (s *GormStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)

	counts := []struct {
		model any
		dst   *int
	}{
		{&model.UserState{}, &st.Users},
		{&model.Todo{}, &st.Todos},
		{&model.Category{}, &st.Categories},
		{&model.Tag{}, &st.Tags},
	}
	for _, c := range counts {
		var n int64
		if err := db.Model(c.model).Count(&n).Error; err != nil {
			return Stats{}, fmt.Errorf("count: %w", err)
		}
		*c.dst = int(n)
	}

	var migrated int64
	if err := db.Model(&model.UserState{}).Where("migrated = ?", true).Count(&migrated).Error; err != nil {
		return Stats{}, fmt.Errorf("count migrated: %w", err)
	}
	st.Migrated = int(migrated)
	return st, nil
}
