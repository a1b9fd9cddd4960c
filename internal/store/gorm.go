package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// GormStore implements Store on a SQL database. It exists to demonstrate
// substituting the volatile in-memory store with a durable backend without
// touching validator or handler logic; select it with STORE_DRIVER=sqlite.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ensureUser creates the user record with default collections on first
// access. Runs inside the caller's transaction.
func (s *GormStore) ensureUser(tx *gorm.DB, userID string) error {
	var state model.UserState
	err := tx.Where("user_id = ?", userID).First(&state).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&model.UserState{UserID: userID}).Error; err != nil {
			return fmt.Errorf("create user state: %w", err)
		}
		defaults := defaultUserData(time.Now().UTC())
		for _, cat := range defaults.Categories {
			cat.UserID = userID
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("create default category: %w", err)
			}
		}
		for _, tag := range defaults.Tags {
			tag.UserID = userID
			if err := tx.Create(&tag).Error; err != nil {
				return fmt.Errorf("create default tag: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("find user state: %w", err)
	}
}

// loadUserData reads the full state inside the caller's transaction. Todos
// come back in user-controlled order; categories and tags in insertion order.
func (s *GormStore) loadUserData(tx *gorm.DB, userID string) (*model.UserData, error) {
	data := &model.UserData{
		Todos:      []model.Todo{},
		Categories: []model.Category{},
		Tags:       []model.Tag{},
	}

	var state model.UserState
	if err := tx.Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, fmt.Errorf("find user state: %w", err)
	}
	data.Migrated = state.Migrated

	if err := tx.Where("user_id = ?", userID).Order("position ASC").Find(&data.Todos).Error; err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&data.Categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&data.Tags).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return data, nil
}

func (s *GormStore) GetUserData(ctx context.Context, userID string) (*model.UserData, error) {
	var data *model.UserData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		var err error
		data, err = s.loadUserData(tx, userID)
		return err
	})
	return data, err
}

func (s *GormStore) SetUserData(ctx context.Context, userID string, patch UserDataPatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		if patch.Todos != nil {
			if err := replaceTodos(tx, userID, *patch.Todos); err != nil {
				return err
			}
		}
		if patch.Categories != nil {
			if err := tx.Where("user_id = ?", userID).Delete(&model.Category{}).Error; err != nil {
				return fmt.Errorf("clear categories: %w", err)
			}
			for _, cat := range *patch.Categories {
				cat.UserID = userID
				if err := tx.Create(&cat).Error; err != nil {
					return fmt.Errorf("insert category: %w", err)
				}
			}
		}
		if patch.Tags != nil {
			if err := tx.Where("user_id = ?", userID).Delete(&model.Tag{}).Error; err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
			for _, tag := range *patch.Tags {
				tag.UserID = userID
				if err := tx.Create(&tag).Error; err != nil {
					return fmt.Errorf("insert tag: %w", err)
				}
			}
		}
		if patch.Migrated != nil {
			if err := tx.Model(&model.UserState{}).Where("user_id = ?", userID).
				Update("migrated", *patch.Migrated).Error; err != nil {
				return fmt.Errorf("set migrated: %w", err)
			}
		}
		return nil
	})
}

// AddTodo prepends by assigning a position below the current minimum.
func (s *GormStore) AddTodo(ctx context.Context, userID string, todo model.Todo) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		var minPos int
		if err := tx.Model(&model.Todo{}).Where("user_id = ?", userID).
			Select("COALESCE(MIN(position), 1)").Scan(&minPos).Error; err != nil {
			return fmt.Errorf("min position: %w", err)
		}
		todo.UserID = userID
		todo.Position = minPos - 1
		if err := tx.Create(&todo).Error; err != nil {
			return fmt.Errorf("create todo: %w", err)
		}
		return nil
	})
}

func (s *GormStore) UpdateTodo(ctx context.Context, userID, todoID string, patch model.TodoPatch, now time.Time) (*model.Todo, error) {
	var updated *model.Todo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		var todo model.Todo
		err := tx.Where("user_id = ? AND id = ?", userID, todoID).First(&todo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find todo: %w", err)
		}
		applyTodoPatch(&todo, patch, now)
		if err := tx.Save(&todo).Error; err != nil {
			return fmt.Errorf("save todo: %w", err)
		}
		updated = &todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) DeleteTodo(ctx context.Context, userID, todoID string) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND id = ?", userID, todoID).Delete(&model.Todo{})
		if res.Error != nil {
			return fmt.Errorf("delete todo: %w", res.Error)
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}

func (s *GormStore) ReorderTodos(ctx context.Context, userID string, fromIndex, toIndex int) ([]model.Todo, error) {
	var result []model.Todo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		var todos []model.Todo
		if err := tx.Where("user_id = ?", userID).Order("position ASC").Find(&todos).Error; err != nil {
			return fmt.Errorf("load todos: %w", err)
		}
		n := len(todos)
		if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
			return ErrBadIndex
		}
		moved := todos[fromIndex]
		rest := append(todos[:fromIndex:fromIndex], todos[fromIndex+1:]...)
		ordered := make([]model.Todo, 0, n)
		ordered = append(ordered, rest[:toIndex]...)
		ordered = append(ordered, moved)
		ordered = append(ordered, rest[toIndex:]...)
		for i := range ordered {
			if ordered[i].Position == i {
				continue
			}
			if err := tx.Model(&model.Todo{}).
				Where("user_id = ? AND id = ?", userID, ordered[i].ID).
				Update("position", i).Error; err != nil {
				return fmt.Errorf("update position: %w", err)
			}
			ordered[i].Position = i
		}
		result = ordered
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *GormStore) AddCategory(ctx context.Context, userID string, category model.Category) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		category.UserID = userID
		if err := tx.Create(&category).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
}

// DeleteCategory removes the category and nulls the reference on every todo
// pointing at it, in one transaction.
func (s *GormStore) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND id = ?", userID, categoryID).Delete(&model.Category{})
		if res.Error != nil {
			return fmt.Errorf("delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		if err := tx.Model(&model.Todo{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("clear category refs: %w", err)
		}
		return nil
	})
	return removed, err
}

func (s *GormStore) AddTag(ctx context.Context, userID string, tag model.Tag) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		tag.UserID = userID
		if err := tx.Create(&tag).Error; err != nil {
			return fmt.Errorf("create tag: %w", err)
		}
		return nil
	})
}

// DeleteTag removes the tag and rewrites the tag set of every todo that
// carried it. Tag sets live as serialized JSON, so the filtering happens in
// Go rather than SQL.
func (s *GormStore) DeleteTag(ctx context.Context, userID, tagID string) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND id = ?", userID, tagID).Delete(&model.Tag{})
		if res.Error != nil {
			return fmt.Errorf("delete tag: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		var todos []model.Todo
		if err := tx.Where("user_id = ?", userID).Find(&todos).Error; err != nil {
			return fmt.Errorf("load todos: %w", err)
		}
		for i := range todos {
			if !todos[i].HasTag(tagID) {
				continue
			}
			kept := make([]string, 0, len(todos[i].Tags))
			for _, id := range todos[i].Tags {
				if id != tagID {
					kept = append(kept, id)
				}
			}
			todos[i].Tags = kept
			if err := tx.Save(&todos[i]).Error; err != nil {
				return fmt.Errorf("strip tag ref: %w", err)
			}
		}
		return nil
	})
	return removed, err
}

func (s *GormStore) HasMigrated(ctx context.Context, userID string) (bool, error) {
	migrated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		var state model.UserState
		if err := tx.Where("user_id = ?", userID).First(&state).Error; err != nil {
			return fmt.Errorf("find user state: %w", err)
		}
		migrated = state.Migrated
		return nil
	})
	return migrated, err
}

func (s *GormStore) SetMigrated(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		return tx.Model(&model.UserState{}).Where("user_id = ?", userID).
			Update("migrated", true).Error
	})
}

// ImportUserData replaces all collections wholesale and flips the migration
// flag.
func (s *GormStore) ImportUserData(ctx context.Context, userID string, data *model.UserData) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		if err := replaceTodos(tx, userID, data.Todos); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Category{}).Error; err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		for _, cat := range data.Categories {
			cat.UserID = userID
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("insert category: %w", err)
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Tag{}).Error; err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		for _, tag := range data.Tags {
			tag.UserID = userID
			if err := tx.Create(&tag).Error; err != nil {
				return fmt.Errorf("insert tag: %w", err)
			}
		}
		return tx.Model(&model.UserState{}).Where("user_id = ?", userID).
			Update("migrated", true).Error
	})
}

// replaceTodos swaps a user's todo sequence, preserving the given order via
// positions.
func replaceTodos(tx *gorm.DB, userID string, todos []model.Todo) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.Todo{}).Error; err != nil {
		return fmt.Errorf("clear todos: %w", err)
	}
	for i, todo := range todos {
		todo.UserID = userID
		todo.Position = i
		if err := tx.Create(&todo).Error; err != nil {
			return fmt.Errorf("insert todo: %w", err)
		}
	}
	return nil
}
