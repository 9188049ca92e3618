package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"simplyblog/internal/models"
)

type GroupStore struct {
	db *gorm.DB
}

func NewGroupStore(db *gorm.DB) *GroupStore {
	return &GroupStore{db: db}
}

func (s *GroupStore) FindByName(ctx context.Context, name string) (*models.Group, error) {
	var g models.Group
	err := s.db.WithContext(ctx).First(&g, "name = ?", name).Error
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// GetOrCreate returns the named group, creating it first if absent. A
// concurrent create losing the uniqueness race falls back to the winner's row.
func (s *GroupStore) GetOrCreate(ctx context.Context, name string) (*models.Group, error) {
	g, err := s.FindByName(ctx, name)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	created := models.Group{Name: name}
	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		if isDuplicate(err) {
			return s.FindByName(ctx, name)
		}
		return nil, translate(err)
	}
	return &created, nil
}
