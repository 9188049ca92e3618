package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"simplyblog/internal/models"
)

// UserStore is the user/group directory backing the auth service.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

// FindByEmail returns the user with groups materialized, or ErrNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Groups").First(&u, "email = ?", email).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Groups").First(&u, "uid = ?", uid).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, uid string, at time.Time) error {
	return translate(s.db.WithContext(ctx).
		Model(&models.User{}).Where("uid = ?", uid).
		Update("last_login", at).Error)
}

func (s *UserStore) AddToGroup(ctx context.Context, u *models.User, g *models.Group) error {
	return translate(s.db.WithContext(ctx).Model(u).Association("Groups").Append(g))
}
