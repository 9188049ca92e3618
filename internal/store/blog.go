package store

import (
	"context"

	"gorm.io/gorm"

	"simplyblog/internal/models"
)

// DefaultListLimit caps list queries when the caller does not ask for a size.
const DefaultListLimit = 100

// paginate bounds a list query; every list endpoint goes through it.
func paginate(db *gorm.DB, skip, limit int) *gorm.DB {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return db.Offset(skip).Limit(limit)
}

type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *CategoryStore) List(ctx context.Context, skip, limit int) ([]models.Category, error) {
	var cs []models.Category
	err := paginate(s.db.WithContext(ctx), skip, limit).Order("created_at desc").Find(&cs).Error
	return cs, translate(err)
}

func (s *CategoryStore) FindByUID(ctx context.Context, uid string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "uid = ?", uid).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Save(c).Error)
}

func (s *CategoryStore) Delete(ctx context.Context, uid string) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Category{}, "uid = ?", uid).Error)
}

type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore {
	return &TagStore{db: db}
}

func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *TagStore) List(ctx context.Context, skip, limit int) ([]models.Tag, error) {
	var ts []models.Tag
	err := paginate(s.db.WithContext(ctx), skip, limit).Order("name asc").Find(&ts).Error
	return ts, translate(err)
}

func (s *TagStore) FindByUID(ctx context.Context, uid string) (*models.Tag, error) {
	var t models.Tag
	if err := s.db.WithContext(ctx).First(&t, "uid = ?", uid).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	return translate(s.db.WithContext(ctx).Save(t).Error)
}

func (s *TagStore) FindByUIDs(ctx context.Context, uids []string) ([]models.Tag, error) {
	var ts []models.Tag
	if len(uids) == 0 {
		return ts, nil
	}
	err := s.db.WithContext(ctx).Where("uid IN ?", uids).Find(&ts).Error
	return ts, translate(err)
}

func (s *TagStore) Delete(ctx context.Context, uid string) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Tag{}, "uid = ?", uid).Error)
}

type BlogStore struct {
	db *gorm.DB
}

func NewBlogStore(db *gorm.DB) *BlogStore {
	return &BlogStore{db: db}
}

func (s *BlogStore) Create(ctx context.Context, b *models.Blog) error {
	return translate(s.db.WithContext(ctx).Create(b).Error)
}

func (s *BlogStore) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category").Preload("Tags")
}

func (s *BlogStore) List(ctx context.Context, skip, limit int) ([]models.Blog, error) {
	var bs []models.Blog
	err := paginate(s.preloaded(ctx), skip, limit).Order("created_at desc").Find(&bs).Error
	return bs, translate(err)
}

// ListByUser returns one author's blogs, newest first.
func (s *BlogStore) ListByUser(ctx context.Context, userUID string, skip, limit int) ([]models.Blog, error) {
	var bs []models.Blog
	err := paginate(s.preloaded(ctx), skip, limit).
		Where("user_uid = ?", userUID).Order("created_at desc").Find(&bs).Error
	return bs, translate(err)
}

func (s *BlogStore) ListFeatured(ctx context.Context, skip, limit int) ([]models.Blog, error) {
	var bs []models.Blog
	err := paginate(s.preloaded(ctx), skip, limit).
		Where("is_featured = ?", true).Order("created_at desc").Find(&bs).Error
	return bs, translate(err)
}

// ListTrending orders by trend_rank, which Update bumps on every edit.
func (s *BlogStore) ListTrending(ctx context.Context, skip, limit int) ([]models.Blog, error) {
	var bs []models.Blog
	err := paginate(s.preloaded(ctx), skip, limit).Order("trend_rank desc").Find(&bs).Error
	return bs, translate(err)
}

func (s *BlogStore) FindByUID(ctx context.Context, uid string) (*models.Blog, error) {
	var b models.Blog
	if err := s.preloaded(ctx).First(&b, "uid = ?", uid).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *BlogStore) Update(ctx context.Context, b *models.Blog) error {
	return translate(s.db.WithContext(ctx).Save(b).Error)
}

func (s *BlogStore) ReplaceTags(ctx context.Context, b *models.Blog, tags []models.Tag) error {
	return translate(s.db.WithContext(ctx).Model(b).Association("Tags").Replace(tags))
}

func (s *BlogStore) Delete(ctx context.Context, uid string) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Blog{}, "uid = ?", uid).Error)
}
