package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"simplyblog/internal/models"
)

// SessionStore persists one row per issued token pair. Rows gate the
// authorize path and are removed by logout or the retention sweeper.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, sess *models.Session) error {
	return translate(s.db.WithContext(ctx).Create(sess).Error)
}

func (s *SessionStore) FindByAccessToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "access_token = ?", token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sess, nil
}

func (s *SessionStore) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "refresh_token = ?", token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sess, nil
}

// DeleteByAccessToken removes the matching session and returns it. A miss is
// a no-op returning (nil, nil).
func (s *SessionStore) DeleteByAccessToken(ctx context.Context, token string) (*models.Session, error) {
	sess, err := s.FindByAccessToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "uid = ?", sess.UID).Error; err != nil {
		return nil, translate(err)
	}
	return sess, nil
}

// ReplaceTokens rewrites a session row with a freshly minted pair, retiring
// the pair it previously held.
func (s *SessionStore) ReplaceTokens(ctx context.Context, sessionUID, accessToken, refreshToken string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Session{}).Where("uid = ?", sessionUID).
		Updates(map[string]any{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredBefore drops sessions created before the cutoff and reports
// how many rows went away.
func (s *SessionStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Session{}, "created_at < ?", cutoff)
	return res.RowsAffected, translate(res.Error)
}
