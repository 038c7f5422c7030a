package repository

import (
	"context"
	"errors"
	"time"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"

	"gorm.io/gorm"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository maintains each user's active refresh-token set.
// Membership in this set is the server-side half of the refresh-token
// invariant: a token that parses but is absent here is not honored.
type RefreshTokenRepository interface {
	Add(userID uint, token string, expiresAt time.Time) error
	Remove(token string) (bool, error)
	Exists(userID uint, token string) (bool, error)
	FindUserIDByToken(token string) (uint, error)
	RemoveAllForUser(userID uint) (int64, error)
	CleanupExpired() (int64, error)
}

type GormRefreshTokenRepository struct{ db *gorm.DB }

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

func (r *GormRefreshTokenRepository) Add(userID uint, token string, expiresAt time.Time) error {
	err := r.db.Create(&domain.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_token", "add", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_token", "add", "success")
	return nil
}

func (r *GormRefreshTokenRepository) Remove(token string) (bool, error) {
	res := r.db.Where("token = ?", token).Delete(&domain.RefreshToken{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_token", "remove", "error")
		return false, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_token", "remove", "success")
	return res.RowsAffected > 0, nil
}

func (r *GormRefreshTokenRepository) Exists(userID uint, token string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.RefreshToken{}).
		Where("user_id = ? AND token = ? AND expires_at > ?", userID, token, time.Now()).
		Count(&count).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_token", "exists", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_token", "exists", "success")
	return count > 0, nil
}

func (r *GormRefreshTokenRepository) FindUserIDByToken(token string) (uint, error) {
	var rt domain.RefreshToken
	err := r.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "refresh_token", "find_user_by_token", "not_found")
			return 0, ErrRefreshTokenNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "refresh_token", "find_user_by_token", "error")
		return 0, err
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_token", "find_user_by_token", "success")
	return rt.UserID, nil
}

func (r *GormRefreshTokenRepository) RemoveAllForUser(userID uint) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&domain.RefreshToken{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_token", "remove_all_for_user", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_token", "remove_all_for_user", "success")
	return res.RowsAffected, nil
}

func (r *GormRefreshTokenRepository) CleanupExpired() (int64, error) {
	res := r.db.Where("expires_at <= ?", time.Now()).Delete(&domain.RefreshToken{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_token", "cleanup_expired", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_token", "cleanup_expired", "success")
	return res.RowsAffected, nil
}
