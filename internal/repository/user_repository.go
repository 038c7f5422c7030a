package repository

import (
	"context"
	"errors"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository interface {
	FindByID(id uint) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	List() ([]domain.User, error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "success")
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "success")
	return &u, nil
}

func (r *GormUserRepository) Create(user *domain.User) error {
	err := r.db.Create(user).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "create", "error")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "create", "success")
	return nil
}

func (r *GormUserRepository) Update(user *domain.User) error {
	err := r.db.Save(user).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "update", "success")
	return nil
}

func (r *GormUserRepository) List() ([]domain.User, error) {
	var users []domain.User
	err := r.db.Order("id").Find(&users).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "list", "error")
		return users, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "list", "success")
	return users, err
}
