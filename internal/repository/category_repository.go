package repository

import (
	"context"
	"errors"
	"strings"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	FindByID(id uint) (*domain.Category, error)
	FindByNameOrSlug(nameOrSlug string) (*domain.Category, error)
	Create(c *domain.Category) error
	Update(c *domain.Category) error
	Delete(id uint) error
	List() ([]domain.Category, error)
}

type GormCategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindByID(id uint) (*domain.Category, error) {
	var c domain.Category
	err := r.db.First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "category", "find_by_id", "not_found")
			return nil, ErrCategoryNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "category", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "category", "find_by_id", "success")
	return &c, nil
}

func (r *GormCategoryRepository) FindByNameOrSlug(nameOrSlug string) (*domain.Category, error) {
	needle := strings.ToLower(strings.TrimSpace(nameOrSlug))
	var c domain.Category
	err := r.db.Where("LOWER(name) = ? OR LOWER(slug) = ?", needle, needle).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "category", "find_by_name_or_slug", "not_found")
			return nil, ErrCategoryNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "category", "find_by_name_or_slug", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "category", "find_by_name_or_slug", "success")
	return &c, nil
}

func (r *GormCategoryRepository) Create(c *domain.Category) error {
	err := r.db.Create(c).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "category", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "category", "create", "success")
	return nil
}

func (r *GormCategoryRepository) Update(c *domain.Category) error {
	err := r.db.Save(c).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "category", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "category", "update", "success")
	return nil
}

func (r *GormCategoryRepository) Delete(id uint) error {
	res := r.db.Delete(&domain.Category{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "category", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "category", "delete", "not_found")
		return ErrCategoryNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "category", "delete", "success")
	return nil
}

func (r *GormCategoryRepository) List() ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Order("name").Find(&categories).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "category", "list", "error")
		return categories, err
	}
	observability.RecordRepositoryOperation(context.Background(), "category", "list", "success")
	return categories, nil
}
