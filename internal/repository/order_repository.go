package repository

import (
	"context"
	"errors"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

type OrderRepository interface {
	Create(order *domain.Order) error
	FindByID(id uint) (*domain.Order, error)
	ListByUser(userID uint) ([]domain.Order, error)
	List() ([]domain.Order, error)
	Save(order *domain.Order) error
}

type GormOrderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &GormOrderRepository{db: db} }

func (r *GormOrderRepository) Create(order *domain.Order) error {
	err := r.db.Create(order).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "order", "create", "error")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderNumber
		}
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "order", "create", "success")
	return nil
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var o domain.Order
	err := r.db.Preload("Items").Preload("User").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "order", "find_by_id", "not_found")
			return nil, ErrOrderNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "order", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "order", "find_by_id", "success")
	return &o, nil
}

func (r *GormOrderRepository) ListByUser(userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "order", "list_by_user", "error")
		return orders, err
	}
	observability.RecordRepositoryOperation(context.Background(), "order", "list_by_user", "success")
	return orders, nil
}

func (r *GormOrderRepository) List() ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Items").Preload("User").Order("created_at DESC").Find(&orders).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "order", "list", "error")
		return orders, err
	}
	observability.RecordRepositoryOperation(context.Background(), "order", "list", "success")
	return orders, nil
}

func (r *GormOrderRepository) Save(order *domain.Order) error {
	err := r.db.Save(order).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "order", "save", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "order", "save", "success")
	return nil
}
