package repository

import (
	"context"
	"errors"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"

	"gorm.io/gorm"
)

var ErrCartNotFound = errors.New("cart not found")

type CartRepository interface {
	// FindOrCreateByUser returns the user's cart, creating an empty one on
	// first access.
	FindOrCreateByUser(userID uint) (*domain.Cart, error)
	FindByUser(userID uint) (*domain.Cart, error)
	Save(cart *domain.Cart) error
	RemoveItem(cartID, productID uint) (bool, error)
	Clear(cartID uint) error
}

type GormCartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) CartRepository { return &GormCartRepository{db: db} }

func (r *GormCartRepository) FindOrCreateByUser(userID uint) (*domain.Cart, error) {
	cart, err := r.FindByUser(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}
	cart = &domain.Cart{UserID: userID}
	if err := r.db.Create(cart).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "cart", "create", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "cart", "create", "success")
	return cart, nil
}

func (r *GormCartRepository) FindByUser(userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "cart", "find_by_user", "not_found")
			return nil, ErrCartNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "cart", "find_by_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "cart", "find_by_user", "success")
	return &cart, nil
}

func (r *GormCartRepository) Save(cart *domain.Cart) error {
	err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "cart", "save", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "cart", "save", "success")
	return nil
}

func (r *GormCartRepository) RemoveItem(cartID, productID uint) (bool, error) {
	res := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&domain.CartItem{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "cart", "remove_item", "error")
		return false, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "cart", "remove_item", "success")
	return res.RowsAffected > 0, nil
}

func (r *GormCartRepository) Clear(cartID uint) error {
	err := r.db.Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "cart", "clear", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "cart", "clear", "success")
	return nil
}
