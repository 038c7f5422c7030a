package service

import (
	"context"
	"errors"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/repository"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID uint) (*domain.Cart, error) {
	return s.carts.FindOrCreateByUser(userID)
}

// AddItem snapshots the product's current name, image and price into the
// cart. Adding a product already present increments its quantity instead of
// duplicating the line.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.FindOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	if item := cart.Item(productID); item != nil {
		item.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  quantity,
			Image:     product.Image,
			Price:     product.Price,
		})
	}
	if err := s.carts.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID uint, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.carts.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	item := cart.Item(productID)
	if item == nil {
		return nil, ErrItemNotInCart
	}
	item.Quantity = quantity
	if err := s.carts.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	removed, err := s.carts.RemoveItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrItemNotInCart
	}
	return s.carts.FindByUser(userID)
}

func (s *CartService) Clear(ctx context.Context, userID uint) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(cart.ID); err != nil {
		return nil, err
	}
	return s.carts.FindByUser(userID)
}
