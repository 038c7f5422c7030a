package repository

import (
	"errors"
	"testing"

	"commerce-backend/internal/domain"
)

func TestCartFindOrCreateByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	user := mustCreate(t, db, &domain.User{FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleCustomer})

	if _, err := repo.FindByUser(user.ID); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound before creation, got %v", err)
	}

	cart, err := repo.FindOrCreateByUser(user.ID)
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	again, err := repo.FindOrCreateByUser(user.ID)
	if err != nil || again.ID != cart.ID {
		t.Fatalf("second call must return the same cart: %v %+v", err, again)
	}
}

func TestCartSaveAndRemoveItem(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	user := mustCreate(t, db, &domain.User{FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleCustomer})
	category := mustCreate(t, db, &domain.Category{Name: "Electronics", Slug: "electronics"})
	product := mustCreate(t, db, &domain.Product{Name: "Phone", Price: 500, CategoryID: category.ID, InStock: true})

	cart, err := repo.FindOrCreateByUser(user.ID)
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	cart.Items = append(cart.Items, domain.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  2,
		Price:     product.Price,
	})
	if err := repo.Save(cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := repo.FindByUser(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", reloaded.Items)
	}

	removed, err := repo.RemoveItem(cart.ID, product.ID)
	if err != nil || !removed {
		t.Fatalf("remove item: %v %v", removed, err)
	}
	removed, err = repo.RemoveItem(cart.ID, product.ID)
	if err != nil || removed {
		t.Fatalf("second remove must report false: %v %v", removed, err)
	}
}

func TestCartClear(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	user := mustCreate(t, db, &domain.User{FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleCustomer})
	category := mustCreate(t, db, &domain.Category{Name: "Electronics", Slug: "electronics"})
	first := mustCreate(t, db, &domain.Product{Name: "Phone", Price: 500, CategoryID: category.ID, InStock: true})
	second := mustCreate(t, db, &domain.Product{Name: "Cable", Price: 10, CategoryID: category.ID, InStock: true})

	cart, err := repo.FindOrCreateByUser(user.ID)
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	cart.Items = append(cart.Items,
		domain.CartItem{CartID: cart.ID, ProductID: first.ID, Name: first.Name, Quantity: 1, Price: first.Price},
		domain.CartItem{CartID: cart.ID, ProductID: second.ID, Name: second.Name, Quantity: 1, Price: second.Price},
	)
	if err := repo.Save(cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Clear(cart.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	reloaded, err := repo.FindByUser(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", reloaded.Items)
	}
}
